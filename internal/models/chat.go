package models

// ChatReply — ответ ассистента по туру.
// ConversationID возвращается бэкендом, чтобы продолжить тот же диалог;
// старые версии API поле не отдают — тогда клиент оставляет свой id.
type ChatReply struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversationId,omitempty"`
}
