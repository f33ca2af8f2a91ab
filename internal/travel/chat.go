package travel

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kruglovaa/go-travel-client/internal/client"
	"github.com/kruglovaa/go-travel-client/internal/models"
)

// ChatClient — фасад ассистента по турам.
type ChatClient struct {
	api *client.Client
}

type chatRequest struct {
	TourID         string `json:"tourId"`
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// Send отправляет сообщение ассистенту.
// Пустой conversationID начинает новый диалог со свежим uuid;
// идентификатор продолжения диалога возвращается в ответе.
func (c *ChatClient) Send(ctx context.Context, tourID, message, conversationID string) (*models.ChatReply, error) {
	const op = "travel.chat.Send"

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyMessage)
	}

	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	var out models.ChatReply
	if err := c.api.DoJSON(ctx, http.MethodPost, "/chatbot", chatRequest{
		TourID:         tourID,
		Message:        message,
		ConversationID: conversationID,
	}, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if out.ConversationID == "" {
		out.ConversationID = conversationID
	}

	return &out, nil
}
