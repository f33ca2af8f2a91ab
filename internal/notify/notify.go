// notify — запрос модальных уведомлений (alert/confirm) без прямой
// ссылки на смонтированный диалог.
//
// Вместо глобального синглтона Hub — обычная зависимость: создаётся в
// composition root и передаётся тем, кому нужно показывать уведомления.
// Граф зависимостей остаётся явным, компоненты тестируются подстановкой
// DisplayFunc.
package notify

import "sync"

// Kind — тип уведомления; определяет набор кнопок по умолчанию.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindWarning
	KindConfirm
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Notification — одноразовый дескриптор модального уведомления.
// Потребляется ровно одним активным диалогом; новое уведомление
// замещает видимое (очереди нет).
type Notification struct {
	Kind        Kind
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	OnConfirm   func()
	OnCancel    func()
}

// DisplayFunc — колбэк отображения текущего диалогового хоста.
type DisplayFunc func(Notification)

// Notifier — контракт для компонентов, которым нужно показывать уведомления.
type Notifier interface {
	Show(Notification)
}

// Hub держит не больше одного активного колбэка отображения.
type Hub struct {
	mu      sync.Mutex
	display DisplayFunc
}

var _ Notifier = (*Hub)(nil)

func NewHub() *Hub { return &Hub{} }

// Attach регистрирует колбэк отображения, молча замещая прежний:
// диалоговый хост смонтирован ровно один.
func (h *Hub) Attach(fn DisplayFunc) {
	h.mu.Lock()
	h.display = fn
	h.mu.Unlock()
}

// Detach снимает колбэк (размонтирование хоста).
func (h *Hub) Detach() {
	h.mu.Lock()
	h.display = nil
	h.mu.Unlock()
}

// Show отправляет уведомление активному колбэку.
// До регистрации колбэка уведомления молча отбрасываются (без очереди).
// Кнопки по умолчанию: подтверждение "OK"; confirm/warning всегда
// получают кнопку отмены.
func (h *Hub) Show(n Notification) {
	if n.ConfirmText == "" {
		n.ConfirmText = "OK"
	}
	if (n.Kind == KindConfirm || n.Kind == KindWarning) && n.CancelText == "" {
		n.CancelText = "Cancel"
	}

	h.mu.Lock()
	fn := h.display
	h.mu.Unlock()

	if fn == nil {
		return
	}

	fn(n)
}

// Success — уведомление об успехе с одной кнопкой подтверждения.
func (h *Hub) Success(title, message string) {
	h.Show(Notification{Kind: KindSuccess, Title: title, Message: message})
}

// Error — уведомление об ошибке с одной кнопкой подтверждения.
func (h *Hub) Error(title, message string) {
	h.Show(Notification{Kind: KindError, Title: title, Message: message})
}

// Warning — предупреждение с подтверждением и отменой.
func (h *Hub) Warning(title, message string, onConfirm, onCancel func()) {
	h.Show(Notification{
		Kind:      KindWarning,
		Title:     title,
		Message:   message,
		OnConfirm: onConfirm,
		OnCancel:  onCancel,
	})
}

// Confirm — вопрос с подтверждением и отменой.
func (h *Hub) Confirm(title, message string, onConfirm, onCancel func()) {
	h.Show(Notification{
		Kind:      KindConfirm,
		Title:     title,
		Message:   message,
		OnConfirm: onConfirm,
		OnCancel:  onCancel,
	})
}
