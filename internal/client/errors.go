package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTimeout — запрос не уложился в отведённый таймаут.
	// Семантически соответствует HTTP 408; вызов можно повторить.
	ErrTimeout = errors.New("request timeout")
)

// HTTPError — сервис ответил не-2xx статусом.
// Message берётся из поля message тела ответа, если оно есть;
// Body сохраняется как есть для разбора вызывающей стороной.
type HTTPError struct {
	Status  int
	Message string
	Body    json.RawMessage
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// TransportError — запрос не удалось выполнить вовсе: сеть, DNS,
// оборванное соединение или некорректное (не-JSON) тело ответа.
// Статуса нет; автоматически не ретраится.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// newHTTPError собирает HTTPError c приоритетом сообщений:
// message из тела -> стандартный текст статуса -> generic.
func newHTTPError(status int, body json.RawMessage) *HTTPError {
	msg := ""

	if len(body) > 0 {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			msg = payload.Message
		}
	}

	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "request failed"
	}

	return &HTTPError{
		Status:  status,
		Message: msg,
		Body:    body,
	}
}

// IsTimeout сообщает, что вызов завершился по таймауту.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// AsHTTP достаёт HTTPError из цепочки обёрток.
func AsHTTP(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}

	return nil, false
}

// IsTransport сообщает, что вызов упал на транспортном уровне.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsUnauthorized — сервис отверг credential (401).
func IsUnauthorized(err error) bool {
	httpErr, ok := AsHTTP(err)
	return ok && httpErr.Status == http.StatusUnauthorized
}

// StatusOf возвращает HTTP-статус ошибки: 408 для таймаута,
// статус HTTPError, иначе 0 (транспорт/прочее).
func StatusOf(err error) int {
	if IsTimeout(err) {
		return http.StatusRequestTimeout
	}
	if httpErr, ok := AsHTTP(err); ok {
		return httpErr.Status
	}

	return 0
}

// UserMessage — безопасное человекочитаемое описание ошибки для UI.
// Детали транспорта наружу не утекают.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTimeout(err):
		return "request timed out, try again"
	case IsTransport(err):
		return "network is unavailable"
	}

	if httpErr, ok := AsHTTP(err); ok && httpErr.Message != "" {
		return httpErr.Message
	}

	return "request failed"
}
