// client выполняет одиночные HTTP-вызовы к travel-API: склейка заголовков,
// таймаут, JSON-декодирование и нормализация исходов в единую таксономию
// ошибок (таймаут / HTTP-ошибка / транспорт).
//
// Основные аспекты:
//   - Клиент не хранит состояние вызова; экземпляр безопасен для
//     конкурентного использования. Каждый вызов владеет собственным
//     дедлайном и отменой — общего мутабельного состояния между
//     конкурентными вызовами нет.
//   - Credential не читается из глобального стора: источник токена
//     передаётся явно через TokenSource (инъекция зависимостей),
//     поэтому клиент тестируется без секретного хранилища.
//   - Клиент ничего не ретраит и не восстанавливает: нормализует
//     ошибку и отдаёт её вызывающей стороне.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	logctx "github.com/kruglovaa/go-travel-client/internal/pkg/log"
)

// DefaultTimeout — дедлайн вызова, если не переопределён опциями.
const DefaultTimeout = 10 * time.Second

// TokenSource отдаёт текущий credential для подстановки в Authorization.
// Пустая строка без ошибки означает "credential не сохранён" —
// вызов уходит анонимным.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client — исполнитель запросов к одному базовому URL.
type Client struct {
	httpc     *http.Client
	baseURL   string
	timeout   time.Duration
	tokens    TokenSource // может быть nil — тогда Authorization не подставляется
	userAgent string
}

// Option — настройка клиента при создании.
type Option func(*Client)

// WithHTTPClient подменяет транспорт (в тестах и для кастомных TLS-настроек).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpc = h
		}
	}
}

// WithTimeout задаёт дедлайн по умолчанию для всех вызовов.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTokenSource задаёт источник credential.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUserAgent задаёт User-Agent исходящих вызовов.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New создаёт клиент для базового URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	const op = "client.New"

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%s: empty base url", op)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse base url: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, baseURL)
	}

	c := &Client{
		httpc:   &http.Client{},
		baseURL: baseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type callOptions struct {
	headers http.Header
	timeout time.Duration
}

// CallOption — настройка отдельного вызова.
type CallOption func(*callOptions)

// WithHeader добавляет заголовок вызова. Имена канонизируются http.Header,
// поэтому проверка "заголовок уже задан" регистронезависима.
func WithHeader(name, value string) CallOption {
	return func(o *callOptions) { o.headers.Set(name, value) }
}

// WithCallTimeout переопределяет дедлайн одного вызова.
func WithCallTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Do выполняет вызов и возвращает JSON-тело ответа (nil для пустого тела).
//
// Контракт:
//  1. заголовки вызывающей стороны имеют приоритет: Content-Type
//     подставляется только если тело есть, а заголовок не задан;
//     Authorization — только если не задан и TokenSource отдал credential;
//  2. дедлайн: существующий дедлайн контекста не переопределяется,
//     иначе навешивается таймаут вызова; cancel гарантированно
//     вызывается на каждом пути выхода;
//  3. исходы различимы через errors.Is/As: ErrTimeout (408),
//     *HTTPError (не-2xx, со статусом и телом), *TransportError
//     (сеть/DNS/не-JSON тело); отмена вызывающим контекстом
//     пробрасывается как context.Canceled.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...CallOption) (json.RawMessage, error) {
	const op = "client.Do"

	co := callOptions{
		headers: make(http.Header),
		timeout: c.timeout,
	}
	for _, opt := range opts {
		opt(&co)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal body: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	// Существующий дедлайн не трогаем (вызывающая сторона знает лучше).
	if _, ok := ctx.Deadline(); !ok && co.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, co.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for name, values := range co.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if req.Header.Get("Authorization") == "" && c.tokens != nil {
		tok, terr := c.tokens.Token(ctx)
		if terr != nil {
			// Недоступное хранилище не валит вызов — уходим анонимно.
			logctx.From(ctx).Warn("token_source_failed", slog.String("err", terr.Error()))
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, normalizeTransport(err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, normalizeTransport(err))
	}

	logctx.From(ctx).Debug("request_done",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
	)

	var parsed json.RawMessage
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 {
		if json.Valid(trimmed) {
			parsed = json.RawMessage(trimmed)
		} else if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil, fmt.Errorf("%s: %w", op, &TransportError{Err: errors.New("malformed response body")})
		}
		// Не-JSON тело ошибки не мешает отдать статус — Body остаётся пустым.
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w", op, newHTTPError(resp.StatusCode, parsed))
	}

	return parsed, nil
}

// DoJSON — Do с декодированием ответа в out (out == nil — тело игнорируется).
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	const op = "client.DoJSON"

	raw, err := c.Do(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", op, &TransportError{Err: err})
	}

	return nil
}

// normalizeTransport разводит исходы неудавшегося вызова:
// дедлайн -> ErrTimeout, отмена вызывающим -> context.Canceled,
// всё остальное -> TransportError.
func normalizeTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	// http.Client может вернуть таймаут и без раскрутки контекста.
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}

	return &TransportError{Err: err}
}
