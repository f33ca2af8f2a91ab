// session — жизненный цикл credential и пользовательской сессии.
//
// Состояния: restoring -> authenticated | unauthenticated.
// Менеджер — единственный писатель секретного хранилища; остальной код
// читает credential через интерфейс client.TokenSource, который менеджер
// реализует. Мутации (Restore/SignIn/SignInWithToken/SignOut)
// сериализуются мьютексом: конкурентные вызовы не гоняются за хранилище.
//
// Ошибки локально поглощаются ровно в одном месте: отказ
// ре-аутентификации на старте (протухший credential) трактуется как
// «сессии нет», а не как ошибка вызывающей стороны.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kruglovaa/go-travel-client/internal/accounts"
	"github.com/kruglovaa/go-travel-client/internal/client"
	"github.com/kruglovaa/go-travel-client/internal/models"
	logctx "github.com/kruglovaa/go-travel-client/internal/pkg/log"
	"github.com/kruglovaa/go-travel-client/internal/pkg/redact"
	"github.com/kruglovaa/go-travel-client/internal/secrets"
)

// State — состояние сессии.
type State int

const (
	StateUnauthenticated State = iota
	StateRestoring
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthAPI — нужные менеджеру операции auth-фасада.
// Реализуется travel.AuthClient; в тестах — моком.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	MeWithToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context) error
}

// Manager управляет сессией.
type Manager struct {
	api      AuthAPI
	store    secrets.Store
	accounts *accounts.Store // может быть nil — аккаунты не запоминаются

	// mu сериализует операции-мутации целиком (вместе с сетевыми вызовами).
	mu sync.Mutex

	// stmu защищает снапшот полей состояния; отдельный от mu, чтобы
	// Token/State не блокировались на время сетевых вызовов операций.
	stmu    sync.RWMutex
	state   State
	loading bool
	token   string
	user    *models.User
}

var _ client.TokenSource = (*Manager)(nil)

// Option — настройка менеджера.
type Option func(*Manager)

// WithAccounts включает запоминание аккаунтов для смены аккаунта.
func WithAccounts(a *accounts.Store) Option {
	return func(m *Manager) { m.accounts = a }
}

// New создаёт менеджер в состоянии restoring:
// до первого Restore сессия считается восстанавливающейся.
func New(api AuthAPI, store secrets.Store, opts ...Option) *Manager {
	m := &Manager{
		api:     api,
		store:   store,
		state:   StateRestoring,
		loading: true,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Token реализует client.TokenSource: credential из памяти,
// иначе из хранилища. Отсутствие credential — не ошибка.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.stmu.RLock()
	tok := m.token
	m.stmu.RUnlock()

	if tok != "" {
		return tok, nil
	}

	tok, err := m.store.Get(ctx)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return "", nil
		}

		return "", err
	}

	return tok, nil
}

// State возвращает текущее состояние сессии.
func (m *Manager) State() State {
	m.stmu.RLock()
	defer m.stmu.RUnlock()

	return m.state
}

// Loading — true только во время начального восстановления сессии.
func (m *Manager) Loading() bool {
	m.stmu.RLock()
	defer m.stmu.RUnlock()

	return m.loading
}

// User возвращает профиль текущей сессии (nil, если не аутентифицирован).
func (m *Manager) User() *models.User {
	m.stmu.RLock()
	defer m.stmu.RUnlock()

	return m.user
}

// Credential возвращает текущий credential ("" — нет сессии).
func (m *Manager) Credential() string {
	m.stmu.RLock()
	defer m.stmu.RUnlock()

	return m.token
}

// Restore восстанавливает сессию по сохранённому credential.
//
// Исходы:
//   - credential не сохранён — unauthenticated, без ошибки;
//   - сервис отверг credential (401/403) — хранилище чистится,
//     unauthenticated, без ошибки (ошибка поглощается здесь);
//   - транспортная ошибка/таймаут — unauthenticated, credential
//     сохраняется (следующий запуск попробует снова), ошибка наружу;
//   - успех — authenticated.
//
// В любом исходе Loading() после возврата — false.
func (m *Manager) Restore(ctx context.Context) (*models.User, error) {
	const op = "session.Restore"

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.finishLoading()

	tok, err := m.store.Get(ctx)
	if err != nil {
		m.setUnauthenticated()
		if errors.Is(err, secrets.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := m.api.MeWithToken(ctx, tok)
	if err != nil {
		m.setUnauthenticated()

		if httpErr, ok := client.AsHTTP(err); ok &&
			(httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden) {
			// Протухшая сессия: чистим хранилище и не считаем это ошибкой.
			if derr := m.store.Delete(ctx); derr != nil && !errors.Is(derr, secrets.ErrNotFound) {
				logctx.From(ctx).Warn("stale_credential_delete_failed", slog.String("err", derr.Error()))
			}
			logctx.From(ctx).Info("session_restore_rejected", slog.Int("status", httpErr.Status))

			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.setAuthenticated(tok, user)
	logctx.From(ctx).Info("session_restored", slog.String("email", redact.Email(user.Email)))

	return user, nil
}

// SignIn выполняет вход по email+пароль и сохраняет credential.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	const op = "session.SignIn"

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.finishLoading()

	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.store.Set(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("%s: persist credential: %w", op, err)
	}

	user := res.User
	m.setAuthenticated(res.Token, &user)
	m.remember(ctx)

	logctx.From(ctx).Info("signed_in", slog.String("email", redact.Email(user.Email)))

	return &user, nil
}

// SignInWithToken входит по внешнему credential (смена аккаунта):
// резолвит профиль тем же путём, что и восстановление, затем сохраняет.
func (m *Manager) SignInWithToken(ctx context.Context, token string) (*models.User, error) {
	const op = "session.SignInWithToken"

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.finishLoading()

	user, err := m.api.MeWithToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.store.Set(ctx, token); err != nil {
		return nil, fmt.Errorf("%s: persist credential: %w", op, err)
	}

	m.setAuthenticated(token, user)
	m.remember(ctx)

	logctx.From(ctx).Info("signed_in_with_token", slog.String("email", redact.Email(user.Email)))

	return user, nil
}

// SignOut завершает сессию. Локально не падает никогда:
// серверный logout и удаление из хранилища — best-effort.
// Повторный SignOut без сессии — no-op.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.finishLoading()

	m.stmu.RLock()
	hadSession := m.token != ""
	m.stmu.RUnlock()

	if hadSession {
		if err := m.api.Logout(ctx); err != nil {
			logctx.From(ctx).Warn("server_logout_failed", slog.String("err", err.Error()))
		}
	}

	m.setUnauthenticated()

	if err := m.store.Delete(ctx); err != nil && !errors.Is(err, secrets.ErrNotFound) {
		logctx.From(ctx).Warn("credential_delete_failed", slog.String("err", err.Error()))
	}

	logctx.From(ctx).Info("signed_out")
}

func (m *Manager) setAuthenticated(token string, user *models.User) {
	m.stmu.Lock()
	m.token = token
	m.user = user
	m.state = StateAuthenticated
	m.stmu.Unlock()
}

func (m *Manager) setUnauthenticated() {
	m.stmu.Lock()
	m.token = ""
	m.user = nil
	m.state = StateUnauthenticated
	m.stmu.Unlock()
}

func (m *Manager) finishLoading() {
	m.stmu.Lock()
	m.loading = false
	m.stmu.Unlock()
}

// remember — best-effort запись текущего аккаунта в список запомненных.
func (m *Manager) remember(ctx context.Context) {
	if m.accounts == nil {
		return
	}

	m.stmu.RLock()
	user := m.user
	m.stmu.RUnlock()
	if user == nil {
		return
	}

	err := m.accounts.Upsert(accounts.Account{
		ID:          user.ID,
		Name:        user.FullName,
		Email:       user.Email,
		Avatar:      user.Avatar,
		LastLoginAt: time.Now().UTC(),
	})
	if err != nil {
		logctx.From(ctx).Warn("remember_account_failed", slog.String("err", err.Error()))
	}
}
