package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/kruglovaa/go-travel-client/internal/accounts"
	"github.com/kruglovaa/go-travel-client/internal/client"
	"github.com/kruglovaa/go-travel-client/internal/models"
	"github.com/kruglovaa/go-travel-client/internal/secrets"
	"github.com/kruglovaa/go-travel-client/mocks"
)

func testUser() *models.User {
	return &models.User{
		ID:       "u-1",
		FullName: "Ivan Petrov",
		Email:    "ivan@example.com",
	}
}

func TestNew_StartsRestoring(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := New(mocks.NewMockAuthAPI(ctrl), secrets.NewMemory())

	require.Equal(t, StateRestoring, m.State())
	require.True(t, m.Loading())
	require.Nil(t, m.User())
}

func TestRestore_NoCredential(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockAuthAPI(ctrl)
	m := New(api, secrets.NewMemory())

	user, err := m.Restore(context.Background())
	require.NoError(t, err)
	require.Nil(t, user)
	require.Equal(t, StateUnauthenticated, m.State())
	require.False(t, m.Loading())
}

func TestRestore_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()
	require.NoError(t, store.Set(context.Background(), "saved-token"))

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().MeWithToken(gomock.Any(), "saved-token").Return(testUser(), nil)

	m := New(api, store)

	user, err := m.Restore(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ivan@example.com", user.Email)
	require.Equal(t, StateAuthenticated, m.State())
	require.False(t, m.Loading())
	require.Equal(t, "saved-token", m.Credential())
}

// Протухший credential: сервис отвечает 401, хранилище чистится,
// ошибка наружу не отдаётся.
func TestRestore_StaleCredential(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()
	require.NoError(t, store.Set(context.Background(), "stale-token"))

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().MeWithToken(gomock.Any(), "stale-token").
		Return(nil, &client.HTTPError{Status: http.StatusUnauthorized, Message: "Unauthorized"})

	m := New(api, store)

	user, err := m.Restore(context.Background())
	require.NoError(t, err)
	require.Nil(t, user)
	require.Equal(t, StateUnauthenticated, m.State())

	_, err = store.Get(context.Background())
	require.ErrorIs(t, err, secrets.ErrNotFound)
}

// Транспортная ошибка при восстановлении: credential остаётся в хранилище
// (следующий запуск попробует снова), ошибка отдаётся наружу.
func TestRestore_TransportKeepsCredential(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()
	require.NoError(t, store.Set(context.Background(), "saved-token"))

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().MeWithToken(gomock.Any(), "saved-token").
		Return(nil, &client.TransportError{Err: errors.New("dial refused")})

	m := New(api, store)

	user, err := m.Restore(context.Background())
	require.Error(t, err)
	require.True(t, client.IsTransport(err))
	require.Nil(t, user)
	require.Equal(t, StateUnauthenticated, m.State())
	require.False(t, m.Loading())

	tok, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "saved-token", tok)
}

func TestSignIn_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().Login(gomock.Any(), "ivan@example.com", "Secret123").
		Return(&models.LoginResult{Token: "fresh-token", User: *testUser()}, nil)

	m := New(api, store)

	user, err := m.SignIn(context.Background(), "ivan@example.com", "Secret123")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
	require.Equal(t, StateAuthenticated, m.State())

	// Credential доступен и через TokenSource, и в хранилище.
	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-token", tok)

	stored, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-token", stored)
}

func TestSignIn_LoginFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().Login(gomock.Any(), "ivan@example.com", "wrong").
		Return(nil, &client.HTTPError{Status: http.StatusUnauthorized, Message: "Invalid credentials"})

	m := New(api, secrets.NewMemory())

	user, err := m.SignIn(context.Background(), "ivan@example.com", "wrong")
	require.Error(t, err)
	require.True(t, client.IsUnauthorized(err))
	require.Nil(t, user)
	require.Equal(t, StateRestoring, m.State()) // состояние не трогалось
}

// Отказ записи credential в хранилище — ошибка входа:
// сессия без персиста хуже, чем явный отказ.
func TestSignIn_PersistFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().Login(gomock.Any(), "ivan@example.com", "Secret123").
		Return(&models.LoginResult{Token: "fresh-token", User: *testUser()}, nil)

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Set(gomock.Any(), "fresh-token").Return(errors.New("disk full"))

	m := New(api, store)

	_, err := m.SignIn(context.Background(), "ivan@example.com", "Secret123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "persist credential")
	require.NotEqual(t, StateAuthenticated, m.State())
}

func TestSignInWithToken(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().MeWithToken(gomock.Any(), "other-account-token").Return(testUser(), nil)

	m := New(api, store)

	user, err := m.SignInWithToken(context.Background(), "other-account-token")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
	require.Equal(t, StateAuthenticated, m.State())

	stored, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "other-account-token", stored)
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.LoginResult{Token: "tok", User: *testUser()}, nil)
	api.EXPECT().Logout(gomock.Any()).Return(nil)

	m := New(api, store)

	_, err := m.SignIn(context.Background(), "ivan@example.com", "Secret123")
	require.NoError(t, err)

	m.SignOut(context.Background())

	require.Equal(t, StateUnauthenticated, m.State())
	require.Nil(t, m.User())
	require.Empty(t, m.Credential())

	_, err = store.Get(context.Background())
	require.ErrorIs(t, err, secrets.ErrNotFound)
}

// Отказ серверного logout не мешает локальному завершению сессии.
func TestSignOut_ServerFailureStillClearsLocal(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.LoginResult{Token: "tok", User: *testUser()}, nil)
	api.EXPECT().Logout(gomock.Any()).Return(&client.TransportError{Err: errors.New("offline")})

	m := New(api, store)

	_, err := m.SignIn(context.Background(), "ivan@example.com", "Secret123")
	require.NoError(t, err)

	m.SignOut(context.Background())

	require.Equal(t, StateUnauthenticated, m.State())
	_, err = store.Get(context.Background())
	require.ErrorIs(t, err, secrets.ErrNotFound)
}

// Повторный SignOut без сессии — no-op: серверный logout не зовётся.
func TestSignOut_WithoutSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockAuthAPI(ctrl) // без EXPECT: любой вызов — провал теста
	m := New(api, secrets.NewMemory())

	m.SignOut(context.Background())
	require.Equal(t, StateUnauthenticated, m.State())
}

func TestToken_FallsBackToStore(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := secrets.NewMemory()
	require.NoError(t, store.Set(context.Background(), "persisted"))

	m := New(mocks.NewMockAuthAPI(ctrl), store)

	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "persisted", tok)
}

func TestToken_MissingCredentialIsNotError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := New(mocks.NewMockAuthAPI(ctrl), secrets.NewMemory())

	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestSignIn_RemembersAccount(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accs, err := accounts.NewStore(filepath.Join(t.TempDir(), "accounts.json"))
	require.NoError(t, err)

	api := mocks.NewMockAuthAPI(ctrl)
	api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.LoginResult{Token: "tok", User: *testUser()}, nil)

	m := New(api, secrets.NewMemory(), WithAccounts(accs))

	_, err = m.SignIn(context.Background(), "ivan@example.com", "Secret123")
	require.NoError(t, err)

	list, err := accs.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "u-1", list[0].ID)
	require.Equal(t, "ivan@example.com", list[0].Email)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "unauthenticated", StateUnauthenticated.String())
	require.Equal(t, "restoring", StateRestoring.String())
	require.Equal(t, "authenticated", StateAuthenticated.String())
	require.Equal(t, "unknown", State(42).String())
}
