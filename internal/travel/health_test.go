package travel

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kruglovaa/go-travel-client/internal/client"
)

func TestHealth_Check(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `{"status":true}`)
		})
	})

	ok, err := clients.Health.Check(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHealth_Check_Down(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusServiceUnavailable, `{"message":"maintenance"}`)
		})
	})

	ok, err := clients.Health.Check(context.Background())
	require.Error(t, err)
	require.False(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, client.StatusOf(err))
}
