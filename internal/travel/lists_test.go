package travel

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kruglovaa/go-travel-client/internal/cache"
	"github.com/kruglovaa/go-travel-client/internal/client"
)

const toursJSON = `[
	{"id":"t-1","title":"Anapa Beach Week","price":490.5,"rating":4.7},
	{"id":"t-2","title":"Kazan City Break","price":320,"rating":4.9}
]`

func TestTours_List(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/tours/list", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, toursJSON)
		})
	})

	tours, err := clients.Tours.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tours, 2)
	require.Equal(t, "Anapa Beach Week", tours[0].Title)
	require.InDelta(t, 490.5, tours[0].Price, 0.001)
}

// Повторный List при включённом кэше не ходит в сеть.
func TestTours_List_Cached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	mem := cache.NewMemory(0)
	t.Cleanup(func() { _ = mem.Close() })

	clients := newClients(t, Options{Cache: mem, CacheTTL: time.Minute}, func(r chi.Router) {
		r.Get("/tours/list", func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeJSON(t, w, http.StatusOK, toursJSON)
		})
	})

	ctx := context.Background()

	first, err := clients.Tours.List(ctx)
	require.NoError(t, err)

	second, err := clients.Tours.List(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int64(1), hits.Load())
}

// Битая запись кэша не валит вызов: список перечитывается из сети.
func TestTours_List_CorruptCacheEntry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	mem := cache.NewMemory(0)
	t.Cleanup(func() { _ = mem.Close() })

	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "tours:list", []byte(`{"broken":`), time.Minute))

	clients := newClients(t, Options{Cache: mem, CacheTTL: time.Minute}, func(r chi.Router) {
		r.Get("/tours/list", func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeJSON(t, w, http.StatusOK, toursJSON)
		})
	})

	tours, err := clients.Tours.List(ctx)
	require.NoError(t, err)
	require.Len(t, tours, 2)
	require.Equal(t, int64(1), hits.Load())
}

func TestTours_ByID(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/tours/{id}", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "t-1", chi.URLParam(r, "id"))
			writeJSON(t, w, http.StatusOK, `{"id":"t-1","title":"Anapa Beach Week","price":490.5}`)
		})
	})

	tour, err := clients.Tours.ByID(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, "Anapa Beach Week", tour.Title)

	_, err = clients.Tours.ByID(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyField)
}

func TestTours_ByID_NotFound(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/tours/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusNotFound, `{"message":"Tour not found"}`)
		})
	})

	_, err := clients.Tours.ByID(context.Background(), "missing")
	require.Error(t, err)

	httpErr, ok := client.AsHTTP(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, httpErr.Status)
	require.Equal(t, "Tour not found", httpErr.Message)
}

// Легаси-схема туров (name/image/_id, цена строкой) нормализуется на декоде.
func TestTours_List_LegacySchema(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/tours/list", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `[
				{"_id":"t-legacy","name":"Old Riga Tour","image":"https://cdn/old.jpg","price":"$120"}
			]`)
		})
	})

	tours, err := clients.Tours.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tours, 1)
	require.Equal(t, "t-legacy", tours[0].ID)
	require.Equal(t, "Old Riga Tour", tours[0].Title)
	require.Equal(t, "https://cdn/old.jpg", tours[0].ImageURL)
	require.InDelta(t, 120, tours[0].Price, 0.001)
}

func TestCities_List(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/cities/list", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `[{"id":"c-1","name":"Sochi"},{"id":"c-2","name":"Kazan"}]`)
		})
	})

	cities, err := clients.Cities.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 2)
	require.Equal(t, "Sochi", cities[0].Name)
}

func TestCategories_List(t *testing.T) {
	t.Parallel()

	clients := newClients(t, Options{}, func(r chi.Router) {
		r.Get("/categories/list", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `[{"id":"cat-1","name":"Beach"}]`)
		})
	})

	categories, err := clients.Categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Equal(t, "Beach", categories[0].Name)
}
