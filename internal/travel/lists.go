package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kruglovaa/go-travel-client/internal/cache"
	"github.com/kruglovaa/go-travel-client/internal/client"
	"github.com/kruglovaa/go-travel-client/internal/models"
	logctx "github.com/kruglovaa/go-travel-client/internal/pkg/log"
)

// Ключи кэша списочных эндпойнтов.
const (
	toursListKey      = "tours:list"
	citiesListKey     = "cities:list"
	categoriesListKey = "categories:list"
)

// ToursClient — фасад эндпойнтов /tours/*.
type ToursClient struct {
	api   *client.Client
	cache cache.Cache // может быть nil
	ttl   time.Duration
}

// List возвращает каталог туров.
func (t *ToursClient) List(ctx context.Context) ([]models.Tour, error) {
	const op = "travel.tours.List"

	var tours []models.Tour
	if err := listCached(ctx, t.api, t.cache, t.ttl, "/tours/list", toursListKey, &tours); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tours, nil
}

// ByID возвращает тур по идентификатору.
func (t *ToursClient) ByID(ctx context.Context, id string) (*models.Tour, error) {
	const op = "travel.tours.ByID"

	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	var tour models.Tour
	if err := t.api.DoJSON(ctx, http.MethodGet, "/tours/"+url.PathEscape(id), nil, &tour); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tour, nil
}

// CitiesClient — фасад эндпойнтов /cities/*.
type CitiesClient struct {
	api   *client.Client
	cache cache.Cache
	ttl   time.Duration
}

// List возвращает каталог городов.
func (c *CitiesClient) List(ctx context.Context) ([]models.City, error) {
	const op = "travel.cities.List"

	var cities []models.City
	if err := listCached(ctx, c.api, c.cache, c.ttl, "/cities/list", citiesListKey, &cities); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cities, nil
}

// ByID возвращает город по идентификатору.
func (c *CitiesClient) ByID(ctx context.Context, id string) (*models.City, error) {
	const op = "travel.cities.ByID"

	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	var city models.City
	if err := c.api.DoJSON(ctx, http.MethodGet, "/cities/"+url.PathEscape(id), nil, &city); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &city, nil
}

// CategoriesClient — фасад эндпойнта /categories/list.
type CategoriesClient struct {
	api   *client.Client
	cache cache.Cache
	ttl   time.Duration
}

// List возвращает категории туров.
func (c *CategoriesClient) List(ctx context.Context) ([]models.Category, error) {
	const op = "travel.categories.List"

	var categories []models.Category
	if err := listCached(ctx, c.api, c.cache, c.ttl, "/categories/list", categoriesListKey, &categories); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}

// listCached — общий путь списочных GET-запросов: кэш -> сеть -> кэш.
// Ошибки кэша не валят вызов: логируются, и запрос уходит в сеть.
func listCached(ctx context.Context, api *client.Client, c cache.Cache, ttl time.Duration, path, key string, out any) error {
	if c != nil {
		raw, ok, err := c.Get(ctx, key)
		if err != nil {
			logctx.From(ctx).Warn("cache_get_failed",
				slog.String("key", key),
				slog.String("err", err.Error()),
			)
		} else if ok {
			if err := json.Unmarshal(raw, out); err == nil {
				return nil
			}
			// Битую запись игнорируем и перечитываем из сети.
		}
	}

	raw, err := api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &client.TransportError{Err: err}
	}

	if c != nil && ttl > 0 {
		if err := c.Set(ctx, key, raw, ttl); err != nil {
			logctx.From(ctx).Warn("cache_set_failed",
				slog.String("key", key),
				slog.String("err", err.Error()),
			)
		}
	}

	return nil
}
