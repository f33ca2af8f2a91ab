package travel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kruglovaa/go-travel-client/internal/client"
	"github.com/kruglovaa/go-travel-client/internal/models"
)

// FavouritesClient — фасад эндпойнтов /favourites/*.
// Оба эндпойнта требуют credential; подстановку выполняет исполнитель.
type FavouritesClient struct {
	api *client.Client
}

// List возвращает избранные туры пользователя.
func (f *FavouritesClient) List(ctx context.Context) ([]models.Tour, error) {
	const op = "travel.favourites.List"

	var tours []models.Tour
	if err := f.api.DoJSON(ctx, http.MethodGet, "/favourites/list", nil, &tours); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tours, nil
}

// Delete убирает тур из избранного.
func (f *FavouritesClient) Delete(ctx context.Context, tourID string) error {
	const op = "travel.favourites.Delete"

	if tourID == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	if _, err := f.api.Do(ctx, http.MethodDelete, "/favourites/tour/"+url.PathEscape(tourID), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
