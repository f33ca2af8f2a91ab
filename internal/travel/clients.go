// travel — типизированные фасады эндпойнтов travel-API.
//
// Каждый фасад без состояния: один экспортируемый метод — один
// фиксированный эндпойнт (URL + метод + форма JSON-тела), вся работа
// делегируется исполнителю запросов. Логики сверх валидации входа и
// дефолтов опциональных параметров нет.
package travel

import (
	"time"

	"github.com/kruglovaa/go-travel-client/internal/cache"
	"github.com/kruglovaa/go-travel-client/internal/client"
)

// Clients агрегирует фасады всех доменов API.
type Clients struct {
	Auth       *AuthClient
	Tours      *ToursClient
	Cities     *CitiesClient
	Categories *CategoriesClient
	Favourites *FavouritesClient
	Chat       *ChatClient
	Health     *HealthClient
}

// Options — опциональные зависимости фасадов.
type Options struct {
	// Cache — кэш списочных эндпойнтов; может быть nil.
	Cache cache.Cache
	// CacheTTL — время жизни записей; <= 0 отключает кэширование.
	CacheTTL time.Duration
}

// New собирает фасады поверх одного исполнителя запросов.
func New(api *client.Client, opts Options) *Clients {
	listCache := opts.Cache
	if opts.CacheTTL <= 0 {
		listCache = nil
	}

	return &Clients{
		Auth:       &AuthClient{api: api},
		Tours:      &ToursClient{api: api, cache: listCache, ttl: opts.CacheTTL},
		Cities:     &CitiesClient{api: api, cache: listCache, ttl: opts.CacheTTL},
		Categories: &CategoriesClient{api: api, cache: listCache, ttl: opts.CacheTTL},
		Favourites: &FavouritesClient{api: api},
		Chat:       &ChatClient{api: api},
		Health:     &HealthClient{api: api},
	}
}
