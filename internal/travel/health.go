package travel

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kruglovaa/go-travel-client/internal/client"
)

// HealthClient — проверка доступности бэкенда (GET /test).
type HealthClient struct {
	api *client.Client
}

// Check возвращает статус бэкенда.
// Любая ошибка вызова означает «недоступен» и отдаётся вызывающей
// стороне: решение о ретрае принимает UI (см. notify).
func (h *HealthClient) Check(ctx context.Context) (bool, error) {
	const op = "travel.health.Check"

	var out struct {
		Status bool `json:"status"`
	}
	if err := h.api.DoJSON(ctx, http.MethodGet, "/test", nil, &out); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return out.Status, nil
}
