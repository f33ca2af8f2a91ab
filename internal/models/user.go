// models — модели данных travel-API, общие для клиентских фасадов и сессии.
package models

// User — профиль пользователя, как его отдаёт /auth/me и /auth/login.
// Владелец значения — менеджер сессии; остальной код читает, не меняет.
type User struct {
	ID         string   `json:"id"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Avatar     string   `json:"avatar,omitempty"`
	IsVerified bool     `json:"isVerified"`
	Favourites []string `json:"favourites"`

	// TokenVersion — монотонный счётчик на бэкенде; его инкремент
	// инвалидирует все ранее выданные credential этого пользователя.
	TokenVersion int `json:"tokenVersion"`
}
