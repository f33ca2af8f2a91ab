// secrets — хранилище единственного credential сессии.
//
// Платформенное защищённое хранилище для клиента — непрозрачный
// key-value стор с фиксированным ключом; пакет описывает его контракт
// и даёт два драйвера: файловый (продакшен) и in-memory (тесты).
// Инвариант: в хранилище не больше одного credential; его наличие
// не гарантирует валидность — проверка выполняется ре-аутентификацией
// на старте (см. session.Restore).
package secrets

import (
	"context"
	"errors"
)

// ErrNotFound — credential не сохранён.
var ErrNotFound = errors.New("credential not found")

// Store — контракт хранилища credential.
// Пишет в него только менеджер сессии; исполнитель запросов — читает.
type Store interface {
	// Get возвращает сохранённый credential или ErrNotFound.
	Get(ctx context.Context) (string, error)
	// Set заменяет сохранённый credential.
	Set(ctx context.Context, credential string) error
	// Delete удаляет credential; отсутствие — ErrNotFound.
	Delete(ctx context.Context) error
}
