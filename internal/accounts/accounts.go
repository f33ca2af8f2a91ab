// accounts — локальный список запомненных аккаунтов для сценария
// «сменить аккаунт». Секретов не содержит (credential живёт в secrets),
// поэтому хранится обычным JSON-файлом.
package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound — аккаунт с таким id не запомнен.
var ErrNotFound = errors.New("account not found")

// Account — запомненный аккаунт.
type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Avatar      string    `json:"avatar,omitempty"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Store — файловое хранилище списка аккаунтов.
// Все операции сериализуются мьютексом: список маленький,
// простая перезапись файла целиком дешевле частичных обновлений.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore создаёт хранилище по пути path.
// Пустой path — accounts.json в каталоге конфигурации пользователя.
func NewStore(path string) (*Store, error) {
	const op = "accounts.NewStore"

	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%s: resolve config dir: %w", op, err)
		}
		path = filepath.Join(base, "go-travel-client", "accounts.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{path: path}, nil
}

// Upsert добавляет аккаунт или обновляет существующий (по ID).
// Пустой ID получает новый uuid.
func (s *Store) Upsert(acc Account) error {
	const op = "accounts.Upsert"

	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	if acc.LastLoginAt.IsZero() {
		acc.LastLoginAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	replaced := false
	for i := range list {
		if list[i].ID == acc.ID {
			list[i] = acc
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, acc)
	}

	if err := s.save(list); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List возвращает аккаунты, отсортированные по последнему входу (свежие первыми).
func (s *Store) List() ([]Account, error) {
	const op = "accounts.List"

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].LastLoginAt.After(list[j].LastLoginAt)
	})

	return list, nil
}

// Remove удаляет аккаунт по id.
func (s *Store) Remove(id string) error {
	const op = "accounts.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	kept := list[:0]
	for _, acc := range list {
		if acc.ID != id {
			kept = append(kept, acc)
		}
	}

	if len(kept) == len(list) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := s.save(kept); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) load() ([]Account, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var list []Account
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) save(list []Account) error {
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
