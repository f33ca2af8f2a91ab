package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const credentialFile = "credential"

// FileStore хранит credential в отдельном файле с правами 0600.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFile создаёт файловое хранилище в dir.
// Пустой dir — каталог конфигурации пользователя + go-travel-client.
func NewFile(dir string) (*FileStore, error) {
	const op = "secrets.NewFile"

	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%s: resolve config dir: %w", op, err)
		}
		dir = filepath.Join(base, "go-travel-client")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &FileStore{path: filepath.Join(dir, credentialFile)}, nil
}

func (s *FileStore) Get(_ context.Context) (string, error) {
	const op = "secrets.file.Get"

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	cred := strings.TrimSpace(string(raw))
	if cred == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return cred, nil
}

func (s *FileStore) Set(_ context.Context, credential string) error {
	const op = "secrets.file.Set"

	if credential == "" {
		return fmt.Errorf("%s: empty credential", op)
	}

	// Запись через временный файл, чтобы не оставить усечённый credential.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(credential), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *FileStore) Delete(_ context.Context) error {
	const op = "secrets.file.Delete"

	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
