package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileStore хранит содержимое приложенных файлов на диске.
// Имя файла - его sha256, поэтому одинаковые файлы хранятся один раз.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore создает хранилище в dataDir/files
func NewFileStore(dataDir string, logger *zap.Logger) (*FileStore, error) {
	dir := filepath.Join(dataDir, "files")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file store directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Path возвращает путь, по которому хранится файл с данным хешем
func (s *FileStore) Path(sha256Hash string) string {
	return filepath.Join(s.dir, sha256Hash+".pdf")
}

// Save записывает содержимое, если файла с таким хешем еще нет,
// и возвращает путь к нему
func (s *FileStore) Save(sha256Hash string, content []byte) (string, error) {
	if len(sha256Hash) != 64 || filepath.Base(sha256Hash) != sha256Hash {
		return "", fmt.Errorf("invalid sha256 hash %q", sha256Hash)
	}

	path := s.Path(sha256Hash)
	if _, err := os.Stat(path); err == nil {
		s.logger.Debug("File already stored", zap.String("path", path))
		return path, nil
	}

	// Пишем во временный файл, чтобы не оставить обрезанный файл
	tmp, err := os.CreateTemp(s.dir, sha256Hash+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	s.logger.Info("File stored", zap.String("path", path), zap.Int("size", len(content)))
	return path, nil
}
