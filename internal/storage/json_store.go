package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore persists a single value of type T as an indented JSON file.
// Writes go to a temp file that is renamed over the target, so readers never
// observe a partially written snapshot.
type JSONStore[T any] struct {
	mu       sync.Mutex
	filePath string
}

func NewJSONStore[T any](dataDir, filename string) (*JSONStore[T], error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &JSONStore[T]{filePath: filepath.Join(dataDir, filename)}, nil
}

// Load decodes the snapshot into out. ok is false when no snapshot has been
// written yet.
func (s *JSONStore[T]) Load(out *T) (ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONStore[T]) Save(v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.filePath)
}

func (s *JSONStore[T]) Path() string {
	return s.filePath
}
