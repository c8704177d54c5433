package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrKeyNotFound clave ausente en el Storage.
var ErrKeyNotFound = errors.New("clave no encontrada")

// Storage almacenamiento clave-valor persistente para la sesión local.
// Es el análogo del localStorage del navegador: strings planos bajo claves fijas.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// ── Implementación en disco ──────────────────────────────────────────────────

// FileStorage guarda cada clave como un archivo dentro de dir.
type FileStorage struct {
	dir string
}

// NewFileStorage crea el directorio si no existe.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}

// Get lee el valor de la clave. ErrKeyNotFound si el archivo no existe.
func (s *FileStorage) Get(key string) (string, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return string(b), nil
}

// Set escribe el valor con permisos restringidos (contiene credenciales).
func (s *FileStorage) Set(key, value string) error {
	return os.WriteFile(s.path(key), []byte(value), 0o600)
}

// Delete es idempotente: borrar una clave ausente no es error.
func (s *FileStorage) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ── Implementación en memoria (tests) ────────────────────────────────────────

// MemoryStorage implementación en memoria, segura para concurrencia.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage construye un storage vacío.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
