package upload

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiskStore stores uploads on the local filesystem. Content lives under
// the key; the descriptor lives next to it in a .meta sidecar so stores
// survive restarts.
type DiskStore struct {
	dir     string
	maxSize int64

	mu    sync.RWMutex
	files map[string]diskMeta
}

type diskMeta struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
// A maxSize of 0 means no limit.
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:     dir,
		maxSize: maxSize,
		files:   make(map[string]diskMeta),
	}, nil
}

// Save stores content under a fresh key.
func (s *DiskStore) Save(_ context.Context, name, contentType string, r io.Reader) (File, error) {
	key := newKey()
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()

	var reader io.Reader = r
	if s.maxSize > 0 {
		// +1 to detect overflow
		reader = io.LimitReader(r, s.maxSize+1)
	}
	written, err := io.Copy(f, reader)
	if err != nil {
		os.Remove(path)
		return File{}, err
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(path)
		return File{}, ErrTooLarge
	}

	meta := diskMeta{
		Name:        name,
		ContentType: contentType,
		Size:        written,
		CreatedAt:   time.Now(),
	}
	s.mu.Lock()
	s.files[key] = meta
	s.mu.Unlock()
	if err := s.saveMeta(key, meta); err != nil {
		return File{}, err
	}

	return fileOf(key, meta), nil
}

// Stat returns the descriptor for a stored file.
func (s *DiskStore) Stat(_ context.Context, key string) (File, error) {
	meta, err := s.meta(key)
	if err != nil {
		return File{}, err
	}
	return fileOf(key, meta), nil
}

// Open returns the content of a stored file.
func (s *DiskStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if _, err := s.meta(key); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, ErrNotFound
	}
	return f, nil
}

// Remove deletes a stored file and its sidecar.
func (s *DiskStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	_, known := s.files[key]
	delete(s.files, key)
	s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, key))
	os.Remove(s.metaPath(key))
	if !known && err != nil {
		return ErrNotFound
	}
	return nil
}

// Cleanup removes files older than maxAge, including orphans left by a
// previous process.
func (s *DiskStore) Cleanup(_ context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	for key, meta := range s.files {
		if meta.CreatedAt.Before(cutoff) {
			delete(s.files, key)
			os.Remove(filepath.Join(s.dir, key))
			os.Remove(s.metaPath(key))
		}
	}
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}

// meta loads a descriptor from memory, falling back to the sidecar.
func (s *DiskStore) meta(key string) (diskMeta, error) {
	s.mu.RLock()
	meta, ok := s.files[key]
	s.mu.RUnlock()
	if ok {
		return meta, nil
	}

	data, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		return diskMeta{}, ErrNotFound
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return diskMeta{}, ErrNotFound
	}
	s.mu.Lock()
	s.files[key] = meta
	s.mu.Unlock()
	return meta, nil
}

func (s *DiskStore) metaPath(key string) string {
	return filepath.Join(s.dir, key+".meta")
}

func (s *DiskStore) saveMeta(key string, meta diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(key), data, 0o644)
}

func fileOf(key string, meta diskMeta) File {
	return File{
		Key:         key,
		Name:        meta.Name,
		ContentType: meta.ContentType,
		Size:        meta.Size,
	}
}
