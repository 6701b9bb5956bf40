// Package upload stores files picked through a file widget.
//
// The browser posts the file to the upload endpoint before the widget
// learns about it: the handler saves the content into a Store, answers
// with the File descriptor as JSON, and the client echoes that
// descriptor in the widget's change event. Widgets therefore only ever
// hold descriptors; content stays in the store until claimed or cleaned
// up.
package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned when no stored file has the given key.
var ErrNotFound = errors.New("upload: file not found")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// File describes a stored upload. The JSON shape is what the upload
// handler returns and what file widgets accept in change events.
type File struct {
	// Key is the storage key assigned at save time.
	Key string `json:"key"`

	// Name is the original filename from the client. It is metadata
	// only and never used as a path.
	Name string `json:"name"`

	// ContentType is the MIME type of the file.
	ContentType string `json:"content_type"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// Store is the interface for upload storage backends.
type Store interface {
	// Save stores content under a fresh key and returns the descriptor.
	Save(ctx context.Context, name, contentType string, r io.Reader) (File, error)

	// Stat returns the descriptor for a stored file.
	Stat(ctx context.Context, key string) (File, error)

	// Open returns the content of a stored file.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes a stored file.
	Remove(ctx context.Context, key string) error

	// Cleanup removes files older than maxAge. Call it periodically.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// DefaultMaxSize caps uploads when the handler is given no limit.
const DefaultMaxSize = 10 << 20 // 10MB

// Handler returns an http.Handler that accepts multipart uploads on the
// "file" field, saves them, and answers with the File descriptor as
// JSON. A maxSize of 0 falls back to DefaultMaxSize.
//
// Mount it on your router: r.Post("/upload", upload.Handler(store, 0))
func Handler(store Store, maxSize int64) http.Handler {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Limit request body size before parsing.
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		part, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "No file provided", http.StatusBadRequest)
			return
		}
		defer part.Close()

		f, err := store.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), part)
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "Upload failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f)
	})
}

// newKey generates a cryptographically random storage key.
func newKey() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
