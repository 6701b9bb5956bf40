package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandlerUpload(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	h := Handler(store, 0)

	body, contentType := multipartBody(t, "file", "report.csv", "a,b\n1,2\n")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var f File
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if f.Name != "report.csv" || f.Size != 8 {
		t.Errorf("descriptor = %+v", f)
	}

	stored, err := store.Stat(context.Background(), f.Key)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if stored != f {
		t.Errorf("stored = %+v, want %+v", stored, f)
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	h := Handler(store, 0)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandlerMissingFile(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	h := Handler(store, 0)

	body, contentType := multipartBody(t, "wrong-field", "x.txt", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerTooLarge(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	h := Handler(store, DefaultMaxSize)

	body, contentType := multipartBody(t, "file", "big.bin", "way too big for four bytes")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}
