package handlers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"

	"github.com/hamropustak/pasal/service"
)

const coverPrefix = "covers/"

// CoverStorage is satisfied by *service.S3Service.
type CoverStorage interface {
	Upload(ctx context.Context, prefix, filename string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]service.StoredObject, error)
	PublicURL(key string) string
	KeyFromURL(u string) (string, bool)
}

var allowedCoverTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type CoversHandler struct {
	Covers   CoverStorage
	MaxBytes int64
}

type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload accepts a multipart "file" field. The content type is sniffed from the bytes, not trusted from the client.
func (h *CoversHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Covers == nil {
		http.Error(w, `{"error":"upload not configured (missing S3)"}`, http.StatusServiceUnavailable)
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+(1<<16))
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"missing file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()
	if h.MaxBytes > 0 && header.Size > h.MaxBytes {
		http.Error(w, `{"error":"file too large"}`, http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, `{"error":"failed to read file"}`, http.StatusInternalServerError)
		return
	}
	contentType := http.DetectContentType(data)
	if !allowedCoverTypes[contentType] {
		http.Error(w, `{"error":"only jpeg, png and webp images are allowed"}`, http.StatusBadRequest)
		return
	}

	key, err := h.Covers.Upload(r.Context(), coverPrefix, header.Filename, bytes.NewReader(data), contentType)
	if err != nil {
		log.Printf("covers: upload %s: %v", header.Filename, err)
		http.Error(w, `{"error":"failed to upload cover"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{Key: key, URL: h.Covers.PublicURL(key)})
}

func (h *CoversHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Covers == nil {
		http.Error(w, `{"error":"upload not configured (missing S3)"}`, http.StatusServiceUnavailable)
		return
	}
	objects, err := h.Covers.List(r.Context(), coverPrefix)
	if err != nil {
		log.Printf("covers: list: %v", err)
		http.Error(w, `{"error":"failed to list covers"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, objects)
}
