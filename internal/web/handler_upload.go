package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/service"
)

const (
	maxUploadSize   = 50 * 1024 * 1024 // 50 MB per request
	maxImagesPerRow = 10
)

var errBadImage = errors.New("unsupported image format")

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// formUploads reads the image files posted under field. Files with an empty
// body are skipped, anything that is not an accepted image is rejected.
func (s *Server) formUploads(r *http.Request, field string) ([]service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > maxImagesPerRow {
		return nil, fmt.Errorf("at most %d images per upload", maxImagesPerRow)
	}
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := s.readFormFile(fh)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		mimeType, ok := allowedImageMIME(data)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errBadImage, fh.Filename)
		}
		uploads = append(uploads, service.Upload{Name: fh.Filename, MimeType: mimeType, Body: bytes.NewReader(data)})
	}
	return uploads, nil
}

func (s *Server) readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer closeWithLog(f, "upload file", s.logger)
	return io.ReadAll(f)
}

// formUpload returns the single image posted under field, or nil.
func (s *Server) formUpload(r *http.Request, field string) (*service.Upload, error) {
	uploads, err := s.formUploads(r, field)
	if err != nil || len(uploads) == 0 {
		return nil, err
	}
	return &uploads[0], nil
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	key := r.PathValue("key")
	reader, mimeType, err := s.PhotoStore.Get(r.Context(), key)
	if errors.Is(err, photostore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("get photo failed", "key", key, "error", err)
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "key", key, "error", err)
	}
}
