package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantDetected bool
	}{
		{name: "JPEG", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, wantMIME: "image/jpeg", wantDetected: true},
		{name: "PNG", data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, wantMIME: "image/png", wantDetected: true},
		{name: "GIF", data: []byte("GIF89a"), wantMIME: "image/gif", wantDetected: true},
		{name: "WebP", data: append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...), wantMIME: "image/webp", wantDetected: true},
		{name: "RIFF but not WebP", data: append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...)},
		{name: "PDF disguised as image", data: []byte("%PDF-1.4 malicious content")},
		{name: "empty", data: []byte{}},
		{name: "too short for WebP check", data: []byte("RIFF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMIME, gotDetected := allowedImageMIME(tt.data)
			assert.Equal(t, tt.wantDetected, gotDetected)
			assert.Equal(t, tt.wantMIME, gotMIME)
		})
	}
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}

type part struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, parts ...part) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.name)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, parseForm(r))
	return r
}

func TestFormUploadsSkipsEmptyFiles(t *testing.T) {
	s := &Server{logger: discardLogger()}
	r := multipartRequest(t, nil,
		part{"images", "a.jpg", jpegHeader},
		part{"images", "empty.jpg", nil},
		part{"images", "b.gif", []byte("GIF89a")},
	)

	uploads, err := s.formUploads(r, "images")
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "a.jpg", uploads[0].Name)
	assert.Equal(t, "image/jpeg", uploads[0].MimeType)
	assert.Equal(t, "image/gif", uploads[1].MimeType)
}

func TestFormUploadsRejectsNonImages(t *testing.T) {
	s := &Server{logger: discardLogger()}
	r := multipartRequest(t, nil, part{"images", "notes.pdf", []byte("%PDF-1.4")})

	_, err := s.formUploads(r, "images")
	assert.ErrorIs(t, err, errBadImage)
}

func TestFormUploadsLimitsCount(t *testing.T) {
	s := &Server{logger: discardLogger()}
	var parts []part
	for range maxImagesPerRow + 1 {
		parts = append(parts, part{"images", "a.jpg", jpegHeader})
	}
	r := multipartRequest(t, nil, parts...)

	_, err := s.formUploads(r, "images")
	assert.Error(t, err)
}

func TestFormUploadWithoutMultipart(t *testing.T) {
	s := &Server{logger: discardLogger()}
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("companyName=Eco"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, parseForm(r))

	up, err := s.formUpload(r, "image")
	require.NoError(t, err)
	assert.Nil(t, up)
	assert.Equal(t, "Eco", r.FormValue("companyName"))
}
