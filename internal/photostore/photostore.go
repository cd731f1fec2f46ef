// Package photostore abstracts where uploaded images live.
package photostore

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
)

var ErrNotFound = errors.New("photo not found")

// PhotoStore saves images under a folder such as "xamu-field-data/{uid}" and
// hands back a storage key. URL turns a key into something a browser can
// load.
type PhotoStore interface {
	Save(ctx context.Context, folder, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
	URL(storageKey string) string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// CleanFolder reduces each segment of folder to a conservative character set
// and drops empty or dot segments.
func CleanFolder(folder string) string {
	var parts []string
	for _, seg := range strings.Split(folder, "/") {
		seg = strings.Trim(unsafeChars.ReplaceAllString(seg, "_"), "_")
		if seg == "" {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/")
}

// ExtForMimeType maps the accepted image types to a file extension.
func ExtForMimeType(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
