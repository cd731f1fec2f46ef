// Package docstore is a hierarchical JSON document store addressed by
// slash-separated paths. Collections are listed in insertion order and
// subscribers are told about changes to any path at or below the one they
// watch.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

var ErrNotFound = errors.New("document not found")

// Doc is one child of a collection.
type Doc struct {
	Key  string
	Data json.RawMessage
}

type Store interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	List(ctx context.Context, path string) ([]Doc, error)
	Push(ctx context.Context, path string, value any) (string, error)
	Set(ctx context.Context, path string, value any) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Remove(ctx context.Context, path string) error
	Watch(ctx context.Context, path string) (<-chan []Doc, error)
}

// Join builds a path from raw segments, escaping each so that user supplied
// names such as company names may contain slashes.
func Join(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// split returns the parent path and the last segment of path.
func split(path string) (parent, key string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// KeyName unescapes a key produced by Join.
func KeyName(key string) string {
	name, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return name
}

func validPath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") || strings.Contains(path, "//") {
		return errors.New("invalid document path " + strings.TrimSpace(path))
	}
	return nil
}

// related reports whether a change at changed affects a watcher of watched.
func related(watched, changed string) bool {
	return watched == changed ||
		strings.HasPrefix(changed, watched+"/") ||
		strings.HasPrefix(watched, changed+"/")
}
