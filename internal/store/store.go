// Package store maps the application's entities onto document paths.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
)

const (
	clientsPath       = "ClientInfo"
	projectsPath      = "ProjectsInfo"
	projectDataPath   = "ProjectData"
	usersPath         = "AppUsers"
	loginsPath        = "Logins"
	sessionsPath      = "Sessions"
	conversationsPath = "Conversations"
)

// getDoc decodes the document at path into v. It reports false when the
// document does not exist.
func getDoc(ctx context.Context, docs docstore.Store, path string, v any) (bool, error) {
	raw, err := docs.Get(ctx, path)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// toFields flattens a row struct into the field map Update expects.
func toFields(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeAll converts a collection snapshot, skipping rows that do not decode.
func decodeAll[T any](docs []docstore.Doc, convert func(key string, raw json.RawMessage) (*T, error)) []*T {
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		v, err := convert(d.Key, d.Data)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// watchAll relays a collection watch as decoded entities.
func watchAll[T any](ctx context.Context, docs docstore.Store, path string, convert func(key string, raw json.RawMessage) (*T, error)) (<-chan []*T, error) {
	in, err := docs.Watch(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make(chan []*T)
	go func() {
		defer close(out)
		for snapshot := range in {
			select {
			case out <- decodeAll(snapshot, convert):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
