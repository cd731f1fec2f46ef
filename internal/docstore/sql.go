package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SQLStore keeps every document as one row of the documents table. It works
// with both the sqlite and pgx database/sql drivers.
type SQLStore struct {
	db       *sql.DB
	postgres bool
	bus      *bus
	logger   *slog.Logger
	newKey   func() (string, error)
}

func NewSQLStore(db *sql.DB, driver string, logger *slog.Logger) *SQLStore {
	return &SQLStore{
		db:       db,
		postgres: driver == "pgx",
		bus:      newBus(),
		logger:   logger,
		newKey:   newPushKey,
	}
}

// newPushKey returns a UUIDv7, which sorts by creation time.
func newPushKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Close stops change notifications. Open watches stop receiving updates but
// still close when their context ends.
func (s *SQLStore) Close() {
	s.bus.close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := validPath(path); err != nil {
		return nil, err
	}
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT data FROM documents WHERE path = ?`), path).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", path, err)
	}
	return json.RawMessage(data), nil
}

func (s *SQLStore) List(ctx context.Context, path string) ([]Doc, error) {
	if err := validPath(path); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT doc_key, data FROM documents WHERE parent = ? ORDER BY id ASC
	`), path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	defer rows.Close()

	docs := []Doc{}
	for rows.Next() {
		var (
			key  string
			data string
		)
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, Doc{Key: key, Data: json.RawMessage(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", path, err)
	}
	return docs, nil
}

func (s *SQLStore) Push(ctx context.Context, path string, value any) (string, error) {
	if err := validPath(path); err != nil {
		return "", err
	}
	key, err := s.newKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	if err := s.Set(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *SQLStore) Set(ctx context.Context, path string, value any) error {
	if err := validPath(path); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}
	if err := s.upsert(ctx, s.db, path, data); err != nil {
		return err
	}
	s.bus.notify(path)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) upsert(ctx context.Context, ex execer, path string, data []byte) error {
	parent, key := split(path)
	_, err := ex.ExecContext(ctx, s.rebind(`
		INSERT INTO documents (path, parent, doc_key, data) VALUES (?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`), path, parent, key, string(data))
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return nil
}

// Update merges fields into the top level of the document at path, creating
// it when absent.
func (s *SQLStore) Update(ctx context.Context, path string, fields map[string]any) error {
	if err := validPath(path); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	doc := map[string]json.RawMessage{}
	var current string
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT data FROM documents WHERE path = ?`), path).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to read document %s: %w", path, err)
	default:
		// A document that is not an object is replaced wholesale.
		if err := json.Unmarshal([]byte(current), &doc); err != nil {
			doc = map[string]json.RawMessage{}
		}
	}

	for name, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", name, err)
		}
		doc[name] = raw
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}
	if err := s.upsert(ctx, tx, path, data); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}
	s.bus.notify(path)
	return nil
}

// Remove deletes the document at path together with every descendant.
// Removing a path that does not exist is not an error.
func (s *SQLStore) Remove(ctx context.Context, path string) error {
	if err := validPath(path); err != nil {
		return err
	}
	prefix := path + "/"
	_, err := s.db.ExecContext(ctx, s.rebind(`
		DELETE FROM documents WHERE path = ? OR substr(path, 1, ?) = ?
	`), path, len(prefix), prefix)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	s.bus.notify(path)
	return nil
}

// Watch emits the children of path immediately and again after every change
// at or below path. Snapshots are coalesced: a reader that falls behind only
// sees the newest one. The channel closes when ctx is done.
func (s *SQLStore) Watch(ctx context.Context, path string) (<-chan []Doc, error) {
	w := s.bus.watch(path)
	first, err := s.List(ctx, path)
	if err != nil {
		s.bus.unwatch(w)
		return nil, err
	}

	out := make(chan []Doc, 1)
	out <- first

	go func() {
		defer close(out)
		defer s.bus.unwatch(w)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.signal:
			}

			docs, err := s.List(ctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("failed to refresh watched collection", "path", path, "error", err)
				continue
			}

			select {
			case <-out:
			default:
			}
			select {
			case out <- docs:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
