package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/db"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubPhotoStore is a minimal in-memory photostore.PhotoStore for tests.
type stubPhotoStore struct {
	saved   map[string][]byte
	saveErr error
	n       int
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{saved: make(map[string][]byte)}
}

func (s *stubPhotoStore) Save(_ context.Context, folder, _ string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	s.n++
	key := fmt.Sprintf("%s/photo%d.jpg", folder, s.n)
	s.saved[key] = data
	return key, nil
}

func (s *stubPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := s.saved[key]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), "image/jpeg", nil
}

func (s *stubPhotoStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

func (s *stubPhotoStore) URL(key string) string {
	return "/photos/" + key
}

type fixture struct {
	docs      *docstore.SQLStore
	photos    *stubPhotoStore
	records   *store.RecordStore
	workspace *WorkspaceService
	accounts  *AccountService
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	docs := docstore.NewSQLStore(d, db.DriverSQLite, discardLogger())
	t.Cleanup(func() {
		docs.Close()
		_ = d.Close()
	})

	f := &fixture{
		docs:    docs,
		photos:  newStubPhotoStore(),
		records: store.NewRecordStore(docs),
		clock:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.workspace = NewWorkspaceService(
		store.NewClientStore(docs),
		store.NewProjectStore(docs),
		f.records,
		f.photos,
		discardLogger(),
	)
	f.workspace.now = func() time.Time { return f.clock }
	f.accounts = NewAccountService(store.NewUserStore(docs), store.NewSessionStore(docs), time.Hour, discardLogger())
	f.accounts.now = func() time.Time { return f.clock }
	return f
}

var (
	alice = &domain.User{ID: "u-alice", Email: "alice@example.com"}
	bob   = &domain.User{ID: "u-bob", Email: "bob@example.com"}
)

func (f *fixture) client(t *testing.T, u *domain.User, name string) *domain.Client {
	t.Helper()
	saved, err := f.workspace.CreateClient(context.Background(), u, domain.Client{CompanyName: name, ContactEmail: "info@" + strings.ToLower(name) + ".test"}, nil)
	require.NoError(t, err)
	return saved.Value
}

func (f *fixture) project(t *testing.T, u *domain.User, c *domain.Client, name string) *domain.Project {
	t.Helper()
	saved, err := f.workspace.CreateProject(context.Background(), u, c.ID, domain.Project{ProjectName: name}, nil)
	require.NoError(t, err)
	return saved.Value
}
