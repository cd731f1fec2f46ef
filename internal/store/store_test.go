package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/db"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
)

func openTestDocs(t *testing.T) *docstore.SQLStore {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	docs := docstore.NewSQLStore(d, db.DriverSQLite, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() {
		docs.Close()
		_ = d.Close()
	})
	return docs
}
