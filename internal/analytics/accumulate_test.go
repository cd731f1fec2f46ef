package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

type stubRowSource struct {
	rows map[string][]docstore.Doc
	fail map[string]bool
}

func (s *stubRowSource) ProjectRows(_ context.Context, p *domain.Project) ([]docstore.Doc, []docstore.Doc, error) {
	if s.fail[p.ID] {
		return nil, nil, errors.New("store unavailable")
	}
	return s.rows[p.ID], nil, nil
}

func TestAccumulateSkipsFailedProjects(t *testing.T) {
	src := &stubRowSource{
		rows: map[string][]docstore.Doc{
			"p1": {doc("a", `{}`), doc("b", `{}`)},
			"p2": {doc("c", `{}`)},
			"p3": {doc("d", `{}`)},
		},
		fail: map[string]bool{"p2": true},
	}
	acc := NewAccumulator(src, slog.New(slog.NewTextHandler(io.Discard, nil)))

	projects := []*domain.Project{{ID: "p1", OwnerID: "u"}, {ID: "p2"}, {ID: "p3", OwnerID: "u"}}
	records := acc.Accumulate(context.Background(), projects)

	require.Len(t, records, 3)
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b", "d"}, ids)
	assert.Equal(t, "p3", records[2].ProjectID)
	assert.Equal(t, "u", records[2].OwnerID)
}

func TestAccumulateNoProjects(t *testing.T) {
	acc := NewAccumulator(&stubRowSource{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Empty(t, acc.Accumulate(context.Background(), nil))
}

func TestProjectRecordsPropagatesError(t *testing.T) {
	acc := NewAccumulator(&stubRowSource{fail: map[string]bool{"p": true}}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := acc.ProjectRecords(context.Background(), &domain.Project{ID: "p"})
	assert.Error(t, err)
}
