package analytics

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

// RowSource fetches the paired biophysical and impacts collections of one
// project.
type RowSource interface {
	ProjectRows(ctx context.Context, p *domain.Project) (biophysical, impacts []docstore.Doc, err error)
}

// Accumulator runs the fetch and join pipeline across many projects.
type Accumulator struct {
	source RowSource
	logger *slog.Logger
}

func NewAccumulator(source RowSource, logger *slog.Logger) *Accumulator {
	return &Accumulator{source: source, logger: logger}
}

// ProjectRecords fetches and joins the records of a single project.
func (a *Accumulator) ProjectRecords(ctx context.Context, p *domain.Project) ([]domain.FieldRecord, error) {
	bio, imp, err := a.source.ProjectRows(ctx, p)
	if err != nil {
		return nil, err
	}
	return Join(p.ID, p.OwnerID, bio, imp), nil
}

// Accumulate fetches every project concurrently and concatenates the
// records. A project whose fetch fails is logged and contributes nothing;
// the others are still returned. Records keep the order of projects.
func (a *Accumulator) Accumulate(ctx context.Context, projects []*domain.Project) []domain.FieldRecord {
	results := make([][]domain.FieldRecord, len(projects))

	var g errgroup.Group
	for i, p := range projects {
		g.Go(func() error {
			records, err := a.ProjectRecords(ctx, p)
			if err != nil {
				a.logger.Warn("skipping project in accumulation",
					"project_id", p.ID, "project", p.ProjectName, "error", err)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.FieldRecord
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}
