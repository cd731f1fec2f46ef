package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

// biophysicalRow is the stored shape of the site half of a field record.
// The short keys used by the mobile app are written alongside the long ones
// so either reader sees current values.
type biophysicalRow struct {
	Elevation               string             `json:"elevation"`
	Ecoregion               string             `json:"ecoregion"`
	MeanAnnualPrecipitation string             `json:"meanAnnualPrecipitation"`
	Map                     string             `json:"map"`
	RainfallSeasonality     string             `json:"rainfallSeasonality"`
	Rainfall                string             `json:"rainfall"`
	Evapotranspiration      string             `json:"evapotranspiration"`
	Geology                 string             `json:"geology"`
	WaterManagementArea     string             `json:"waterManagementArea"`
	SoilErodibility         string             `json:"soilErodibility"`
	VegetationType          string             `json:"vegetationType"`
	ConservationStatus      string             `json:"conservationStatus"`
	FepaFeatures            string             `json:"fepaFeatures"`
	Fepa                    string             `json:"fepa"`
	Location                domain.GeoLocation `json:"location"`
	Images                  []domain.Image     `json:"images"`
	Timestamp               int64              `json:"timestamp"`
	ProjectID               string             `json:"projectId,omitempty"`
	OwnerID                 string             `json:"ownerId,omitempty"`
}

type impactsRow struct {
	RunoffHardSurfaces string `json:"runoffHardSurfaces"`
	RunoffSepticTanks  string `json:"runoffSepticTanks"`
	SedimentInput      string `json:"sedimentInput"`
	FloodPeaks         string `json:"floodPeaks"`
	Pollution          string `json:"pollution"`
	WeedsIAP           string `json:"weedsIAP"`
}

func recordToRows(r *domain.FieldRecord) (biophysicalRow, *impactsRow) {
	b := r.Biophysical
	images := r.Images
	if images == nil {
		images = []domain.Image{}
	}
	bio := biophysicalRow{
		Elevation:               b.Elevation,
		Ecoregion:               b.Ecoregion,
		MeanAnnualPrecipitation: b.MeanAnnualPrecipitation,
		Map:                     b.MeanAnnualPrecipitation,
		RainfallSeasonality:     b.RainfallSeasonality,
		Rainfall:                b.RainfallSeasonality,
		Evapotranspiration:      b.Evapotranspiration,
		Geology:                 b.Geology,
		WaterManagementArea:     b.WaterManagementArea,
		SoilErodibility:         b.SoilErodibility,
		VegetationType:          b.VegetationType,
		ConservationStatus:      b.ConservationStatus,
		FepaFeatures:            b.FepaFeatures,
		Fepa:                    b.FepaFeatures,
		Location:                r.Location,
		Images:                  images,
		Timestamp:               r.CreatedAt,
		ProjectID:               r.ProjectID,
		OwnerID:                 r.OwnerID,
	}
	if r.Impacts == nil {
		return bio, nil
	}
	i := r.Impacts
	return bio, &impactsRow{
		RunoffHardSurfaces: i.RunoffHardSurfaces,
		RunoffSepticTanks:  i.RunoffSepticTanks,
		SedimentInput:      i.SedimentInput,
		FloodPeaks:         i.FloodPeaks,
		Pollution:          i.Pollution,
		WeedsIAP:           i.WeedsIAP,
	}
}

// RecordStore keeps field records as two sibling collections under
// ProjectData/{company}/{project}, Biophysical and Impacts, whose rows share
// a key.
type RecordStore struct {
	docs docstore.Store
}

func NewRecordStore(docs docstore.Store) *RecordStore {
	return &RecordStore{docs: docs}
}

func projectDataRoot(p *domain.Project) string {
	return docstore.Join(projectDataPath, p.CompanyName, p.ProjectName)
}

func biophysicalPath(p *domain.Project) string {
	return projectDataRoot(p) + "/Biophysical"
}

func impactsPath(p *domain.Project) string {
	return projectDataRoot(p) + "/Impacts"
}

// ProjectRows fetches both collections of a project together.
func (s *RecordStore) ProjectRows(ctx context.Context, p *domain.Project) (biophysical, impacts []docstore.Doc, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		biophysical, err = s.docs.List(gctx, biophysicalPath(p))
		return err
	})
	g.Go(func() error {
		var err error
		impacts, err = s.docs.List(gctx, impactsPath(p))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch records for project %s: %w", p.ID, err)
	}
	return biophysical, impacts, nil
}

// Create stores a new record and returns its key. The impacts row, when
// present, is written under the same key as the biophysical row.
func (s *RecordStore) Create(ctx context.Context, p *domain.Project, r *domain.FieldRecord) (string, error) {
	bio, imp := recordToRows(r)
	key, err := s.docs.Push(ctx, biophysicalPath(p), bio)
	if err != nil {
		return "", fmt.Errorf("failed to create record: %w", err)
	}
	if imp == nil {
		return key, nil
	}
	if err := s.docs.Set(ctx, impactsPath(p)+"/"+key, imp); err != nil {
		return key, fmt.Errorf("failed to create record impacts: %w", err)
	}
	return key, nil
}

// Update merges the record's fields into both stored rows.
func (s *RecordStore) Update(ctx context.Context, p *domain.Project, r *domain.FieldRecord) error {
	bio, imp := recordToRows(r)
	fields, err := toFields(bio)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := s.docs.Update(ctx, biophysicalPath(p)+"/"+docstore.Join(r.ID), fields); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if imp == nil {
		return nil
	}
	fields, err = toFields(imp)
	if err != nil {
		return fmt.Errorf("failed to encode record impacts: %w", err)
	}
	if err := s.docs.Update(ctx, impactsPath(p)+"/"+docstore.Join(r.ID), fields); err != nil {
		return fmt.Errorf("failed to update record impacts: %w", err)
	}
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, p *domain.Project, id string) error {
	if err := s.docs.Remove(ctx, impactsPath(p)+"/"+docstore.Join(id)); err != nil {
		return fmt.Errorf("failed to delete record impacts: %w", err)
	}
	if err := s.docs.Remove(ctx, biophysicalPath(p)+"/"+docstore.Join(id)); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// DeleteProjectData removes every record of the project.
func (s *RecordStore) DeleteProjectData(ctx context.Context, p *domain.Project) error {
	if err := s.docs.Remove(ctx, projectDataRoot(p)); err != nil {
		return fmt.Errorf("failed to delete project data: %w", err)
	}
	return nil
}

// MoveProjectData rewrites every record of from under the data root of to,
// keeping keys, then removes the old root. Project data is keyed by company
// and project name, so it must follow a rename.
func (s *RecordStore) MoveProjectData(ctx context.Context, from, to *domain.Project) error {
	if projectDataRoot(from) == projectDataRoot(to) {
		return nil
	}
	bio, imp, err := s.ProjectRows(ctx, from)
	if err != nil {
		return err
	}
	for _, d := range bio {
		if err := s.docs.Set(ctx, biophysicalPath(to)+"/"+docstore.Join(d.Key), d.Data); err != nil {
			return fmt.Errorf("failed to move record %s: %w", d.Key, err)
		}
	}
	for _, d := range imp {
		if err := s.docs.Set(ctx, impactsPath(to)+"/"+docstore.Join(d.Key), d.Data); err != nil {
			return fmt.Errorf("failed to move record impacts %s: %w", d.Key, err)
		}
	}
	return s.DeleteProjectData(ctx, from)
}
