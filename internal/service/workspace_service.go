package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/analytics"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore"
)

// clientRepository is the subset of store.ClientStore that WorkspaceService requires.
type clientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context) (<-chan []*domain.Client, error)
}

// projectRepository is the subset of store.ProjectStore that WorkspaceService requires.
type projectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context) (<-chan []*domain.Project, error)
}

// recordRepository is the subset of store.RecordStore that WorkspaceService requires.
type recordRepository interface {
	ProjectRows(ctx context.Context, p *domain.Project) (biophysical, impacts []docstore.Doc, err error)
	Create(ctx context.Context, p *domain.Project, r *domain.FieldRecord) (string, error)
	Update(ctx context.Context, p *domain.Project, r *domain.FieldRecord) error
	Delete(ctx context.Context, p *domain.Project, id string) error
	DeleteProjectData(ctx context.Context, p *domain.Project) error
	MoveProjectData(ctx context.Context, from, to *domain.Project) error
}

type WorkspaceService struct {
	clients     clientRepository
	projects    projectRepository
	records     recordRepository
	photoStg    photostore.PhotoStore
	accumulator *analytics.Accumulator
	now         func() time.Time
	logger      *slog.Logger
}

func NewWorkspaceService(
	clients clientRepository,
	projects projectRepository,
	records recordRepository,
	photoStg photostore.PhotoStore,
	logger *slog.Logger,
) *WorkspaceService {
	return &WorkspaceService{
		clients:     clients,
		projects:    projects,
		records:     records,
		photoStg:    photoStg,
		accumulator: analytics.NewAccumulator(records, logger),
		now:         time.Now,
		logger:      logger,
	}
}

func (s *WorkspaceService) timestamp() int64 {
	return s.now().UnixMilli()
}

// uploadImage stores img under folder and returns its public URL. A failed
// upload is logged and reported as a warning rather than an error.
func (s *WorkspaceService) uploadImage(ctx context.Context, folder string, img *Upload) (string, string) {
	if img == nil || img.Body == nil {
		return "", ""
	}
	key, err := s.photoStg.Save(ctx, folder, img.MimeType, img.Body)
	if err != nil {
		s.logger.Warn("image upload failed", "folder", folder, "name", img.Name, "error", err)
		return "", fmt.Sprintf("image %q could not be uploaded", img.Name)
	}
	return s.photoStg.URL(key), ""
}

// Clients

// ListClients returns the user's clients, narrowed by a case-insensitive
// match on company name or contact person when search is set.
func (s *WorkspaceService) ListClients(ctx context.Context, u *domain.User, search string) ([]*domain.Client, error) {
	all, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]*domain.Client, 0, len(all))
	for _, c := range all {
		if !ownsClient(u, c) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.CompanyName), term) &&
			!strings.Contains(strings.ToLower(c.ContactPerson), term) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *WorkspaceService) GetClient(ctx context.Context, u *domain.User, id string) (*domain.Client, error) {
	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if !ownsClient(u, c) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *WorkspaceService) CreateClient(ctx context.Context, u *domain.User, c domain.Client, logo *Upload) (*Saved[domain.Client], error) {
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	if c.CompanyName == "" {
		return nil, validationError("company name is required")
	}
	c.OwnerID = u.ID
	c.CreatedAt = s.timestamp()

	url, warning := s.uploadImage(ctx, "xamu-clients/"+u.ID, logo)
	if url != "" {
		c.ImageURL = url
	}
	created, err := s.clients.Create(ctx, &c)
	if err != nil {
		return nil, err
	}
	s.logger.Info("client created", "client_id", created.ID, "company", created.CompanyName)
	return &Saved[domain.Client]{Value: created, Warning: warning}, nil
}

// UpdateClient replaces the editable fields and keeps the owner, creation
// time and, without a new logo, the existing image.
func (s *WorkspaceService) UpdateClient(ctx context.Context, u *domain.User, c domain.Client, logo *Upload) (*Saved[domain.Client], error) {
	existing, err := s.GetClient(ctx, u, c.ID)
	if err != nil {
		return nil, err
	}
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	if c.CompanyName == "" {
		return nil, validationError("company name is required")
	}
	c.OwnerID = existing.OwnerID
	if c.OwnerID == "" {
		c.OwnerID = u.ID
	}
	c.CreatedAt = existing.CreatedAt
	c.ImageURL = existing.ImageURL

	url, warning := s.uploadImage(ctx, "xamu-clients/"+u.ID, logo)
	if url != "" {
		c.ImageURL = url
	}
	if err := s.clients.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &Saved[domain.Client]{Value: &c, Warning: warning}, nil
}

func (s *WorkspaceService) DeleteClient(ctx context.Context, u *domain.User, id string) error {
	if _, err := s.GetClient(ctx, u, id); err != nil {
		return err
	}
	return s.clients.Delete(ctx, id)
}

// Projects

// visibleProjects lists every project the user may see.
func (s *WorkspaceService) visibleProjects(ctx context.Context, u *domain.User) ([]*domain.Project, error) {
	all, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(p *domain.Project) bool { return !ownsProject(u, p) }), nil
}

// ListProjects returns the user's projects that belong to the client.
func (s *WorkspaceService) ListProjects(ctx context.Context, u *domain.User, clientID string) ([]*domain.Project, error) {
	c, err := s.GetClient(ctx, u, clientID)
	if err != nil {
		return nil, err
	}
	projects, err := s.visibleProjects(ctx, u)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(projects, func(p *domain.Project) bool { return !projectBelongsTo(p, c, u) }), nil
}

func (s *WorkspaceService) GetProject(ctx context.Context, u *domain.User, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if !ownsProject(u, p) {
		return nil, ErrForbidden
	}
	return p, nil
}

// projectClient finds the client a project belongs to. It returns nil when
// the client is gone.
func (s *WorkspaceService) projectClient(ctx context.Context, u *domain.User, p *domain.Project) (*domain.Client, error) {
	if p.ClientID != "" {
		c, err := s.clients.GetByID(ctx, p.ClientID)
		if err != nil || c != nil {
			return c, err
		}
	}
	clients, err := s.ListClients(ctx, u, "")
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		if projectBelongsTo(&domain.Project{CompanyName: p.CompanyName, AppUserUsername: p.AppUserUsername}, c, u) {
			return c, nil
		}
	}
	return nil, nil
}

// sharingDataRoot lists the projects other than exceptID whose field data
// lives under the same company and project name. Record data is keyed by
// those names, so such projects see and write each other's records.
func (s *WorkspaceService) sharingDataRoot(ctx context.Context, company, name, exceptID string) ([]*domain.Project, error) {
	all, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(p *domain.Project) bool {
		return p.ID == exceptID || p.CompanyName != company || p.ProjectName != name
	}), nil
}

func (s *WorkspaceService) requireFreeDataRoot(ctx context.Context, company, name, exceptID string) error {
	others, err := s.sharingDataRoot(ctx, company, name, exceptID)
	if err != nil {
		return err
	}
	if len(others) > 0 {
		return validationError("a project named %q already exists for %q", name, company)
	}
	return nil
}

func (s *WorkspaceService) CreateProject(ctx context.Context, u *domain.User, clientID string, p domain.Project, img *Upload) (*Saved[domain.Project], error) {
	c, err := s.GetClient(ctx, u, clientID)
	if err != nil {
		return nil, err
	}
	p.ProjectName = strings.TrimSpace(p.ProjectName)
	if p.ProjectName == "" {
		return nil, validationError("project name is required")
	}
	p.ClientID = c.ID
	p.CompanyName = c.CompanyName
	if p.CompanyEmail == "" {
		p.CompanyEmail = c.ContactEmail
	}
	p.AppUserUsername = u.Email
	p.OwnerID = u.ID
	p.CreatedAt = s.timestamp()
	if err := s.requireFreeDataRoot(ctx, p.CompanyName, p.ProjectName, ""); err != nil {
		return nil, err
	}

	url, warning := s.uploadImage(ctx, "xamu-projects/"+u.ID, img)
	if url != "" {
		p.ImageURL = url
	}
	created, err := s.projects.Create(ctx, &p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("project created", "project_id", created.ID, "project", created.ProjectName)
	return &Saved[domain.Project]{Value: created, Warning: warning}, nil
}

// UpdateProject renames or re-images a project. Its field data follows a
// rename.
func (s *WorkspaceService) UpdateProject(ctx context.Context, u *domain.User, p domain.Project, img *Upload) (*Saved[domain.Project], error) {
	existing, err := s.GetProject(ctx, u, p.ID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(p.ProjectName)
	if name == "" {
		return nil, validationError("project name is required")
	}
	if name != existing.ProjectName {
		if err := s.requireFreeDataRoot(ctx, existing.CompanyName, name, existing.ID); err != nil {
			return nil, err
		}
		shared, err := s.sharingDataRoot(ctx, existing.CompanyName, existing.ProjectName, existing.ID)
		if err != nil {
			return nil, err
		}
		if len(shared) > 0 {
			return nil, validationError("project data is shared with %d other project(s) and cannot be renamed", len(shared))
		}
	}
	updated := *existing
	updated.ProjectName = name
	if p.CompanyEmail != "" {
		updated.CompanyEmail = p.CompanyEmail
	}

	url, warning := s.uploadImage(ctx, "xamu-projects/"+u.ID, img)
	if url != "" {
		updated.ImageURL = url
	}
	if err := s.records.MoveProjectData(ctx, existing, &updated); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &Saved[domain.Project]{Value: &updated, Warning: warning}, nil
}

// DeleteProject removes the project and all of its field data. Data still
// reachable from another project is left in place.
func (s *WorkspaceService) DeleteProject(ctx context.Context, u *domain.User, id string) error {
	p, err := s.GetProject(ctx, u, id)
	if err != nil {
		return err
	}
	shared, err := s.sharingDataRoot(ctx, p.CompanyName, p.ProjectName, p.ID)
	if err != nil {
		return err
	}
	if len(shared) == 0 {
		if err := s.records.DeleteProjectData(ctx, p); err != nil {
			return err
		}
	} else {
		s.logger.Warn("project data kept for other projects", "project_id", id, "shared_with", len(shared))
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", "project_id", id, "project", p.ProjectName)
	return nil
}

// Field records

// ProjectView is everything the project page shows.
type ProjectView struct {
	Project *domain.Project
	Client  *domain.Client
	Records []domain.FieldRecord
	Stats   analytics.Stats
	Charts  analytics.Charts
}

// ClientName prefers the linked client and falls back to the name saved on
// the project.
func (v *ProjectView) ClientName() string {
	if v.Client != nil {
		return v.Client.CompanyName
	}
	return v.Project.CompanyName
}

// ProjectView joins the project's records, filters them by search and
// derives the statistics from the filtered set.
func (s *WorkspaceService) ProjectView(ctx context.Context, u *domain.User, projectID, search string) (*ProjectView, error) {
	p, err := s.GetProject(ctx, u, projectID)
	if err != nil {
		return nil, err
	}
	c, err := s.projectClient(ctx, u, p)
	if err != nil {
		return nil, err
	}
	records, err := s.accumulator.ProjectRecords(ctx, p)
	if err != nil {
		return nil, err
	}
	records = analytics.Filter(records, search)
	stats := analytics.Aggregate(records)
	return &ProjectView{
		Project: p,
		Client:  c,
		Records: records,
		Stats:   stats,
		Charts:  analytics.BuildCharts(stats),
	}, nil
}

func (s *WorkspaceService) GetRecord(ctx context.Context, u *domain.User, projectID, recordID string) (*domain.FieldRecord, *domain.Project, error) {
	p, err := s.GetProject(ctx, u, projectID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.accumulator.ProjectRecords(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	for i := range records {
		if records[i].ID == recordID {
			return &records[i], p, nil
		}
	}
	return nil, nil, ErrNotFound
}

// uploadRecordImages stores each image, keeping the ones that succeed.
func (s *WorkspaceService) uploadRecordImages(ctx context.Context, u *domain.User, uploads []Upload) ([]domain.Image, string) {
	var (
		images []domain.Image
		failed []string
	)
	for i := range uploads {
		url, warning := s.uploadImage(ctx, "xamu-field-data/"+u.ID, &uploads[i])
		if warning != "" {
			failed = append(failed, uploads[i].Name)
			continue
		}
		if url != "" {
			images = append(images, domain.Image{URL: url, Name: uploads[i].Name})
		}
	}
	if len(failed) == 0 {
		return images, ""
	}
	return images, fmt.Sprintf("%d image(s) could not be uploaded: %s", len(failed), strings.Join(failed, ", "))
}

// CreateRecord saves a new field record. A record always carries an impacts
// row, blank when nothing was assessed.
func (s *WorkspaceService) CreateRecord(ctx context.Context, u *domain.User, projectID string, r domain.FieldRecord, uploads []Upload) (*Saved[domain.FieldRecord], error) {
	p, err := s.GetProject(ctx, u, projectID)
	if err != nil {
		return nil, err
	}
	images, warning := s.uploadRecordImages(ctx, u, uploads)
	r.Images = append(r.Images, images...)
	r.ProjectID = p.ID
	r.OwnerID = u.ID
	r.CreatedAt = s.timestamp()
	if r.Impacts == nil {
		r.Impacts = &domain.PhaseImpacts{}
	}

	id, err := s.records.Create(ctx, p, &r)
	if err != nil {
		return nil, err
	}
	r.ID = id
	s.logger.Info("field record created", "project", p.ProjectName, "record_id", id, "images", len(r.Images))
	return &Saved[domain.FieldRecord]{Value: &r, Warning: warning}, nil
}

// UpdateRecord replaces the record's attributes, keeps its timestamp and
// appends any newly uploaded images to the existing ones.
func (s *WorkspaceService) UpdateRecord(ctx context.Context, u *domain.User, projectID string, r domain.FieldRecord, uploads []Upload) (*Saved[domain.FieldRecord], error) {
	existing, p, err := s.GetRecord(ctx, u, projectID, r.ID)
	if err != nil {
		return nil, err
	}
	images, warning := s.uploadRecordImages(ctx, u, uploads)
	r.Images = append(slices.Clone(existing.Images), images...)
	r.ProjectID = p.ID
	r.OwnerID = existing.OwnerID
	r.CreatedAt = existing.CreatedAt
	if r.Impacts == nil {
		r.Impacts = &domain.PhaseImpacts{}
	}

	if err := s.records.Update(ctx, p, &r); err != nil {
		return nil, err
	}
	return &Saved[domain.FieldRecord]{Value: &r, Warning: warning}, nil
}

func (s *WorkspaceService) DeleteRecord(ctx context.Context, u *domain.User, projectID, recordID string) error {
	_, p, err := s.GetRecord(ctx, u, projectID, recordID)
	if err != nil {
		return err
	}
	return s.records.Delete(ctx, p, recordID)
}

// Dashboard

// Overview is the dashboard-wide summary across all of a user's projects.
type Overview struct {
	Clients  int              `json:"clients"`
	Projects int              `json:"projects"`
	Stats    analytics.Stats  `json:"stats"`
	Charts   analytics.Charts `json:"charts"`
}

// GlobalStats accumulates every visible project's records. Projects whose
// data cannot be read are left out.
func (s *WorkspaceService) GlobalStats(ctx context.Context, u *domain.User) (*Overview, error) {
	clients, err := s.ListClients(ctx, u, "")
	if err != nil {
		return nil, err
	}
	projects, err := s.visibleProjects(ctx, u)
	if err != nil {
		return nil, err
	}
	stats := analytics.Aggregate(s.accumulator.Accumulate(ctx, projects))
	return &Overview{
		Clients:  len(clients),
		Projects: len(projects),
		Stats:    stats,
		Charts:   analytics.BuildCharts(stats),
	}, nil
}

// MapPoint is a record with coordinates, as plotted on the map.
type MapPoint struct {
	ProjectID          string  `json:"projectId"`
	ProjectName        string  `json:"projectName"`
	RecordID           string  `json:"recordId"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	Description        string  `json:"description"`
	VegetationType     string  `json:"vegetationType"`
	ConservationStatus string  `json:"conservationStatus"`
	Color              string  `json:"color"`
}

func (s *WorkspaceService) MapPoints(ctx context.Context, u *domain.User) ([]MapPoint, error) {
	projects, err := s.visibleProjects(ctx, u)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.ProjectName
	}

	points := []MapPoint{}
	for _, r := range s.accumulator.Accumulate(ctx, projects) {
		if !r.Location.HasCoordinates() {
			continue
		}
		points = append(points, MapPoint{
			ProjectID:          r.ProjectID,
			ProjectName:        names[r.ProjectID],
			RecordID:           r.ID,
			Lat:                r.Location.Lat,
			Lng:                r.Location.Lng,
			Description:        r.Location.Description,
			VegetationType:     r.Biophysical.VegetationType,
			ConservationStatus: r.Biophysical.ConservationStatus,
			Color:              analytics.ConservationColor(r.Biophysical.ConservationStatus),
		})
	}
	return points, nil
}

// Subscribe emits a fresh Overview now and whenever the client or project
// lists change. Only the newest overview is kept for a slow reader. The
// channel closes when ctx is done.
func (s *WorkspaceService) Subscribe(ctx context.Context, u *domain.User) (<-chan *Overview, error) {
	ctx, cancel := context.WithCancel(ctx)
	clients, err := s.clients.Watch(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	projects, err := s.projects.Watch(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan *Overview, 1)
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-clients:
				if !ok {
					return
				}
			case _, ok := <-projects:
				if !ok {
					return
				}
			}

			overview, err := s.GlobalStats(ctx, u)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("failed to refresh overview", "user_id", u.ID, "error", err)
				continue
			}
			select {
			case <-out:
			default:
			}
			out <- overview
		}
	}()
	return out, nil
}
