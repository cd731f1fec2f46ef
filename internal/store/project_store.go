package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

type projectRow struct {
	ClientID        string `json:"clientId,omitempty"`
	OwnerID         string `json:"ownerId,omitempty"`
	ProjectName     string `json:"projectName"`
	CompanyName     string `json:"companyName"`
	CompanyEmail    string `json:"companyEmail"`
	AppUserUsername string `json:"appUserUsername"`
	ImageURL        string `json:"imageUrl,omitempty"`
	CreatedAt       int64  `json:"createdAt"`
}

func projectToRow(p *domain.Project) projectRow {
	return projectRow{
		ClientID:        p.ClientID,
		OwnerID:         p.OwnerID,
		ProjectName:     p.ProjectName,
		CompanyName:     p.CompanyName,
		CompanyEmail:    p.CompanyEmail,
		AppUserUsername: p.AppUserUsername,
		ImageURL:        p.ImageURL,
		CreatedAt:       p.CreatedAt,
	}
}

func decodeProject(id string, raw json.RawMessage) (*domain.Project, error) {
	var row projectRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &domain.Project{
		ID:              id,
		ClientID:        row.ClientID,
		OwnerID:         row.OwnerID,
		ProjectName:     row.ProjectName,
		CompanyName:     row.CompanyName,
		CompanyEmail:    row.CompanyEmail,
		AppUserUsername: row.AppUserUsername,
		ImageURL:        row.ImageURL,
		CreatedAt:       row.CreatedAt,
	}, nil
}

type ProjectStore struct {
	docs docstore.Store
}

func NewProjectStore(docs docstore.Store) *ProjectStore {
	return &ProjectStore{docs: docs}
}

func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	id, err := s.docs.Push(ctx, projectsPath, projectToRow(p))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	created := *p
	created.ID = id
	return &created, nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var row json.RawMessage
	found, err := getDoc(ctx, s.docs, docstore.Join(projectsPath, id), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if !found {
		return nil, nil
	}
	return decodeProject(id, row)
}

func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	docs, err := s.docs.List(ctx, projectsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return decodeAll(docs, decodeProject), nil
}

func (s *ProjectStore) Update(ctx context.Context, p *domain.Project) error {
	if err := s.docs.Set(ctx, docstore.Join(projectsPath, p.ID), projectToRow(p)); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	if err := s.docs.Remove(ctx, docstore.Join(projectsPath, id)); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectStore) Watch(ctx context.Context) (<-chan []*domain.Project, error) {
	return watchAll(ctx, s.docs, projectsPath, decodeProject)
}
