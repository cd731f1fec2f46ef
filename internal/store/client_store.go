package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

type clientRow struct {
	OwnerID       string `json:"ownerId,omitempty"`
	CompanyName   string `json:"companyName"`
	CompanyRegNum string `json:"companyRegNum"`
	CompanyType   string `json:"companyType"`
	ContactEmail  string `json:"contactEmail"`
	ContactPerson string `json:"contactPerson"`
	ContactPhone  string `json:"contactPhone"`
	Address       string `json:"address"`
	ImageURL      string `json:"imageUrl,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
}

func clientToRow(c *domain.Client) clientRow {
	return clientRow{
		OwnerID:       c.OwnerID,
		CompanyName:   c.CompanyName,
		CompanyRegNum: c.CompanyRegNum,
		CompanyType:   c.CompanyType,
		ContactEmail:  c.ContactEmail,
		ContactPerson: c.ContactPerson,
		ContactPhone:  c.ContactPhone,
		Address:       c.Address,
		ImageURL:      c.ImageURL,
		CreatedAt:     c.CreatedAt,
	}
}

func decodeClient(id string, raw json.RawMessage) (*domain.Client, error) {
	var row clientRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("failed to decode client %s: %w", id, err)
	}
	return &domain.Client{
		ID:            id,
		OwnerID:       row.OwnerID,
		CompanyName:   row.CompanyName,
		CompanyRegNum: row.CompanyRegNum,
		CompanyType:   row.CompanyType,
		ContactEmail:  row.ContactEmail,
		ContactPerson: row.ContactPerson,
		ContactPhone:  row.ContactPhone,
		Address:       row.Address,
		ImageURL:      row.ImageURL,
		CreatedAt:     row.CreatedAt,
	}, nil
}

type ClientStore struct {
	docs docstore.Store
}

func NewClientStore(docs docstore.Store) *ClientStore {
	return &ClientStore{docs: docs}
}

func (s *ClientStore) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	id, err := s.docs.Push(ctx, clientsPath, clientToRow(c))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	created := *c
	created.ID = id
	return &created, nil
}

func (s *ClientStore) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var row json.RawMessage
	found, err := getDoc(ctx, s.docs, docstore.Join(clientsPath, id), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if !found {
		return nil, nil
	}
	return decodeClient(id, row)
}

func (s *ClientStore) List(ctx context.Context) ([]*domain.Client, error) {
	docs, err := s.docs.List(ctx, clientsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return decodeAll(docs, decodeClient), nil
}

// Update overwrites the stored client.
func (s *ClientStore) Update(ctx context.Context, c *domain.Client) error {
	if err := s.docs.Set(ctx, docstore.Join(clientsPath, c.ID), clientToRow(c)); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	if err := s.docs.Remove(ctx, docstore.Join(clientsPath, id)); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// Watch emits the full client list now and after every change.
func (s *ClientStore) Watch(ctx context.Context) (<-chan []*domain.Client, error) {
	return watchAll(ctx, s.docs, clientsPath, decodeClient)
}
