// Package service holds the application's use cases on top of the stores.
package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Upload is an image attached to a save.
type Upload struct {
	Name     string
	MimeType string
	Body     io.Reader
}

// Saved is the outcome of a write that also uploads images. Warning is set
// when the entity was stored but an image could not be.
type Saved[T any] struct {
	Value   *T
	Warning string
}

func sameEmail(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ownsClient reports whether u may see c. Rows written before owners were
// recorded are visible to everyone.
func ownsClient(u *domain.User, c *domain.Client) bool {
	return c.OwnerID == "" || c.OwnerID == u.ID
}

func ownsProject(u *domain.User, p *domain.Project) bool {
	return p.OwnerID == u.ID || sameEmail(p.AppUserUsername, u.Email)
}

// projectBelongsTo links a project to a client by id, or for projects saved
// without one, by company name and creating user.
func projectBelongsTo(p *domain.Project, c *domain.Client, u *domain.User) bool {
	if p.ClientID != "" {
		return p.ClientID == c.ID
	}
	return p.CompanyName == c.CompanyName && sameEmail(p.AppUserUsername, u.Email)
}
