package service

import (
	"context"
	"errors"
	"time"

	"blockgen/internal/api/models"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrForbidden          = errors.New("you don't have access to this project")
	ErrInvalidGraph       = errors.New("invalid block graph")
	ErrExportDisabled     = errors.New("artifact export is not configured")
	ErrMailNotConfigured  = errors.New("internal SMTP not configured (SMTP_HOST / SMTP_USERNAME missing)")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// The stores are satisfied by the gorm repositories in package repo

type UserStore interface {
	FindByEmail(email string) (models.User, error)
	FindByID(id uint) (models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	ExistsByEmail(email string) (bool, error)
}

type ProjectStore interface {
	FindByID(id uint) (models.Project, error)
	FindAllByOwner(ownerID uint) ([]models.Project, error)
	Create(project *models.Project) error
	Update(project *models.Project) error
	Delete(id uint) error
}

type ArtifactStore interface {
	CreateBatch(artifacts []models.Artifact) error
	FindByProject(projectID uint) ([]models.Artifact, error)
	FindByID(projectID, id uint) (models.Artifact, error)
}

// Cache is satisfied by pkg.RedisCache
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// EventPublisher is satisfied by *nats.Conn
type EventPublisher interface {
	Publish(subject string, data []byte) error
}
