package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blockgen"
	"blockgen/internal/api/handler/mapper"
	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/models"
	"blockgen/internal/api/repo"
	"blockgen/internal/gen/block"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// EventProjectGenerated is the message type of a generation event
const EventProjectGenerated = "project.generated"

// GeneratedEvent is published on tenant.<tenantID>.project.<projectID>.generated
type GeneratedEvent struct {
	Type      string              `json:"type"`
	ProjectID uint                `json:"projectId"`
	Artifacts []GeneratedArtifact `json:"artifacts"`
	Timestamp time.Time           `json:"timestamp"`
}

type GeneratedArtifact struct {
	ID       uint   `json:"id"`
	PassID   string `json:"passId"`
	Backend  string `json:"backend"`
	Blocking int    `json:"blocking"`
}

// GeneratedSubject is the NATS subject of a project's generation events
func GeneratedSubject(tenantID string, projectID uint) string {
	return fmt.Sprintf("tenant.%s.project.%d.generated", tenantID, projectID)
}

type ProjectService struct {
	projects   ProjectStore
	artifacts  ArtifactStore
	generation *GenerationService
	events     EventPublisher
	tenantID   string
	mapper     mapper.ProjectMapper
	logger     zerolog.Logger
}

func NewProjectService(generation *GenerationService) *ProjectService {
	var events EventPublisher
	if blockgen.Nats != nil {
		events = blockgen.Nats
	}
	return &ProjectService{
		projects:   repo.NewProjectRepository(),
		artifacts:  repo.NewArtifactRepository(),
		generation: generation,
		events:     events,
		tenantID:   blockgen.GetConfig().NatsConfig.TenantID,
		mapper:     mapper.NewProjectMapper(),
		logger:     blockgen.Logger,
	}
}

func (slf *ProjectService) FindAllForOwner(ownerID uint) ([]models.Project, error) {
	projects, err := slf.projects.FindAllByOwner(ownerID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("ownerId", ownerID).Msg("Error listing projects")
		return nil, err
	}
	return projects, nil
}

// FindByID loads a project the user owns
func (slf *ProjectService) FindByID(ownerID, id uint) (models.Project, error) {
	project, err := slf.projects.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrProjectNotFound
		}
		slf.logger.Error().Err(err).Uint("projectId", id).Msg("Error finding project")
		return models.Project{}, err
	}
	if project.OwnerID != ownerID {
		return models.Project{}, ErrForbidden
	}
	return project, nil
}

func (slf *ProjectService) Create(ownerID uint, req request.CreateProject) (models.Project, error) {
	if err := checkGraph(req.Graph); err != nil {
		return models.Project{}, err
	}

	project := slf.mapper.CreateProject(req, ownerID)
	if err := slf.projects.Create(&project); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating project")
		return models.Project{}, err
	}

	slf.logger.Info().Uint("projectId", project.ID).Uint("ownerId", ownerID).Msg("Project created")
	return project, nil
}

func (slf *ProjectService) Update(ownerID, id uint, req request.UpdateProject) (models.Project, error) {
	project, err := slf.FindByID(ownerID, id)
	if err != nil {
		return models.Project{}, err
	}
	if req.Graph != nil {
		if err := checkGraph(req.Graph); err != nil {
			return models.Project{}, err
		}
	}

	slf.mapper.UpdateProject(req, &project)
	if err := slf.projects.Update(&project); err != nil {
		slf.logger.Error().Err(err).Uint("projectId", id).Msg("Error updating project")
		return models.Project{}, err
	}
	return project, nil
}

func (slf *ProjectService) Delete(ownerID, id uint) error {
	if _, err := slf.FindByID(ownerID, id); err != nil {
		return err
	}
	if err := slf.projects.Delete(id); err != nil {
		slf.logger.Error().Err(err).Uint("projectId", id).Msg("Error deleting project")
		return err
	}
	slf.logger.Info().Uint("projectId", id).Msg("Project deleted")
	return nil
}

// Generate runs the requested backends over the stored graph, stores one
// artifact per backend and announces them on the message bus.
func (slf *ProjectService) Generate(ctx context.Context, ownerID, id uint, req request.GenerateProject) ([]models.Artifact, error) {
	project, err := slf.FindByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	backends := req.Backends
	if len(backends) == 0 {
		backends = slf.generation.Backends()
	}
	opts := slf.mapper.MergeOptions(slf.generation.Defaults(), req.Options)

	artifacts := make([]models.Artifact, 0, len(backends))
	for _, backend := range backends {
		result, hash, err := slf.generation.Generate(ctx, project.Graph, backend, opts)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, models.Artifact{
			ProjectID:   project.ID,
			PassID:      result.PassID,
			Backend:     result.Backend,
			Code:        result.Code,
			GraphHash:   hash,
			Diagnostics: models.Diagnostics(result.Diagnostics),
		})
	}

	if err := slf.artifacts.CreateBatch(artifacts); err != nil {
		slf.logger.Error().Err(err).Uint("projectId", id).Msg("Error storing artifacts")
		return nil, err
	}

	slf.publishGenerated(project.ID, artifacts)
	return artifacts, nil
}

func (slf *ProjectService) Artifacts(ownerID, id uint) ([]models.Artifact, error) {
	if _, err := slf.FindByID(ownerID, id); err != nil {
		return nil, err
	}
	artifacts, err := slf.artifacts.FindByProject(id)
	if err != nil {
		slf.logger.Error().Err(err).Uint("projectId", id).Msg("Error listing artifacts")
		return nil, err
	}
	return artifacts, nil
}

func (slf *ProjectService) Artifact(ownerID, projectID, artifactID uint) (models.Artifact, error) {
	if _, err := slf.FindByID(ownerID, projectID); err != nil {
		return models.Artifact{}, err
	}
	artifact, err := slf.artifacts.FindByID(projectID, artifactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Artifact{}, ErrArtifactNotFound
		}
		slf.logger.Error().Err(err).Uint("artifactId", artifactID).Msg("Error finding artifact")
		return models.Artifact{}, err
	}
	return artifact, nil
}

// publishGenerated is best effort: a missing bus only costs the live preview
func (slf *ProjectService) publishGenerated(projectID uint, artifacts []models.Artifact) {
	if slf.events == nil {
		return
	}

	event := GeneratedEvent{
		Type:      EventProjectGenerated,
		ProjectID: projectID,
		Artifacts: make([]GeneratedArtifact, len(artifacts)),
		Timestamp: time.Now().UTC(),
	}
	for i, a := range artifacts {
		event.Artifacts[i] = GeneratedArtifact{
			ID:       a.ID,
			PassID:   a.PassID,
			Backend:  a.Backend,
			Blocking: a.Diagnostics.Blocking(),
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error marshalling generation event")
		return
	}
	subject := GeneratedSubject(slf.tenantID, projectID)
	if err := slf.events.Publish(subject, data); err != nil {
		slf.logger.Warn().Err(err).Str("subject", subject).Msg("Failed to publish generation event")
	}
}

// checkGraph rejects documents that do not decode as a block graph. An
// absent graph is an empty workspace.
func checkGraph(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if _, err := block.ParseBytes(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}
	return nil
}
