package mapper

import (
	"encoding/json"

	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/models"
	"blockgen/internal/gen"
	"blockgen/pkg"
)

type ProjectMapper interface {
	ToProjectResponses(entities []models.Project) []response.Project
	ToProjectResponse(p models.Project) response.Project
	CreateProject(req request.CreateProject, ownerID uint) models.Project
	// update
	UpdateProject(req request.UpdateProject, p *models.Project)

	ToArtifactResponses(entities []models.Artifact) []response.Artifact
	ToArtifactResponse(a models.Artifact) response.Artifact

	// MergeOptions applies request overrides on top of the defaults
	MergeOptions(base gen.Options, req *request.GenerateOptions) gen.Options
}

type projectMapper struct{}

func NewProjectMapper() ProjectMapper {
	return projectMapper{}
}

func (m projectMapper) ToProjectResponses(entities []models.Project) []response.Project {
	responses := make([]response.Project, len(entities))
	for i, e := range entities {
		responses[i] = m.ToProjectResponse(e)
		responses[i].Graph = nil
	}
	return responses
}

func (m projectMapper) ToProjectResponse(p models.Project) response.Project {
	return response.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Graph:       json.RawMessage(p.Graph),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m projectMapper) CreateProject(req request.CreateProject, ownerID uint) models.Project {
	return models.Project{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Graph:       models.GraphDocument(req.Graph),
	}
}

func (m projectMapper) UpdateProject(req request.UpdateProject, p *models.Project) {
	if req.Name != nil {
		p.Name = pkg.FromPtr(req.Name)
	}
	if req.Description != nil {
		p.Description = pkg.FromPtr(req.Description)
	}
	if req.Graph != nil {
		p.Graph = models.GraphDocument(req.Graph)
	}
}

func (m projectMapper) ToArtifactResponses(entities []models.Artifact) []response.Artifact {
	responses := make([]response.Artifact, len(entities))
	for i, e := range entities {
		responses[i] = m.ToArtifactResponse(e)
	}
	return responses
}

func (m projectMapper) ToArtifactResponse(a models.Artifact) response.Artifact {
	diags := []gen.Diagnostic(a.Diagnostics)
	if diags == nil {
		diags = []gen.Diagnostic{}
	}
	return response.Artifact{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		PassID:      a.PassID,
		Backend:     a.Backend,
		Code:        a.Code,
		GraphHash:   a.GraphHash,
		Diagnostics: diags,
		Blocking:    a.Diagnostics.Blocking(),
		CreatedAt:   a.CreatedAt,
	}
}

func (m projectMapper) MergeOptions(base gen.Options, req *request.GenerateOptions) gen.Options {
	if req == nil {
		return base
	}
	if req.CommentWrap != nil {
		base.CommentWrap = pkg.FromPtr(req.CommentWrap)
	}
	if req.OneBasedIndex != nil {
		base.OneBasedIndex = pkg.FromPtr(req.OneBasedIndex)
	}
	if req.LoopTrap != nil {
		base.LoopTrap = pkg.FromPtr(req.LoopTrap)
	}
	if req.LoopTrapLimit != nil {
		base.LoopTrapLimit = pkg.FromPtr(req.LoopTrapLimit)
	}
	if req.Format != nil {
		base.Format = pkg.FromPtr(req.Format)
	}
	return base
}
