package endpoints

import (
	"context"
	"net/http"

	"blockgen"
	"blockgen/internal/api/handler/mapper"
	"blockgen/internal/api/handler/middleware"
	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/models"
	"blockgen/internal/api/service"
	"blockgen/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type projectAPI interface {
	FindAllForOwner(ownerID uint) ([]models.Project, error)
	FindByID(ownerID, id uint) (models.Project, error)
	Create(ownerID uint, req request.CreateProject) (models.Project, error)
	Update(ownerID, id uint, req request.UpdateProject) (models.Project, error)
	Delete(ownerID, id uint) error
	Generate(ctx context.Context, ownerID, id uint, req request.GenerateProject) ([]models.Artifact, error)
	Artifacts(ownerID, id uint) ([]models.Artifact, error)
	Artifact(ownerID, projectID, artifactID uint) (models.Artifact, error)
}

type artifactExporter interface {
	Export(ctx context.Context, artifact models.Artifact, table string) (pkg.SQLDialect, string, error)
}

type artifactMailer interface {
	SendArtifact(ctx context.Context, project models.Project, artifact models.Artifact, mail service.ArtifactMail) error
}

type projectHandler struct {
	projects projectAPI
	exporter artifactExporter
	mailer   artifactMailer
	mapper   mapper.ProjectMapper
	config   blockgen.AppConfig
	logger   zerolog.Logger
}

func newProjectHandler(generation *service.GenerationService) *projectHandler {
	return &projectHandler{
		projects: service.NewProjectService(generation),
		exporter: service.NewExportService(),
		mailer:   service.NewMailService(),
		mapper:   mapper.NewProjectMapper(),
		config:   blockgen.GetConfig(),
		logger:   blockgen.Logger,
	}
}

func ProjectHandler(router gin.IRouter, generation *service.GenerationService) {
	newProjectHandler(generation).register(router)
}

func (slf *projectHandler) register(router gin.IRouter) {
	routes := router.Group("/api/v1/projects")
	routes.Use(middleware.AuthMiddleware(slf.config))
	{
		routes.GET("", slf.getAll)
		routes.GET("/:id", slf.getByID)
		routes.POST("", slf.create)
		routes.PUT("/:id", slf.update)
		routes.DELETE("/:id", slf.delete)

		routes.POST("/:id/generate", slf.generate)
		routes.GET("/:id/artifacts", slf.artifacts)
		routes.GET("/:id/artifacts/:artifactId", slf.artifact)
		routes.POST("/:id/artifacts/:artifactId/export", slf.export)
		routes.POST("/:id/artifacts/:artifactId/mail", slf.mail)
	}
}

// getAll returns the projects of the current user, without their graphs
func (slf *projectHandler) getAll(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	projects, err := slf.projects.FindAllForOwner(userID)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to retrieve projects")
		return
	}

	c.JSON(http.StatusOK, slf.mapper.ToProjectResponses(projects))
}

func (slf *projectHandler) getByID(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}
	id, ok := pkg.ParamID(c, "id")
	if !ok {
		return
	}

	project, err := slf.projects.FindByID(userID, id)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to retrieve project")
		return
	}

	c.JSON(http.StatusOK, slf.mapper.ToProjectResponse(project))
}

func (slf *projectHandler) create(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	var req request.CreateProject
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	project, err := slf.projects.Create(userID, req)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, slf.mapper.ToProjectResponse(project))
}

func (slf *projectHandler) update(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}
	id, ok := pkg.ParamID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateProject
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	project, err := slf.projects.Update(userID, id, req)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, slf.mapper.ToProjectResponse(project))
}

func (slf *projectHandler) delete(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}
	id, ok := pkg.ParamID(c, "id")
	if !ok {
		return
	}

	if err := slf.projects.Delete(userID, id); err != nil {
		respondError(c, slf.logger, err, "Failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

// generate runs the backends over the stored graph and returns the new
// artifacts
func (slf *projectHandler) generate(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}
	id, ok := pkg.ParamID(c, "id")
	if !ok {
		return
	}

	var req request.GenerateProject
	if c.Request.ContentLength != 0 {
		if err := pkg.ParseAndValidate(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
			return
		}
	}

	artifacts, err := slf.projects.Generate(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to generate project")
		return
	}

	c.JSON(http.StatusCreated, slf.mapper.ToArtifactResponses(artifacts))
}

func (slf *projectHandler) artifacts(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}
	id, ok := pkg.ParamID(c, "id")
	if !ok {
		return
	}

	artifacts, err := slf.projects.Artifacts(userID, id)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to retrieve artifacts")
		return
	}

	c.JSON(http.StatusOK, slf.mapper.ToArtifactResponses(artifacts))
}

func (slf *projectHandler) artifact(c *gin.Context) {
	_, artifact, ok := slf.loadArtifact(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, slf.mapper.ToArtifactResponse(artifact))
}

func (slf *projectHandler) export(c *gin.Context) {
	_, artifact, ok := slf.loadArtifact(c)
	if !ok {
		return
	}

	var req request.ExportArtifact
	if c.Request.ContentLength != 0 {
		if err := pkg.ParseAndValidate(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
			return
		}
	}

	dialect, table, err := slf.exporter.Export(c.Request.Context(), artifact, req.Table)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		slf.logger.Error().Err(err).Uint("artifactId", artifact.ID).Msg("Failed to export artifact")
		c.JSON(status, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.Export{ArtifactID: artifact.ID, Dialect: string(dialect), Table: table})
}

func (slf *projectHandler) mail(c *gin.Context) {
	project, artifact, ok := slf.loadArtifact(c)
	if !ok {
		return
	}

	var req request.MailArtifact
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	err := slf.mailer.SendArtifact(c.Request.Context(), project, artifact, service.ArtifactMail{To: req.To, Subject: req.Subject})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		slf.logger.Error().Err(err).Uint("artifactId", artifact.ID).Msg("Failed to mail artifact")
		c.JSON(status, response.APIError{Message: err.Error()})
		return
	}

	c.Status(http.StatusAccepted)
}

// loadArtifact resolves the :id and :artifactId parameters for the
// current user. It writes the error response itself.
func (slf *projectHandler) loadArtifact(c *gin.Context) (models.Project, models.Artifact, bool) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return models.Project{}, models.Artifact{}, false
	}
	id, ok := pkg.ParamID(c, "id")
	if !ok {
		return models.Project{}, models.Artifact{}, false
	}
	artifactID, ok := pkg.ParamID(c, "artifactId")
	if !ok {
		return models.Project{}, models.Artifact{}, false
	}

	project, err := slf.projects.FindByID(userID, id)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to retrieve project")
		return models.Project{}, models.Artifact{}, false
	}
	artifact, err := slf.projects.Artifact(userID, id, artifactID)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to retrieve artifact")
		return models.Project{}, models.Artifact{}, false
	}
	return project, artifact, true
}
