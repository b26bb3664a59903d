package endpoints

import (
	"context"
	"net/http"

	"blockgen"
	"blockgen/internal/api/handler/mapper"
	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/service"
	"blockgen/internal/gen"
	"blockgen/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type generationAPI interface {
	Generate(ctx context.Context, raw []byte, backend string, opts gen.Options) (*gen.Result, string, error)
	Defaults() gen.Options
	Backends() []string
}

type generateHandler struct {
	generation generationAPI
	mapper     mapper.ProjectMapper
	logger     zerolog.Logger
}

func newGenerateHandler(generation *service.GenerationService) *generateHandler {
	return &generateHandler{
		generation: generation,
		mapper:     mapper.NewProjectMapper(),
		logger:     blockgen.Logger,
	}
}

// GenerateHandler serves stateless generation. No login is needed: nothing
// is stored.
func GenerateHandler(router gin.IRouter, generation *service.GenerationService) {
	newGenerateHandler(generation).register(router)
}

func (slf *generateHandler) register(router gin.IRouter) {
	routes := router.Group("/api/v1")
	{
		routes.GET("/backends", slf.backends)
		routes.POST("/generate", slf.generate)
	}
}

func (slf *generateHandler) backends(c *gin.Context) {
	c.JSON(http.StatusOK, response.Backends{Backends: slf.generation.Backends()})
}

func (slf *generateHandler) generate(c *gin.Context) {
	var req request.Generate
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	opts := slf.mapper.MergeOptions(slf.generation.Defaults(), req.Options)
	result, _, err := slf.generation.Generate(c.Request.Context(), req.Graph, req.Backend, opts)
	if err != nil {
		respondError(c, slf.logger, err, "Failed to generate code")
		return
	}

	c.JSON(http.StatusOK, result)
}
