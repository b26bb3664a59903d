package endpoints

import (
	"net/http"

	"blockgen"
	"blockgen/internal/api/handler/middleware"
	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/service"
	"blockgen/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type userAPI interface {
	Register(registerDTO request.RegisterDTO) (*response.AuthResponseDTO, error)
	Login(loginDTO request.LoginDTO) (*response.AuthResponseDTO, error)
	GetByID(id uint) (response.UserResponseDTO, error)
	RefreshToken(refreshToken string) (*response.AuthResponseDTO, error)
}

type authHandler struct {
	userService userAPI
	logger      zerolog.Logger
	config      blockgen.AppConfig
}

func newAuthHandler() *authHandler {
	return &authHandler{
		userService: service.NewUserService(),
		logger:      blockgen.Logger,
		config:      blockgen.GetConfig(),
	}
}

func AuthHandler(router gin.IRouter) {
	newAuthHandler().register(router)
}

func (slf *authHandler) register(router gin.IRouter) {
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", slf.registerUser)
		auth.POST("/login", slf.login)
		auth.POST("/refresh", slf.refreshToken)
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(slf.config))
	{
		protected.GET("/me", slf.getMe)
	}
}

func (slf *authHandler) registerUser(c *gin.Context) {
	var registerDTO request.RegisterDTO
	if err := pkg.ParseAndValidate(c, &registerDTO); err != nil {
		slf.logger.Error().Err(err).Msg("Error parsing and validating register DTO")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	authResponse, err := slf.userService.Register(registerDTO)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error registering user")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, authResponse)
}

func (slf *authHandler) login(c *gin.Context) {
	var loginDTO request.LoginDTO
	if err := pkg.ParseAndValidate(c, &loginDTO); err != nil {
		slf.logger.Error().Err(err).Msg("Error parsing and validating login DTO")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	authResponse, err := slf.userService.Login(loginDTO)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error logging in user")
		c.JSON(http.StatusUnauthorized, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, authResponse)
}

func (slf *authHandler) getMe(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	user, err := slf.userService.GetByID(userID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error getting user")
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (slf *authHandler) refreshToken(c *gin.Context) {
	var refreshDTO request.RefreshTokenDTO
	if err := pkg.ParseAndValidate(c, &refreshDTO); err != nil {
		slf.logger.Error().Err(err).Msg("Error parsing and validating refresh token DTO")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	authResponse, err := slf.userService.RefreshToken(refreshDTO.RefreshToken)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error refreshing token")
		c.JSON(http.StatusUnauthorized, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, authResponse)
}
