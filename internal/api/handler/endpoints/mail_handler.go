package endpoints

import (
	"context"
	"net/http"

	"blockgen"
	"blockgen/internal/api/handler/middleware"
	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/models"
	"blockgen/internal/api/service"
	"blockgen/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type mailChecker interface {
	TestSMTPConnection(ctx context.Context, host string, port int, username, password string, useTLS bool) error
	TestIMAPConnection(host string, port int, username, password string, useTLS bool) error
}

type mailHandler struct {
	mail   mailChecker
	config blockgen.AppConfig
	logger zerolog.Logger
}

func MailHandler(router gin.IRouter) {
	h := &mailHandler{
		mail:   service.NewMailService(),
		config: blockgen.GetConfig(),
		logger: blockgen.Logger,
	}
	h.register(router)
}

func (slf *mailHandler) register(router gin.IRouter) {
	routes := router.Group("/api/v1/mail")
	routes.Use(middleware.AuthMiddleware(slf.config), middleware.RequireRole(models.RoleAdmin))
	{
		routes.POST("/check", slf.check)
	}
}

// check probes the outgoing (smtp) or incoming (imap) server of the mailbox
// artifacts are delivered to. Admins only: it dials arbitrary hosts.
func (slf *mailHandler) check(c *gin.Context) {
	var req request.MailCheck
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	var err error
	switch req.Protocol {
	case "smtp":
		err = slf.mail.TestSMTPConnection(c.Request.Context(), req.Host, req.Port, req.Username, req.Password, req.UseTLS)
	case "imap":
		err = slf.mail.TestIMAPConnection(req.Host, req.Port, req.Username, req.Password, req.UseTLS)
	}
	if err != nil {
		slf.logger.Warn().Err(err).Str("protocol", req.Protocol).Str("host", req.Host).Msg("Mail server check failed")
		c.JSON(http.StatusBadGateway, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": req.Protocol + " connection successful"})
}
