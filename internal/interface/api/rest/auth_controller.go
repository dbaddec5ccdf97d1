package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"member-portal-api/internal/apperr"
	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/application/services"
	"member-portal-api/internal/domain/identity"
	"member-portal-api/internal/interface/api/rest/dto/auth"
	"member-portal-api/internal/interface/api/rest/middleware"
	"member-portal-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	authService ports.Auth
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.Auth,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		authService: authService,
	}

	authMW := middleware.AuthMiddleware(authService)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, authMW, ac.LogoutHandler)
	r.GET(RouteMe, authMW, ac.MeHandler)

	return ac
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid json",
			"kind":  apperr.KindInvalidInput,
		})
		return
	}

	if errs := validator.ValidateLogin(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"kind":    apperr.KindInvalidInput,
			"details": errs,
		})
		return
	}

	session, err := ac.authService.SignIn(c.Request.Context(), identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid email or password",
				"kind":  apperr.KindUnauthorized,
			})
			return
		}
		writeError(c, ac.logger, "sign in", apperr.Wrap("sign in is temporarily unavailable", err))
		return
	}

	c.JSON(http.StatusOK, auth.ToLoginResponse(*session))
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	if err := ac.authService.SignOut(c.Request.Context(), c.GetString(middleware.CtxToken)); err != nil {
		writeError(c, ac.logger, "sign out", apperr.Unauthorized("invalid token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ac *AuthController) MeHandler(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, ac.logger, "current user", apperr.Unauthorized("authentication required"))
		return
	}

	c.JSON(http.StatusOK, auth.ToMe(me))
}
