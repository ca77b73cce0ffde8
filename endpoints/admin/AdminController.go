package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"git.sr.ht/~aondrejcak/trendify-api/auth"
	"git.sr.ht/~aondrejcak/trendify-api/kernel"
)

// Controller owns the admin credential endpoints. Routes are mounted at
// the root to keep the paths the storefront already calls.
type Controller struct {
	creds  *auth.Credentials
	tokens *auth.Tokens
}

func RegisterController(r *gin.Engine, creds *auth.Credentials, tokens *auth.Tokens) {
	ctrl := &Controller{creds: creds, tokens: tokens}

	r.POST("/admin", ctrl.Login)
	// Both unauthenticated today; gating them behind the admin
	// middleware is an open product decision.
	r.POST("/change-admin-password", ctrl.ChangePassword)
	r.POST("/reset-admin-password", ctrl.Reset)
}

type LoginDto struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.Email, val.Required),
		val.Field(&dto.Password, val.Required),
	)
}

func (ctrl *Controller) Login(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("admin.login").Advance()

	var dto LoginDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	ok, firstLogin, err := ctrl.creds.Authenticate(c.Request.Context(), dto.Email, dto.Password)
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to authenticate: %v", err)
		return
	}
	if !ok {
		rt.Ef(http.StatusBadRequest, "Invalid email or password")
		return
	}

	if firstLogin {
		log.Info().Msg("admin credential persisted from fallback identity")
	}

	token, err := ctrl.tokens.Issue(strings.TrimSpace(dto.Email))
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to issue token: %v", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	rt.EndBlock()
}

type ChangePasswordDto struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (dto ChangePasswordDto) Validate() error {
	return val.ValidateStruct(&dto,
		val.Field(&dto.CurrentPassword, val.Required),
		val.Field(&dto.NewPassword, val.Required),
		val.Field(&dto.ConfirmPassword, val.Required),
	)
}

func (ctrl *Controller) ChangePassword(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("admin.change_password").Advance()

	var dto ChangePasswordDto
	rt.BindJSON(&dto)
	if rt.Error != nil {
		rt.Ef(http.StatusBadRequest, "could not bind body: %v", rt.Error)
		return
	}
	if err := dto.Validate(); err != nil {
		rt.E(http.StatusBadRequest, err)
		return
	}

	err := ctrl.creds.ChangePassword(c.Request.Context(),
		dto.Email, dto.CurrentPassword, dto.NewPassword, dto.ConfirmPassword)
	if err != nil {
		if errors.Is(err, auth.ErrValidation) || errors.Is(err, auth.ErrInvalidCredentials) {
			rt.E(http.StatusBadRequest, err)
			return
		}
		rt.Ef(http.StatusInternalServerError, "failed to change password: %v", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
	rt.EndBlock()
}

func (ctrl *Controller) Reset(c *gin.Context) {
	rt := c.MustGet("rt").(*kernel.RequestRuntime)
	rt.NewChildTracer("admin.reset").Advance()

	if err := ctrl.creds.ResetAll(c.Request.Context()); err != nil {
		rt.Ef(http.StatusInternalServerError, "failed to reset admin credentials: %v", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin credentials reset to fallback identity"})
	rt.EndBlock()
}
