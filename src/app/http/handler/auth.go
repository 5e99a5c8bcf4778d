package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"jokebox/src/app/http/form"
	"jokebox/src/app/http/response"
	"jokebox/src/app/middleware"
	"jokebox/src/core/domain"
	"jokebox/src/core/ports"
	"jokebox/src/core/usecase"
	"jokebox/src/infra/config"
)

// Login type values accepted on POST /login.
const (
	loginTypeLogin    = "login"
	loginTypeRegister = "register"
)

// AuthHandler handles login, logout and the current-user endpoint.
type AuthHandler struct {
	authService *usecase.AuthService
	codec       ports.SessionCodec
	session     config.SessionConfig
}

func NewAuthHandler(authService *usecase.AuthService, codec ports.SessionCodec, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		codec:       codec,
		session:     session,
	}
}

// Login handles POST /login. The loginType field selects between logging
// in and registering; both issue a session cookie and redirect on success.
//
// Failures are data, not errors: field problems come back as fieldErrors,
// business problems (bad credentials, taken username, unknown loginType)
// as formError, and every submitted value is echoed back either way.
func (h *AuthHandler) Login(c *gin.Context) {
	var f form.LoginForm
	if err := c.ShouldBind(&f); err != nil {
		response.Invalid(c, form.Malformed())
		return
	}

	redirectTo := form.SafeRedirect(f.RedirectTo)

	if fieldErrors := f.Validate(); fieldErrors != nil {
		response.Invalid(c, form.Invalid(f, fieldErrors))
		return
	}

	var user *domain.User
	var err error
	switch f.LoginType {
	case loginTypeLogin:
		user, err = h.authService.Login(c.Request.Context(), f.Username, f.Password)
		if err != nil {
			if domain.IsUnauthorized(err) {
				response.Invalid(c, form.Failed(f, "Username/Password combination is incorrect"))
				return
			}
			c.Error(err)
			response.FromDomainError(c, err, middleware.GetRequestID(c))
			return
		}
	case loginTypeRegister:
		user, err = h.authService.Register(c.Request.Context(), f.Username, f.Password)
		if err != nil {
			if domain.IsConflict(err) {
				response.Invalid(c, form.Failed(f, fmt.Sprintf("User with username %s already exists", f.Username)))
				return
			}
			c.Error(err)
			response.FromDomainError(c, err, middleware.GetRequestID(c))
			return
		}
	default:
		response.Invalid(c, form.Failed(f, "Login type invalid"))
		return
	}

	h.createUserSession(c, user.ID, redirectTo)
}

// createUserSession encodes a fresh session for userID, sets the cookie
// (overwriting any prior session) and redirects.
func (h *AuthHandler) createUserSession(c *gin.Context, userID, redirectTo string) {
	token, err := h.codec.Encode(userID)
	if err != nil {
		c.Error(err)
		response.InternalError(c, middleware.GetRequestID(c))
		return
	}
	middleware.SetSessionCookie(c, h.session, token)
	c.Redirect(http.StatusFound, redirectTo)
}

// Logout handles POST /logout: destroy the session, redirect home.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.session)
	c.Redirect(http.StatusFound, "/")
}

// Me handles GET /me. Anonymous viewers get a null user rather than an
// error; a session whose user no longer exists reads as anonymous too.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.OK(c, gin.H{"user": nil})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if domain.IsNotFound(err) {
			response.OK(c, gin.H{"user": nil})
			return
		}
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.OK(c, gin.H{
		"user": gin.H{
			"user_id":  user.ID,
			"username": user.Username,
		},
	})
}
