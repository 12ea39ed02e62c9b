package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	LoginNotice(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	VerifyNotice(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
	}
}

// LoginNotice is where unauthenticated requests are redirected.
func (a *AuthHandlerImpl) LoginNotice(w http.ResponseWriter, r *http.Request) {
	response.Unauthorized(w, "Please log in")
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if isJSON(r) {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&loginReq); err != nil {
			slog.Error("Login decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			slog.Error("Login form parse error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		loginReq.Email = r.PostForm.Get("email")
		loginReq.Password = r.PostForm.Get("password")
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.AccessTokenCookie(tokenResponse.AccessToken, tokenResponse.ExpiresAt))
	response.SuccessWithMessage(w, "User logged in successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.authService.Logout(r.Context(), middleware.RawToken(r)); err != nil {
		slog.Warn("Logout with unusable token", "error", err)
	}

	http.SetCookie(w, a.jwtService.ClearAccessTokenCookie())
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// VerifyNotice is where unverified users are redirected.
func (a *AuthHandlerImpl) VerifyNotice(w http.ResponseWriter, r *http.Request) {
	response.Forbidden(w, "Please verify your email address before continuing")
}
