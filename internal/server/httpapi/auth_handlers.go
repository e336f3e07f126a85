package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/marketpulse/internal/common"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
	"github.com/dmitrijs2005/marketpulse/internal/server/services"
)

type signUpRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// identityResponse is the wire shape of a user identity. Field names match
// what the client decodes.
type identityResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	CompanyName   string `json:"companyName"`
	Industry      string `json:"industry"`
	EmailVerified bool   `json:"emailVerified"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  identityResponse `json:"user"`
}

func toIdentity(u *models.User) identityResponse {
	return identityResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		CompanyName:   u.CompanyName,
		Industry:      u.Industry,
		EmailVerified: u.EmailVerified,
	}
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	_, err := h.users.SignUp(r.Context(), services.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeMessage(w, http.StatusBadRequest, "A user with this email already exists")
			return
		}
		h.log.Error(r.Context(), "signup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusCreated, "User created successfully. Please check your email to verify your account.")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error(r.Context(), "login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: toIdentity(user)})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		h.log.Error(r.Context(), "me failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toIdentity(user))
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.VerifyEmail(r.Context(), req.Token); err != nil {
		switch {
		case errors.Is(err, common.ErrEmailAlreadyVerified):
			writeMessage(w, http.StatusBadRequest, "Email already verified")
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorNotFound):
			writeMessage(w, http.StatusBadRequest, "Invalid or expired verification token")
		default:
			h.log.Error(r.Context(), "email verification failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Email verified successfully")
}

func (h *Handler) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	err := h.users.ResendVerification(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailAlreadyVerified):
			writeMessage(w, http.StatusBadRequest, "Email already verified")
		case errors.Is(err, common.ErrorNotFound):
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		default:
			h.log.Error(r.Context(), "resend verification failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Verification email sent")
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		h.log.Error(r.Context(), "forgot password failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Uniform response whether or not the address has an account.
	writeMessage(w, http.StatusOK, "Password reset email sent if user exists")
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "New password is required")
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorNotFound):
			writeMessage(w, http.StatusBadRequest, "Invalid or expired reset token")
		default:
			h.log.Error(r.Context(), "password reset failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successfully")
}
