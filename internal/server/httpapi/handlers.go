package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/parthpl/userbase/internal/common"
	"github.com/parthpl/userbase/internal/server/models"
)

type userPayload struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	DateOfBirth *time.Time `json:"dob,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the failure taxonomy to stable identifiers and statuses.
// Anything unrecognized is reported as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromError(err), map[string]any{"error": errorID(err)})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidOTP),
		errors.Is(err, common.ErrOTPExpired),
		errors.Is(err, common.ErrIncorrectPassword):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}

func errorID(err error) string {
	for _, sentinel := range []error{
		common.ErrUnauthorized, common.ErrNotFound, common.ErrInvalidOTP,
		common.ErrOTPExpired, common.ErrIncorrectPassword, common.ErrMissingToken,
		common.ErrInvalidToken, common.ErrTokenExpired, common.ErrAlreadyExists,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return common.ErrInternal.Error()
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// bearerToken extracts the session token from the Authorization header.
// An absent or non-Bearer header yields an empty string, which the token
// service reports as a missing token.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string     `json:"name"`
		Email    string     `json:"email"`
		DOB      *time.Time `json:"dob"`
		Password string     `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	user, err := s.auth.Register(r.Context(), in.Name, in.Email, in.DOB, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserPayload(user))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	user, token, err := s.auth.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  toUserPayload(user),
		"token": token,
	})
}

func (s *Server) handleForgetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	if err := s.auth.ForgotPassword(r.Context(), in.Email); err != nil {
		writeError(w, err)
		return
	}

	// the code travels by mail only, never in the response
	writeJSON(w, http.StatusOK, map[string]any{"message": "OTP sent to your email"})
}

func (s *Server) handleConfirmForgetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		OTP      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	if err := s.auth.ConfirmReset(r.Context(), in.Email, in.OTP, in.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Password reset successful"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.VerifyToken(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	var in struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	if err := s.auth.ChangePassword(r.Context(), user, in.OldPassword, in.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Password updated successfully"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.VerifyToken(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(user))
}
