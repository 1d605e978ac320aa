// Package httpapi exposes the auth workflow over a small JSON API. It is a
// deliberately thin edge: decode a body, call the service, translate the
// failure taxonomy to a status code.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/parthpl/userbase/internal/logging"
	"github.com/parthpl/userbase/internal/server/models"
)

// AuthService is the slice of the auth workflow the edge depends on.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, email, otp, newPassword string) error
	ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error
	VerifyToken(ctx context.Context, token string) (*models.User, error)
	Register(ctx context.Context, name, email string, dateOfBirth *time.Time, password string) (*models.User, error)
}

type Server struct {
	address string
	logger  logging.Logger
	auth    AuthService
}

func NewServer(address string, l logging.Logger, auth AuthService) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		auth:    auth,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.handleRegister)
	mux.HandleFunc("POST /sign-in", s.handleSignIn)
	mux.HandleFunc("POST /forget-password", s.handleForgetPassword)
	mux.HandleFunc("POST /confirm-forget-password", s.handleConfirmForgetPassword)
	mux.HandleFunc("POST /change-password", s.handleChangePassword)
	mux.HandleFunc("GET /me", s.handleMe)

	return s.withRequestLog(mux)
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
