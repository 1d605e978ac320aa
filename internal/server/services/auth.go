// Package services contains server-side business logic. This file implements
// AuthService, which handles sign-in, token verification, and the OTP-based
// password-recovery state machine.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/parthpl/userbase/internal/common"
	"github.com/parthpl/userbase/internal/dbx"
	"github.com/parthpl/userbase/internal/logging"
	"github.com/parthpl/userbase/internal/server/auth"
	"github.com/parthpl/userbase/internal/server/config"
	"github.com/parthpl/userbase/internal/server/models"
	"github.com/parthpl/userbase/internal/server/notifier"
	"github.com/parthpl/userbase/internal/server/repositories/repomanager"
)

// AuthService provides authentication-related operations:
//   - SignIn: verify credentials and mint a session token
//   - ForgotPassword / ConfirmReset: the OTP reset flow
//   - ChangePassword: rotate the password of an authenticated user
//   - VerifyToken: the gate every authenticated endpoint calls
//   - Register: create accounts with a hashed initial password
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	notifier      notifier.Notifier
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	otpValidity   time.Duration

	// now is a seam for the expiry checks in tests.
	now func() time.Time
}

// NewAuthService constructs an AuthService using repositories, the OTP
// notifier, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, n notifier.Notifier, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		notifier:      n,
		logger:        l.With("module", "auth_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidityDuration,
		otpValidity:   cfg.OTPValidityDuration,
		now:           time.Now,
	}
}

// SignIn verifies the email/password pair and returns the user together with
// a fresh session token. An unknown email and a wrong password both yield
// common.ErrUnauthorized so that responses cannot be used to probe which
// addresses have accounts.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, "", common.ErrInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.now(), s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err.Error())
		return nil, "", common.ErrInternal
	}

	return user, token, nil
}

// ForgotPassword issues a new reset code for the account, superseding any
// code issued earlier, and mails it to the user. The code is persisted before
// the mail is sent; a delivery failure is logged but does not undo the write,
// the client simply requests another code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return common.ErrInternal
	}

	code := auth.GenerateOTP()
	now := s.now()
	user.OTP = &code
	user.OTPIssuedAt = &now
	user.UpdatedAt = now

	if err := repo.Save(ctx, user); err != nil {
		return fmt.Errorf("error saving otp: %w", err)
	}

	if err := s.notifier.SendOTP(ctx, user.Email, code); err != nil {
		s.logger.Warn(ctx, "otp mail not delivered", "email", user.Email, "error", err.Error())
	}

	return nil
}

// ConfirmReset exchanges a valid reset code for a new password. The supplied
// code must equal the most recently issued one (an unset code never matches)
// and must be used within the validity window; a correct but stale code
// fails with common.ErrOTPExpired. On success the new hash is stored and the
// code is cleared. The issuance timestamp is intentionally left behind: the
// next ForgotPassword overwrites it, and nothing reads it without a code.
func (s *AuthService) ConfirmReset(ctx context.Context, email, otp, newPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidOTP
			}
			s.logger.Error(ctx, "user lookup failed", "error", err.Error())
			return common.ErrInternal
		}

		if user.OTP == nil || *user.OTP != otp {
			return common.ErrInvalidOTP
		}

		if user.OTPIssuedAt == nil || s.now().After(user.OTPIssuedAt.Add(s.otpValidity)) {
			return common.ErrOTPExpired
		}

		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return common.ErrInternal
		}

		user.PasswordHash = hash
		user.OTP = nil
		user.UpdatedAt = s.now()

		if err := repo.Save(ctx, user); err != nil {
			return fmt.Errorf("error saving password: %w", err)
		}
		return nil
	})
}

// ChangePassword rotates the password of an already-authenticated user. The
// caller must have resolved the user through VerifyToken; identity is not
// re-derived from a raw token here.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return common.ErrIncorrectPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	user.PasswordHash = hash
	user.UpdatedAt = s.now()

	repo := s.repomanager.Users(s.db)
	if err := repo.Save(ctx, user); err != nil {
		return fmt.Errorf("error saving password: %w", err)
	}

	return nil
}

// VerifyToken checks the token signature and expiry, then re-fetches the user
// by the embedded id. An account deleted after issuance fails with
// common.ErrUnauthorized.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "id", claims.UserID, "error", err.Error())
		return nil, common.ErrInternal
	}

	return user, nil
}

// Register creates a new account with a bcrypt hash of the initial password.
func (s *AuthService) Register(ctx context.Context, name, email string, dateOfBirth *time.Time, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{Name: name, Email: email, DateOfBirth: dateOfBirth, PasswordHash: hash}
	created, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}
