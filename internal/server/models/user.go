// Package models holds the server-side data structures persisted by the
// repositories.
package models

import "time"

// User is an administrative account. OTP and OTPIssuedAt are set together by
// a forget-password request and are both nil when no reset is pending;
// confirm-reset clears OTP only, leaving the stale timestamp to be
// overwritten by the next request.
type User struct {
	ID           int64
	Name         string
	Email        string
	DateOfBirth  *time.Time
	PasswordHash string
	OTP          *string
	OTPIssuedAt  *time.Time
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
