// Package notifier delivers one-time reset codes to users. The auth workflow
// treats delivery as fire-and-forget: a failed send is logged by the caller
// and never rolls back the state change that produced the code.
package notifier

import "context"

type Notifier interface {
	// SendOTP delivers a reset code to the recipient address.
	SendOTP(ctx context.Context, recipient string, code string) error
}
