package mailer

import "context"

// Mailer sends the platform's transactional email. Implementations must
// bound each send with a timeout; callers decide whether a delivery failure
// aborts the surrounding operation.
type Mailer interface {
	SendWelcome(ctx context.Context, toEmail, toName string) error
	SendPasswordReset(ctx context.Context, toEmail, toName, resetToken string) error
}
