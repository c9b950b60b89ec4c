package auth

import (
	"context"

	"wallet_core/internal/app/port"
)

// deviceAuthenticator stands in for the platform biometric/credential
// capability. The core only consumes the boolean outcome; deployments wire a
// real device bridge behind the same port.
type deviceAuthenticator struct {
	logger  port.Logger
	approve bool
}

// NewDeviceAuthenticator creates an authenticator with a fixed outcome.
func NewDeviceAuthenticator(logger port.Logger, approve bool) port.Authenticator {
	return &deviceAuthenticator{logger: logger, approve: approve}
}

func (a *deviceAuthenticator) Authenticate(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	a.logger.Info("Device authentication requested", "prompt", prompt, "approved", a.approve)
	return a.approve, nil
}
