package panorama

import (
	"context"
	"errors"
	"log/slog"

	"github.com/isometry/fwboot/pkg/retry"
	"github.com/isometry/fwboot/pkg/utils"
)

// Connector opens sessions, retrying failed dials under Policy.
type Connector struct {
	Dialer Dialer
	Policy retry.Policy
}

func NewConnector(dialer Dialer, policy retry.Policy) *Connector {
	return &Connector{Dialer: dialer, Policy: policy}
}

// Connect returns a Session or a *ConnectionError naming the endpoint.
// Any dial failure is retried; the connection state is binary.
func (c *Connector) Connect(ctx context.Context, endpoint string, creds Credentials) (Session, error) {
	log := utils.ContextLogger(ctx, slog.String("endpoint", endpoint), slog.Any("credentials", creds))
	log.Debug("connecting")

	var session Session
	err := c.Policy.Do(ctx, "connect", func(ctx context.Context) (err error) {
		session, err = c.Dialer.Dial(ctx, endpoint, creds)
		return err
	})
	if err != nil {
		connErr := &ConnectionError{Endpoint: endpoint, Err: err}
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			connErr.Attempts = exhausted.Attempts
			connErr.Err = exhausted.Err
		}
		log.Error("failed to connect", slog.Any("error", connErr))
		return nil, connErr
	}

	log.Info("connected")
	return session, nil
}
