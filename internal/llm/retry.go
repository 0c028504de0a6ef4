package llm

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Policy is the single retry abstraction used by every component that talks
// to the language model. MaxRetries is the number of additional attempts
// after the first; Pause is the wait between attempts.
type Policy struct {
	MaxRetries int
	Pause      time.Duration
	Logger     *logrus.Logger
}

// Do runs fn up to MaxRetries+1 times, waiting Pause between attempts.
// Every failed attempt is classified for diagnostics; classification never
// changes retry behavior. The last error is returned once attempts are
// exhausted.
func (p Policy) Do(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		p.logFailure(op, attempt, lastErr)

		if attempt < p.MaxRetries {
			select {
			case <-time.After(p.Pause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

func (p Policy) logFailure(op string, attempt int, err error) {
	if p.Logger == nil {
		return
	}

	entry := p.Logger.WithFields(logrus.Fields{
		"op":      op,
		"attempt": attempt + 1,
	})

	if IsAccessDenied(err) {
		entry.Errorf("API access denied: %v", err)
		entry.Error("Please check your API key and network settings. This might be due to:")
		entry.Error("  - Invalid or expired API key")
		entry.Error("  - Network/firewall restrictions")
		entry.Error("  - API quota exceeded")
		entry.Error("  - VPN/proxy blocking the connection")
		return
	}

	entry.Errorf("unexpected error: %v", err)
}

// IsAccessDenied reports whether an error looks like a credential or
// permission failure, matched on status code and text in the error message.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "status 401") || strings.Contains(msg, "status 403") {
		return true
	}
	return strings.Contains(msg, "403") && strings.Contains(msg, "Access denied")
}
