package pageload

import (
	"time"

	"baby-care-tracker/internal/platform/logger"
)

type Option func(*Loader)

func WithAutoRetry(on bool) Option {
	return func(l *Loader) { l.autoRetry = on }
}

func WithRetryDelay(d time.Duration) Option {
	return func(l *Loader) {
		if d >= 0 {
			l.retryDelay = d
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(l *Loader) {
		if n >= 0 {
			l.maxRetries = n
		}
	}
}

// WithTenantPollInterval es la espera entre chequeos mientras la familia no está resuelta.
func WithTenantPollInterval(d time.Duration) Option {
	return func(l *Loader) {
		if d >= 0 {
			l.pollInterval = d
		}
	}
}

// WithName etiqueta logs y métricas.
func WithName(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.name = name
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
