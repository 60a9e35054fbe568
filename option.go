package splitpay

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/vitwit/splitpay/clients"
	"github.com/vitwit/splitpay/logger"
	"github.com/vitwit/splitpay/metrics"
)

type Option func(*Dispatcher)

func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(d *Dispatcher) {
		d.metrics = r
	}
}

// WithTimeout bounds the preparation of a dispatch: distribution lookup,
// account reads and blockhash fetch. Signing and confirmation are not
// covered.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = t
	}
}

// WithLedger replaces the JSON-RPC ledger built from the config.
func WithLedger(l clients.Ledger) Option {
	return func(d *Dispatcher) {
		d.ledger = l
	}
}

// WithDistributionResolver replaces the HTTP distribution client built from
// the config.
func WithDistributionResolver(r clients.DistributionResolver) Option {
	return func(d *Dispatcher) {
		d.resolver = r
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}
