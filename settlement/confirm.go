package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/jonboulle/clockwork"
	"github.com/vitwit/splitpay/clients"
	"github.com/vitwit/splitpay/logger"
	"github.com/vitwit/splitpay/types"
	"github.com/vitwit/splitpay/utils"
)

// Confirmation is a terminal successful observation of a signature.
type Confirmation struct {
	Signature solana.Signature
	Status    rpc.ConfirmationStatusType
	Slot      uint64
	Attempts  int
}

// Confirmer polls the ledger until a signature is confirmed or the attempt
// budget runs out.
type Confirmer struct {
	ledger      clients.Ledger
	clock       clockwork.Clock
	interval    time.Duration
	maxAttempts int
	logger      logger.Logger
}

type ConfirmerOption func(*Confirmer)

func WithClock(c clockwork.Clock) ConfirmerOption {
	return func(cf *Confirmer) {
		cf.clock = c
	}
}

func WithPollInterval(d time.Duration) ConfirmerOption {
	return func(cf *Confirmer) {
		if d > 0 {
			cf.interval = d
		}
	}
}

func WithMaxAttempts(n int) ConfirmerOption {
	return func(cf *Confirmer) {
		if n > 0 {
			cf.maxAttempts = n
		}
	}
}

func WithLogger(l logger.Logger) ConfirmerOption {
	return func(cf *Confirmer) {
		if l != nil {
			cf.logger = l
		}
	}
}

func NewConfirmer(ledger clients.Ledger, opts ...ConfirmerOption) *Confirmer {
	c := &Confirmer{
		ledger:      ledger,
		clock:       clockwork.NewRealClock(),
		interval:    types.DefaultPollInterval,
		maxAttempts: types.DefaultMaxPollAttempts,
		logger:      logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Confirm queries the status of sig once per interval, at most maxAttempts
// times. A confirmed or finalized status ends the loop successfully. A
// transient query error uses up its attempt; any other query error ends the
// loop with CONFIRMATION_POLL_ERROR.
func (c *Confirmer) Confirm(ctx context.Context, sig solana.Signature) (*Confirmation, error) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		status, err := c.ledger.GetSignatureStatus(ctx, sig)
		switch {
		case err != nil && utils.IsTransient(err):
			c.logger.Warn("signature status query failed, retrying", map[string]any{
				"signature": sig.String(),
				"attempt":   attempt,
				"error":     err.Error(),
			})
		case err != nil:
			return nil, types.NewError(types.ErrConfirmationPoll, "failed to confirm", err)
		case status == nil:
		case status.Err != nil:
			return nil, types.NewError(types.ErrTransactionFailed, "transaction failed", fmt.Errorf("%v", status.Err))
		case status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized:
			c.logger.Info("transaction confirmed", map[string]any{
				"signature": sig.String(),
				"status":    status.ConfirmationStatus,
				"slot":      status.Slot,
				"attempts":  attempt,
			})
			return &Confirmation{
				Signature: sig,
				Status:    status.ConfirmationStatus,
				Slot:      status.Slot,
				Attempts:  attempt,
			}, nil
		}

		if attempt == c.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, types.NewError(types.ErrConfirmationPoll, "failed to confirm", ctx.Err())
		case <-c.clock.After(c.interval):
		}
	}

	c.logger.Warn("confirmation timeout", map[string]any{
		"signature": sig.String(),
		"attempts":  c.maxAttempts,
	})
	return nil, types.Errorf(types.ErrConfirmationTimeout, "confirmation timeout")
}
