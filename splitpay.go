// Package splitpay dispatches token payments to the on-chain dispatch
// programs, splitting each payment between the merchant, the tax receiver
// and the project's rewards vault in a single transaction.
package splitpay

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/vitwit/splitpay/clients"
	"github.com/vitwit/splitpay/instruction"
	"github.com/vitwit/splitpay/lifecycle"
	"github.com/vitwit/splitpay/logger"
	"github.com/vitwit/splitpay/metrics"
	"github.com/vitwit/splitpay/provision"
	"github.com/vitwit/splitpay/settlement"
	"github.com/vitwit/splitpay/types"
	"github.com/vitwit/splitpay/utils"
)

const (
	StartMessage     = "Processing transaction..."
	SubmittedMessage = "Transaction submitted, waiting for confirmation..."
)

// Dispatcher is the main entry point. It is safe for concurrent use; each
// dispatch call owns its own lifecycle and poll loop.
type Dispatcher struct {
	config *types.Config
	mint   solana.PublicKey

	dispatchProgram      solana.PublicKey
	dispatchInnerProgram solana.PublicKey

	ledger   clients.Ledger
	resolver clients.DistributionResolver
	signer   clients.Signer

	provisioner *provision.Provisioner
	submitter   *settlement.Submitter
	confirmer   *settlement.Confirmer

	logger  logger.Logger
	metrics metrics.Recorder
	clock   clockwork.Clock
	timeout time.Duration

	closers []func()
}

// DispatchRequest describes one payment.
type DispatchRequest struct {
	// User pays and signs. Defaults to the signer's key when zero.
	User      solana.PublicKey
	ProjectID string

	// Amount is the gross amount in the token's smallest unit.
	Amount    uint64
	Callbacks lifecycle.Callbacks
}

// New creates a Dispatcher for cfg that signs with signer.
func New(cfg *types.Config, signer clients.Signer, opts ...Option) (*Dispatcher, error) {
	if cfg == nil {
		return nil, types.Errorf(types.ErrConfigError, "config is required")
	}

	conf := *cfg
	conf.ApplyDefaults()
	if err := utils.ValidateConfig(&conf); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		config: &conf,
		signer: signer,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		zl, err := logger.NewZapLogger(conf.LogLevel)
		if err != nil {
			return nil, types.NewError(types.ErrConfigError, "failed to build logger", err)
		}
		d.logger = zl
		d.closers = append(d.closers, func() { _ = zl.Sync() })
	}

	if d.metrics == nil {
		d.metrics = metrics.NoopRecorder{}
		if conf.EnableMetrics {
			rec, err := metrics.NewPrometheusRecorder(nil)
			if err != nil {
				return nil, types.NewError(types.ErrConfigError, "failed to register metrics", err)
			}
			d.metrics = rec
		}
	}

	if d.clock == nil {
		d.clock = clockwork.NewRealClock()
	}

	var err error
	if d.mint, err = utils.ParseAddress(conf.TokenMint); err != nil {
		return nil, types.NewError(types.ErrConfigError, "invalid token mint", err)
	}

	d.dispatchProgram = instruction.DispatchProgramID
	if conf.DispatchProgramID != "" {
		if d.dispatchProgram, err = utils.ParseAddress(conf.DispatchProgramID); err != nil {
			return nil, types.NewError(types.ErrConfigError, "invalid dispatch program id", err)
		}
	}

	d.dispatchInnerProgram = instruction.DispatchInnerProgramID
	if conf.DispatchInnerProgramID != "" {
		if d.dispatchInnerProgram, err = utils.ParseAddress(conf.DispatchInnerProgramID); err != nil {
			return nil, types.NewError(types.ErrConfigError, "invalid dispatch inner program id", err)
		}
	}

	if d.ledger == nil {
		client, err := clients.NewSolanaClient(conf.Network, conf.RPCUrl, conf.Commitment)
		if err != nil {
			return nil, fmt.Errorf("failed to create Solana client for %s: %w", conf.Network, err)
		}
		d.ledger = client
		d.closers = append(d.closers, client.Close)
	}

	if d.resolver == nil {
		client, err := clients.NewDistributionClient(conf.DistributionURL, conf.HTTPTimeout, d.logger)
		if err != nil {
			return nil, err
		}
		d.resolver = client
	}

	d.provisioner = provision.NewProvisioner(d.ledger, d.logger)
	d.submitter = settlement.NewSubmitter(d.ledger, d.signer, d.logger)
	d.confirmer = settlement.NewConfirmer(d.ledger,
		settlement.WithClock(d.clock),
		settlement.WithPollInterval(conf.PollInterval),
		settlement.WithMaxAttempts(conf.MaxPollAttempts),
		settlement.WithLogger(d.logger),
	)

	return d, nil
}

// DispatchWhitelist pays through the inner dispatch program. The rewards
// program must be deployed.
func (d *Dispatcher) DispatchWhitelist(ctx context.Context, req DispatchRequest) *types.DispatchResult {
	return d.dispatch(ctx, d.whitelist(), req)
}

// DispatchNonWhitelist pays through the outer dispatch program, which also
// records the payer in the rewards program.
func (d *Dispatcher) DispatchNonWhitelist(ctx context.Context, req DispatchRequest) *types.DispatchResult {
	return d.dispatch(ctx, d.nonWhitelist(), req)
}

// Dispatch routes req to the program of variant.
func (d *Dispatcher) Dispatch(ctx context.Context, variant types.Variant, req DispatchRequest) *types.DispatchResult {
	switch variant {
	case types.VariantWhitelist:
		return d.DispatchWhitelist(ctx, req)
	case types.VariantNonWhitelist:
		return d.DispatchNonWhitelist(ctx, req)
	default:
		err := types.Errorf(types.ErrConfigError, "unknown dispatch variant %q", variant)
		tracker := lifecycle.NewTracker(req.Callbacks)
		_ = tracker.Start(StartMessage)
		_ = tracker.Fail(err)
		return &types.DispatchResult{Success: false, Error: err.Error()}
	}
}

func (d *Dispatcher) Config() types.Config {
	return *d.config
}

// Close releases the connections opened by New.
func (d *Dispatcher) Close() {
	for _, c := range d.closers {
		c()
	}
	d.closers = nil
}

// Version information
const (
	Version = "1.0.0"
)

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	return map[string]interface{}{
		"library_version": Version,
		"supported_networks": []string{
			string(types.NetworkSolanaMainnet),
			string(types.NetworkSolanaDevnet),
			string(types.NetworkSolanaLocalnet),
		},
		"supported_variants": []string{
			types.VariantWhitelist.String(),
			types.VariantNonWhitelist.String(),
		},
		"dispatch_programs": map[string]string{
			types.VariantWhitelist.String():    instruction.DispatchInnerProgramID.String(),
			types.VariantNonWhitelist.String(): instruction.DispatchProgramID.String(),
		},
	}
}
