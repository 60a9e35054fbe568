package types

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Network represents supported blockchain networks
type Network string

const (
	NetworkSolanaMainnet  Network = "solana-mainnet"
	NetworkSolanaDevnet   Network = "solana-devnet" // testnet
	NetworkSolanaLocalnet Network = "solana-localnet"
)

// Variant selects which on-chain dispatch program receives the payment.
type Variant string

const (
	// VariantWhitelist routes through the inner dispatch program and does not
	// keep a per-user record.
	VariantWhitelist Variant = "whitelist"

	// VariantNonWhitelist routes through the outer dispatch program, which
	// tracks each payer in a user-info account.
	VariantNonWhitelist Variant = "non-whitelist"
)

func (v Variant) String() string {
	return string(v)
}

// DistributionInfo is the wire shape returned by the distribution service.
// Percentages are expressed in basis points.
type DistributionInfo struct {
	TaxPercentage   *int64 `json:"tax_percentage" validate:"required,min=0,max=10000"`
	ReturnShare     *int64 `json:"return_share" validate:"required,min=0,max=10000"`
	ReturnAddress   string `json:"return_address" validate:"required,solana_address"`
	TaxReceiver     string `json:"tax_receiver" validate:"required,solana_address"`
	RewardsContract string `json:"rewards_contract,omitempty" validate:"omitempty,solana_address"`
}

// DistributionConfig is the validated fee configuration of a project.
type DistributionConfig struct {
	TaxPercentageBps uint16
	ReturnShareBps   uint16
	ReturnAddress    solana.PublicKey
	TaxReceiver      solana.PublicKey

	// RewardsContract is nil when the project declares none. Such a project
	// cannot be dispatched.
	RewardsContract *solana.PublicKey
}

// HasRewards reports whether the project declares a rewards contract.
func (c *DistributionConfig) HasRewards() bool {
	return c != nil && c.RewardsContract != nil
}

// SplitAmounts holds the per-party shares of a gross payment, in the
// token's smallest unit.
type SplitAmounts struct {
	Merchant    uint64 `json:"merchant"`
	BuyBack     uint64 `json:"buyBack"`
	TaxReceiver uint64 `json:"taxReceiver"`
	Rewards     uint64 `json:"rewards"`
}

// Total returns the sum of all shares. Callers must only use it on amounts
// produced by the splitter, which never overflow.
func (a SplitAmounts) Total() uint64 {
	return a.Merchant + a.BuyBack + a.TaxReceiver + a.Rewards
}

// DispatchResult is what a dispatch call returns to its caller. Confirmation
// outcomes are reported through lifecycle callbacks only.
type DispatchResult struct {
	Success   bool   `json:"success"`
	Signature string `json:"signature,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Config contains global configuration for the dispatcher
type Config struct {
	Network         Network `json:"network" validate:"required,oneof=solana-mainnet solana-devnet solana-localnet"`
	RPCUrl          string  `json:"rpcUrl" validate:"required,url"`
	DistributionURL string  `json:"distributionUrl" validate:"required,url"`

	// TokenMint is the SPL mint of the payment token (USDC).
	TokenMint string `json:"tokenMint" validate:"required,solana_address"`

	// TokenDecimals is nil until defaulted, so a zero-decimal mint can be
	// configured explicitly.
	TokenDecimals *int32 `json:"tokenDecimals,omitempty" validate:"omitempty,min=0,max=18"`

	DispatchProgramID      string `json:"dispatchProgramId,omitempty" validate:"omitempty,solana_address"`
	DispatchInnerProgramID string `json:"dispatchInnerProgramId,omitempty" validate:"omitempty,solana_address"`

	Commitment      rpc.CommitmentType `json:"commitment,omitempty" validate:"omitempty,oneof=processed confirmed finalized"`
	PollInterval    time.Duration      `json:"pollInterval,omitempty" validate:"min=0"`
	MaxPollAttempts int                `json:"maxPollAttempts,omitempty" validate:"min=0"`
	HTTPTimeout     time.Duration      `json:"httpTimeout,omitempty" validate:"min=0"`

	LogLevel      string `json:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
	EnableMetrics bool   `json:"enableMetrics,omitempty"`
}

const (
	DefaultPollInterval    = 2 * time.Second
	DefaultMaxPollAttempts = 30
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultTokenDecimals   = 6
)

// Well-known USDC mints.
const (
	USDCMintMainnet = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDCMintDevnet  = "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"
)

// DefaultConfig returns a configuration for network with the public RPC
// endpoint and a local distribution service.
func DefaultConfig(network Network) *Config {
	cfg := &Config{
		Network:         network,
		DistributionURL: "http://127.0.0.1:8000/api/v1",
		TokenMint:       USDCMintDevnet,
		TokenDecimals:   Int32(DefaultTokenDecimals),
		Commitment:      rpc.CommitmentConfirmed,
		PollInterval:    DefaultPollInterval,
		MaxPollAttempts: DefaultMaxPollAttempts,
		HTTPTimeout:     DefaultHTTPTimeout,
		LogLevel:        "info",
	}

	switch network {
	case NetworkSolanaMainnet:
		cfg.RPCUrl = rpc.MainNetBeta_RPC
		cfg.TokenMint = USDCMintMainnet
	case NetworkSolanaLocalnet:
		cfg.RPCUrl = rpc.LocalNet_RPC
	default:
		cfg.RPCUrl = rpc.DevNet_RPC
	}

	return cfg
}

// ApplyDefaults fills zero-valued tuning fields.
func (c *Config) ApplyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxPollAttempts <= 0 {
		c.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Commitment == "" {
		c.Commitment = rpc.CommitmentConfirmed
	}
	if c.TokenDecimals == nil {
		c.TokenDecimals = Int32(DefaultTokenDecimals)
	}
}

// Decimals returns the configured token decimals, or the USDC default when
// unset.
func (c *Config) Decimals() int32 {
	if c.TokenDecimals == nil {
		return DefaultTokenDecimals
	}
	return *c.TokenDecimals
}

// Int32 returns a pointer to v.
func Int32(v int32) *int32 {
	return &v
}

// Helper functions for network classification
func (n Network) IsSolana() bool {
	return n == NetworkSolanaMainnet || n == NetworkSolanaDevnet || n == NetworkSolanaLocalnet
}

func (n Network) IsTestnet() bool {
	return n == NetworkSolanaDevnet || n == NetworkSolanaLocalnet
}

func (n Network) String() string {
	return string(n)
}
