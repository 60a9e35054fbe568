package clients

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/vitwit/splitpay/types"
)

var (
	// ErrAccountNotFound is returned by a Ledger when an account does not
	// exist. It is an expected outcome and drives account provisioning.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUserRejected is returned by a Signer when the wallet holder declines
	// to sign.
	ErrUserRejected = errors.New("user rejected the request")
)

// Ledger is the subset of the Solana RPC API a dispatch needs.
type Ledger interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.Account, error)

	// GetSignatureStatus returns nil, nil while the cluster has not seen sig.
	GetSignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error)
	SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error)
}

// Signer is the wallet capability. Implementations sign tx in place or
// return a signed copy.
type Signer interface {
	PublicKey() solana.PublicKey
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// DistributionResolver returns the fee configuration of a project.
type DistributionResolver interface {
	GetDistribution(ctx context.Context, projectID string) (*types.DistributionConfig, error)
}
