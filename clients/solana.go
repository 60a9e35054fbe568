package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/vitwit/splitpay/types"
)

// SolanaClient is a Ledger backed by a JSON-RPC node.
type SolanaClient struct {
	network    types.Network
	rpcURL     string
	commitment rpc.CommitmentType
	client     *rpc.Client
}

var _ Ledger = (*SolanaClient)(nil)

// NewSolanaClient creates a Solana client reading at commitment.
func NewSolanaClient(network types.Network, rpcURL string, commitment rpc.CommitmentType) (*SolanaClient, error) {
	if !network.IsSolana() {
		return nil, types.Errorf(types.ErrUnsupportedNetwork, "network %s is not a Solana network", network)
	}
	if rpcURL == "" {
		return nil, types.Errorf(types.ErrConfigError, "rpc url is required")
	}
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}

	return &SolanaClient{
		network:    network,
		rpcURL:     rpcURL,
		commitment: commitment,
		client:     rpc.New(rpcURL),
	}, nil
}

func (c *SolanaClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.client.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, errors.New("get latest blockhash: empty response")
	}
	return out.Value.Blockhash, nil
}

func (c *SolanaClient) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.Account, error) {
	out, err := c.client.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account info %s: %w", account, err)
	}
	if out == nil || out.Value == nil {
		return nil, ErrAccountNotFound
	}
	return out.Value, nil
}

func (c *SolanaClient) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	out, err := c.client.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		return nil, fmt.Errorf("get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

func (c *SolanaClient) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	return c.client.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
}

func (c *SolanaClient) GetNetwork() types.Network { return c.network }

func (c *SolanaClient) Close() {
	_ = c.client.Close()
}
