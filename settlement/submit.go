// Package settlement assembles, signs and submits dispatch transactions and
// observes their confirmation.
package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/vitwit/splitpay/clients"
	"github.com/vitwit/splitpay/logger"
	"github.com/vitwit/splitpay/provision"
	"github.com/vitwit/splitpay/types"
)

// Submitter turns instructions into a signed transaction on the ledger.
type Submitter struct {
	ledger clients.Ledger
	signer clients.Signer
	logger logger.Logger
}

func NewSubmitter(ledger clients.Ledger, signer clients.Signer, log logger.Logger) *Submitter {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Submitter{ledger: ledger, signer: signer, logger: log}
}

// Assemble builds an unsigned transaction paid by payer: the provisioning
// instructions in order, then the single dispatch instruction, anchored to a
// freshly fetched blockhash.
func (s *Submitter) Assemble(
	ctx context.Context,
	payer solana.PublicKey,
	provisioning []solana.Instruction,
	dispatch solana.Instruction,
) (*solana.Transaction, error) {
	if dispatch == nil {
		return nil, types.Errorf(types.ErrEncoding, "dispatch instruction is required")
	}
	if len(provisioning) > provision.MaxInstructions {
		return nil, types.Errorf(types.ErrEncoding, "%d provisioning instructions, max %d", len(provisioning), provision.MaxInstructions)
	}

	blockhash, err := s.ledger.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, types.NewError(types.ErrSubmission, "failed to fetch recent blockhash", err)
	}

	ixs := make([]solana.Instruction, 0, len(provisioning)+1)
	ixs = append(ixs, provisioning...)
	ixs = append(ixs, dispatch)

	tx, err := solana.NewTransaction(ixs, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, types.NewError(types.ErrEncoding, "failed to build transaction", err)
	}

	s.logger.Debug("transaction assembled", map[string]any{
		"payer":        payer.String(),
		"instructions": len(ixs),
		"blockhash":    blockhash.String(),
	})

	return tx, nil
}

// SignAndSubmit asks the wallet to sign tx and sends the serialised result.
func (s *Submitter) SignAndSubmit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if s.signer == nil {
		return solana.Signature{}, types.Errorf(types.ErrSigning, "no wallet connected")
	}

	signed, err := s.signer.SignTransaction(ctx, tx)
	if errors.Is(err, clients.ErrUserRejected) {
		return solana.Signature{}, types.NewError(types.ErrUserRejected, "user rejected the transaction", err)
	}
	if err != nil {
		return solana.Signature{}, types.NewError(types.ErrSigning, "failed to sign transaction", err)
	}
	if signed == nil {
		return solana.Signature{}, types.Errorf(types.ErrSigning, "wallet returned no transaction")
	}
	if err := signed.VerifySignatures(); err != nil {
		return solana.Signature{}, types.NewError(types.ErrSigning, "invalid transaction signature", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return solana.Signature{}, types.NewError(types.ErrEncoding, "failed to serialise transaction", err)
	}

	sig, err := s.ledger.SendRawTransaction(ctx, raw)
	if err != nil {
		if pe := clients.ParseProgramError(err); pe != nil {
			return solana.Signature{}, types.NewError(types.ErrSubmission, fmt.Sprintf("transaction rejected: %s", pe.Name), fmt.Errorf("%w: %s", err, pe.Message))
		}
		return solana.Signature{}, types.NewError(types.ErrSubmission, "failed to submit transaction", err)
	}

	s.logger.Info("transaction submitted", map[string]any{
		"signature": sig.String(),
		"size":      len(raw),
	})

	return sig, nil
}
