// Package provision decides which destination token accounts must be
// created before a dispatch can credit them.
package provision

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/vitwit/splitpay/clients"
	"github.com/vitwit/splitpay/logger"
	"github.com/vitwit/splitpay/types"
)

// MaxInstructions is the most create-account instructions a dispatch can
// need: one each for the merchant, tax receiver and rewards accounts.
const MaxInstructions = 3

// Destination is a token account that receives a share of the payment.
type Destination struct {
	Label        string
	Owner        solana.PublicKey
	TokenAccount solana.PublicKey
}

// Provisioner checks destination accounts against the ledger.
type Provisioner struct {
	ledger clients.Ledger
	logger logger.Logger
}

func NewProvisioner(ledger clients.Ledger, log logger.Logger) *Provisioner {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Provisioner{ledger: ledger, logger: log}
}

// Provision returns one create-account instruction, paid by payer, for every
// destination whose token account does not exist yet. Destinations are read
// one at a time and the instructions keep their order. A destination listed
// twice is only created once.
func (p *Provisioner) Provision(
	ctx context.Context,
	payer solana.PublicKey,
	mint solana.PublicKey,
	destinations []Destination,
) ([]solana.Instruction, error) {
	var out []solana.Instruction
	seen := make(map[solana.PublicKey]struct{}, len(destinations))

	for _, d := range destinations {
		if _, dup := seen[d.TokenAccount]; dup {
			continue
		}
		seen[d.TokenAccount] = struct{}{}

		_, err := p.ledger.GetAccountInfo(ctx, d.TokenAccount)
		switch {
		case err == nil:
			p.logger.Debug("token account exists", map[string]any{
				"label":   d.Label,
				"account": d.TokenAccount.String(),
			})
			continue
		case errors.Is(err, clients.ErrAccountNotFound):
		default:
			return nil, types.NewError(types.ErrAccountLookup, "failed to check "+d.Label+" token account", err)
		}

		ix, err := associatedtokenaccount.NewCreateInstruction(payer, d.Owner, mint).ValidateAndBuild()
		if err != nil {
			return nil, types.NewError(types.ErrEncoding, "failed to build create account instruction for "+d.Label, err)
		}

		p.logger.Info("token account will be created", map[string]any{
			"label":   d.Label,
			"owner":   d.Owner.String(),
			"account": d.TokenAccount.String(),
		})
		out = append(out, ix)
	}

	return out, nil
}

// RequireProgram fails with PROGRAM_NOT_FOUND unless program is deployed and
// executable.
func (p *Provisioner) RequireProgram(ctx context.Context, program solana.PublicKey) error {
	acc, err := p.ledger.GetAccountInfo(ctx, program)
	if errors.Is(err, clients.ErrAccountNotFound) {
		return types.Errorf(types.ErrProgramNotFound, "program %s not found", program)
	}
	if err != nil {
		return types.NewError(types.ErrAccountLookup, "failed to check program "+program.String(), err)
	}
	if acc == nil || !acc.Executable {
		return types.Errorf(types.ErrProgramNotFound, "account %s is not an executable program", program)
	}
	return nil
}
