package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/vitwit/splitpay/clients/clientstest"
	"github.com/vitwit/splitpay/derive"
	"github.com/vitwit/splitpay/types"
)

var testMint = solana.MustPublicKeyFromBase58(types.USDCMintDevnet)

func destination(t *testing.T, label string) Destination {
	t.Helper()
	owner := solana.NewWallet().PublicKey()
	ata, err := derive.TokenAccount(testMint, owner, false)
	require.NoError(t, err)
	return Destination{Label: label, Owner: owner, TokenAccount: ata}
}

func TestProvision(t *testing.T) {
	t.Parallel()

	merchant := destination(t, "merchant")
	tax := destination(t, "tax receiver")
	rewards := destination(t, "rewards")
	payer := solana.NewWallet().PublicKey()

	cases := []struct {
		name     string
		existing []Destination
		want     []Destination
	}{
		{name: "all exist", existing: []Destination{merchant, tax, rewards}},
		{name: "none exist", want: []Destination{merchant, tax, rewards}},
		{name: "tax missing", existing: []Destination{merchant, rewards}, want: []Destination{tax}},
		{name: "merchant and rewards missing", existing: []Destination{tax}, want: []Destination{merchant, rewards}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ledger := clientstest.NewLedger()
			for _, d := range tc.existing {
				ledger.AddAccount(d.TokenAccount)
			}

			p := NewProvisioner(ledger, nil)
			ixs, err := p.Provision(context.Background(), payer, testMint, []Destination{merchant, tax, rewards})
			require.NoError(t, err)
			require.Len(t, ixs, len(tc.want))

			for i, d := range tc.want {
				ix := ixs[i]
				require.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())
				accounts := ix.Accounts()
				require.Equal(t, payer, accounts[0].PublicKey)
				require.True(t, accounts[0].IsSigner)
				require.Equal(t, d.TokenAccount, accounts[1].PublicKey)
				require.Equal(t, d.Owner, accounts[2].PublicKey)
				require.Equal(t, testMint, accounts[3].PublicKey)
			}

			require.Equal(t, []solana.PublicKey{merchant.TokenAccount, tax.TokenAccount, rewards.TokenAccount}, ledger.AccountReads)
		})
	}
}

func TestProvision_SharedDestination(t *testing.T) {
	t.Parallel()

	merchant := destination(t, "merchant")
	rewards := merchant
	rewards.Label = "rewards"

	ledger := clientstest.NewLedger()
	p := NewProvisioner(ledger, nil)

	ixs, err := p.Provision(context.Background(), solana.NewWallet().PublicKey(), testMint, []Destination{merchant, rewards})
	require.NoError(t, err)
	require.Len(t, ixs, 1)
	require.Len(t, ledger.AccountReads, 1)
}

func TestProvision_LookupError(t *testing.T) {
	t.Parallel()

	merchant := destination(t, "merchant")
	tax := destination(t, "tax receiver")

	ledger := clientstest.NewLedger()
	ledger.FailAccount(merchant.TokenAccount, errors.New("connection reset by peer"))

	p := NewProvisioner(ledger, nil)
	ixs, err := p.Provision(context.Background(), solana.NewWallet().PublicKey(), testMint, []Destination{merchant, tax})
	require.Nil(t, ixs)
	require.True(t, types.IsCode(err, types.ErrAccountLookup))
	require.Len(t, ledger.AccountReads, 1)
}

func TestRequireProgram(t *testing.T) {
	t.Parallel()

	program := solana.NewWallet().PublicKey()
	plain := solana.NewWallet().PublicKey()
	broken := solana.NewWallet().PublicKey()

	ledger := clientstest.NewLedger()
	ledger.AddProgram(program)
	ledger.AddAccount(plain)
	ledger.FailAccount(broken, errors.New("rpc unavailable"))

	p := NewProvisioner(ledger, nil)
	ctx := context.Background()

	require.NoError(t, p.RequireProgram(ctx, program))
	require.True(t, types.IsCode(p.RequireProgram(ctx, plain), types.ErrProgramNotFound))
	require.True(t, types.IsCode(p.RequireProgram(ctx, solana.NewWallet().PublicKey()), types.ErrProgramNotFound))
	require.True(t, types.IsCode(p.RequireProgram(ctx, broken), types.ErrAccountLookup))
}
