package clients

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestKeypairSigner_SignTransaction(t *testing.T) {
	t.Parallel()

	wallet := solana.NewWallet()
	signer := NewKeypairSigner(wallet.PrivateKey)
	require.Equal(t, wallet.PublicKey(), signer.PublicKey())

	ix := solana.NewInstruction(
		solana.MemoProgramID,
		solana.AccountMetaSlice{solana.NewAccountMeta(wallet.PublicKey(), true, true)},
		[]byte("hello"),
	)
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{1}, solana.TransactionPayer(wallet.PublicKey()))
	require.NoError(t, err)

	signed, err := signer.SignTransaction(context.Background(), tx)
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 1)
	require.NoError(t, signed.VerifySignatures())
}

func TestKeypairSigner_WrongPayer(t *testing.T) {
	t.Parallel()

	signer := NewKeypairSigner(solana.NewWallet().PrivateKey)
	other := solana.NewWallet().PublicKey()

	ix := solana.NewInstruction(
		solana.MemoProgramID,
		solana.AccountMetaSlice{solana.NewAccountMeta(other, true, true)},
		nil,
	)
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{1}, solana.TransactionPayer(other))
	require.NoError(t, err)

	_, err = signer.SignTransaction(context.Background(), tx)
	require.Error(t, err)
}

func TestKeypairSigner_FromBase58(t *testing.T) {
	t.Parallel()

	wallet := solana.NewWallet()
	signer, err := NewKeypairSignerFromBase58(wallet.PrivateKey.String())
	require.NoError(t, err)
	require.Equal(t, wallet.PublicKey(), signer.PublicKey())

	_, err = NewKeypairSignerFromBase58("bogus")
	require.Error(t, err)
}
