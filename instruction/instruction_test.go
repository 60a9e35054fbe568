package instruction

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/vitwit/splitpay/types"
)

func testAmounts() DispatchAmounts {
	return DispatchAmounts{Merchant: 487_500, BuyBack: 0, TaxReceiver: 25_000, Rewards: 487_500}
}

func randomKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func TestEncodeDispatchData(t *testing.T) {
	t.Parallel()

	data, err := EncodeDispatchData(testAmounts())
	require.NoError(t, err)
	require.Len(t, data, DispatchUsdcDataSize)
	require.Equal(t, DispatchUsdcDiscriminator[:], data[:8])

	// 487500 = 0x0770CC little-endian
	require.Equal(t, []byte{0xCC, 0x70, 0x07, 0, 0, 0, 0, 0}, data[8:16])
	require.Equal(t, make([]byte, 8), data[16:24])

	again, err := EncodeDispatchData(testAmounts())
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestDecodeDispatchData(t *testing.T) {
	t.Parallel()

	want := DispatchAmounts{Merchant: 1, BuyBack: 2, TaxReceiver: 3, Rewards: ^uint64(0)}
	data, err := EncodeDispatchData(want)
	require.NoError(t, err)

	got, err := DecodeDispatchData(data)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, want.SplitAmounts(), NewDispatchAmounts(want.SplitAmounts()).SplitAmounts())

	_, err = DecodeDispatchData(data[:39])
	require.True(t, types.IsCode(err, types.ErrEncoding))

	bad := append([]byte(nil), data...)
	bad[0] ^= 0xFF
	_, err = DecodeDispatchData(bad)
	require.True(t, types.IsCode(err, types.ErrEncoding))
}

func TestNewDispatchUsdc(t *testing.T) {
	t.Parallel()

	accounts := &DispatchUsdcAccounts{
		User:                    randomKey(),
		UserUsdcAccount:         randomKey(),
		MerchantUsdcAccount:     randomKey(),
		TaxReceiverTokenAccount: randomKey(),
		RewardsUsdcAccount:      randomKey(),
		BuyBackTokenAccount:     randomKey(),
		StakeRewardsState:       randomKey(),
		VaultAuthority:          randomKey(),
		UserInfo:                randomKey(),
		StakeRewardsProgram:     randomKey(),
	}

	ix, err := NewDispatchUsdc(DispatchProgramID, testAmounts(), accounts)
	require.NoError(t, err)
	require.Equal(t, DispatchProgramID, ix.ProgramID())

	metas := ix.Accounts()
	require.Len(t, metas, DispatchUsdcAccountsCount)

	wantOrder := []solana.PublicKey{
		accounts.User,
		accounts.UserUsdcAccount,
		accounts.MerchantUsdcAccount,
		accounts.TaxReceiverTokenAccount,
		accounts.RewardsUsdcAccount,
		accounts.BuyBackTokenAccount,
		solana.TokenProgramID,
		accounts.StakeRewardsState,
		accounts.VaultAuthority,
		accounts.UserInfo,
		solana.SystemProgramID,
		solana.SPLAssociatedTokenAccountProgramID,
		accounts.StakeRewardsProgram,
	}
	for i, want := range wantOrder {
		require.Equal(t, want, metas[i].PublicKey, "account %d", i)
	}

	require.True(t, metas[0].IsSigner)
	require.True(t, metas[0].IsWritable)
	for i, m := range metas[1:] {
		require.False(t, m.IsSigner, "account %d", i+1)
	}
	require.False(t, metas[6].IsWritable)
	require.False(t, metas[10].IsWritable)
	require.False(t, metas[11].IsWritable)
	require.False(t, metas[12].IsWritable)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, DispatchUsdcDataSize)
}

func TestNewDispatchUsdc_RequiresUserInfo(t *testing.T) {
	t.Parallel()

	_, err := NewDispatchUsdc(DispatchProgramID, testAmounts(), &DispatchUsdcAccounts{User: randomKey()})
	require.True(t, types.IsCode(err, types.ErrInvalidAddressInput))

	_, err = NewDispatchUsdc(DispatchProgramID, testAmounts(), nil)
	require.Error(t, err)
}

func TestNewDispatchUsdcInner(t *testing.T) {
	t.Parallel()

	accounts := &DispatchUsdcInnerAccounts{
		User:                    randomKey(),
		UserUsdcAccount:         randomKey(),
		MerchantUsdcAccount:     randomKey(),
		TaxReceiverTokenAccount: randomKey(),
		RewardsUsdcAccount:      randomKey(),
		BuyBackTokenAccount:     randomKey(),
		StakeRewardsState:       randomKey(),
		VaultAuthority:          randomKey(),
		StakeRewardsProgram:     randomKey(),
	}

	ix, err := NewDispatchUsdcInner(DispatchInnerProgramID, testAmounts(), accounts)
	require.NoError(t, err)
	require.Equal(t, DispatchInnerProgramID, ix.ProgramID())

	metas := ix.Accounts()
	require.Len(t, metas, DispatchUsdcInnerAccountsCount)
	require.Equal(t, accounts.User, metas[0].PublicKey)
	require.True(t, metas[0].IsSigner)
	require.Equal(t, solana.TokenProgramID, metas[6].PublicKey)
	require.Equal(t, accounts.VaultAuthority, metas[8].PublicKey)
	require.Equal(t, solana.SPLAssociatedTokenAccountProgramID, metas[9].PublicKey)
	require.Equal(t, accounts.StakeRewardsProgram, metas[10].PublicKey)

	for _, m := range metas {
		require.NotEqual(t, solana.SystemProgramID, m.PublicKey)
	}

	inner, err := ix.Data()
	require.NoError(t, err)

	outer, err := EncodeDispatchData(testAmounts())
	require.NoError(t, err)
	require.Equal(t, outer, inner)
}
