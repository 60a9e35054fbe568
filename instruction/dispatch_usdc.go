package instruction

import (
	"github.com/gagliardetto/solana-go"
	"github.com/vitwit/splitpay/types"
)

// DispatchUsdcAccounts are the accounts of dispatch-usdc on the
// non-whitelist dispatch program.
type DispatchUsdcAccounts struct {
	User                    solana.PublicKey
	UserUsdcAccount         solana.PublicKey
	MerchantUsdcAccount     solana.PublicKey
	TaxReceiverTokenAccount solana.PublicKey
	RewardsUsdcAccount      solana.PublicKey
	BuyBackTokenAccount     solana.PublicKey
	StakeRewardsState       solana.PublicKey
	VaultAuthority          solana.PublicKey
	UserInfo                solana.PublicKey
	StakeRewardsProgram     solana.PublicKey
}

const DispatchUsdcAccountsCount = 13

// NewDispatchUsdc builds dispatch-usdc for the non-whitelist program, which
// also records the payer in its user-info account.
func NewDispatchUsdc(
	programID solana.PublicKey,
	amounts DispatchAmounts,
	accounts *DispatchUsdcAccounts,
) (solana.Instruction, error) {
	if accounts == nil {
		return nil, types.Errorf(types.ErrEncoding, "dispatch accounts are nil")
	}
	if accounts.UserInfo.IsZero() {
		return nil, types.Errorf(types.ErrInvalidAddressInput, "user info account is required")
	}

	data, err := EncodeDispatchData(amounts)
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accounts.User, true, true),
		solana.NewAccountMeta(accounts.UserUsdcAccount, true, false),
		solana.NewAccountMeta(accounts.MerchantUsdcAccount, true, false),
		solana.NewAccountMeta(accounts.TaxReceiverTokenAccount, true, false),
		solana.NewAccountMeta(accounts.RewardsUsdcAccount, true, false),
		solana.NewAccountMeta(accounts.BuyBackTokenAccount, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(accounts.StakeRewardsState, true, false),
		solana.NewAccountMeta(accounts.VaultAuthority, true, false),
		solana.NewAccountMeta(accounts.UserInfo, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(accounts.StakeRewardsProgram, false, false),
	}

	return solana.NewInstruction(programID, metas, data), nil
}
