package instruction

import (
	"github.com/gagliardetto/solana-go"
	"github.com/vitwit/splitpay/types"
)

// DispatchUsdcInnerAccounts are the accounts of dispatch-usdc on the
// whitelist dispatch program. It keeps no per-user record, so there is no
// user-info or system program account.
type DispatchUsdcInnerAccounts struct {
	User                    solana.PublicKey
	UserUsdcAccount         solana.PublicKey
	MerchantUsdcAccount     solana.PublicKey
	TaxReceiverTokenAccount solana.PublicKey
	RewardsUsdcAccount      solana.PublicKey
	BuyBackTokenAccount     solana.PublicKey
	StakeRewardsState       solana.PublicKey
	VaultAuthority          solana.PublicKey
	StakeRewardsProgram     solana.PublicKey
}

const DispatchUsdcInnerAccountsCount = 11

// NewDispatchUsdcInner builds dispatch-usdc for the whitelist program.
func NewDispatchUsdcInner(
	programID solana.PublicKey,
	amounts DispatchAmounts,
	accounts *DispatchUsdcInnerAccounts,
) (solana.Instruction, error) {
	if accounts == nil {
		return nil, types.Errorf(types.ErrEncoding, "dispatch accounts are nil")
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
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(accounts.StakeRewardsProgram, false, false),
	}

	return solana.NewInstruction(programID, metas, data), nil
}
