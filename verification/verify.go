// Package verification inspects an assembled dispatch transaction before it
// is handed to the wallet.
package verification

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/vitwit/splitpay/instruction"
	"github.com/vitwit/splitpay/provision"
	"github.com/vitwit/splitpay/types"
)

// Expectation is what the orchestrator intended to build.
type Expectation struct {
	FeePayer  solana.PublicKey
	ProgramID solana.PublicKey
	Gross     uint64
}

// Result summarises a transaction that passed preflight.
type Result struct {
	Provisioning int
	Amounts      instruction.DispatchAmounts
}

// VerifyDispatchTransaction checks that tx is paid by the expected user, only
// creates token accounts before the dispatch, ends with exactly one dispatch
// instruction to the expected program, and that the encoded shares add up to
// the gross amount.
func VerifyDispatchTransaction(tx *solana.Transaction, want Expectation) (*Result, error) {
	if tx == nil {
		return nil, preflight("transaction is nil")
	}

	msg := tx.Message
	if len(msg.AccountKeys) == 0 {
		return nil, preflight("transaction has no accounts")
	}
	if !msg.AccountKeys[0].Equals(want.FeePayer) {
		return nil, preflight("fee payer %s, want %s", msg.AccountKeys[0], want.FeePayer)
	}
	if msg.RecentBlockhash == (solana.Hash{}) {
		return nil, preflight("transaction has no recent blockhash")
	}

	n := len(msg.Instructions)
	if n == 0 {
		return nil, preflight("transaction has no instructions")
	}
	if n-1 > provision.MaxInstructions {
		return nil, preflight("transaction has %d instructions, max %d", n, provision.MaxInstructions+1)
	}

	for i, inst := range msg.Instructions[:n-1] {
		prog, err := programOf(msg, inst)
		if err != nil {
			return nil, err
		}
		if !prog.Equals(solana.SPLAssociatedTokenAccountProgramID) {
			return nil, preflight("instruction %d targets %s, only account creation may precede the dispatch", i, prog)
		}
	}

	last := msg.Instructions[n-1]
	prog, err := programOf(msg, last)
	if err != nil {
		return nil, err
	}
	if !prog.Equals(want.ProgramID) {
		return nil, preflight("dispatch targets %s, want %s", prog, want.ProgramID)
	}

	amounts, err := instruction.DecodeDispatchData(last.Data)
	if err != nil {
		return nil, types.NewError(types.ErrPreflightFailed, "invalid dispatch data", err)
	}

	total, err := checkedSum(amounts)
	if err != nil {
		return nil, err
	}
	if total != want.Gross {
		return nil, preflight("dispatch shares sum to %d, want %d", total, want.Gross)
	}

	if len(last.Accounts) == 0 || !msg.AccountKeys[last.Accounts[0]].Equals(want.FeePayer) {
		return nil, preflight("dispatch authority is not the fee payer")
	}
	if !msg.IsSigner(want.FeePayer) {
		return nil, preflight("fee payer is not a signer")
	}

	return &Result{Provisioning: n - 1, Amounts: amounts}, nil
}

func programOf(msg solana.Message, inst solana.CompiledInstruction) (solana.PublicKey, error) {
	if int(inst.ProgramIDIndex) >= len(msg.AccountKeys) {
		return solana.PublicKey{}, preflight("program index %d out of range", inst.ProgramIDIndex)
	}
	for _, idx := range inst.Accounts {
		if int(idx) >= len(msg.AccountKeys) {
			return solana.PublicKey{}, preflight("account index %d out of range", idx)
		}
	}
	return msg.AccountKeys[inst.ProgramIDIndex], nil
}

func checkedSum(a instruction.DispatchAmounts) (uint64, error) {
	var total uint64
	for _, v := range []uint64{a.Merchant, a.BuyBack, a.TaxReceiver, a.Rewards} {
		if total+v < total {
			return 0, preflight("dispatch shares overflow")
		}
		total += v
	}
	return total, nil
}

func preflight(format string, args ...any) error {
	return types.Errorf(types.ErrPreflightFailed, "%s", fmt.Sprintf(format, args...))
}
