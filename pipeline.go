package splitpay

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/vitwit/splitpay/derive"
	"github.com/vitwit/splitpay/instruction"
	"github.com/vitwit/splitpay/lifecycle"
	"github.com/vitwit/splitpay/metrics"
	"github.com/vitwit/splitpay/provision"
	"github.com/vitwit/splitpay/split"
	"github.com/vitwit/splitpay/types"
	"github.com/vitwit/splitpay/verification"
)

// variant holds everything that differs between the two dispatch programs.
type variant struct {
	kind                  types.Variant
	programID             solana.PublicKey
	withUserInfo          bool
	requireRewardsProgram bool
	build                 func(programID solana.PublicKey, amounts instruction.DispatchAmounts, a *dispatchAccounts) (solana.Instruction, error)
}

// dispatchAccounts are the addresses a dispatch instruction references.
type dispatchAccounts struct {
	user          solana.PublicKey
	userToken     solana.PublicKey
	merchantToken solana.PublicKey
	taxToken      solana.PublicKey
	rewardsToken  solana.PublicKey
	buyBackToken  solana.PublicKey
	stake         *derive.StakeRewardsAccounts
}

func (d *Dispatcher) whitelist() variant {
	return variant{
		kind:                  types.VariantWhitelist,
		programID:             d.dispatchInnerProgram,
		requireRewardsProgram: true,
		build: func(programID solana.PublicKey, amounts instruction.DispatchAmounts, a *dispatchAccounts) (solana.Instruction, error) {
			return instruction.NewDispatchUsdcInner(programID, amounts, &instruction.DispatchUsdcInnerAccounts{
				User:                    a.user,
				UserUsdcAccount:         a.userToken,
				MerchantUsdcAccount:     a.merchantToken,
				TaxReceiverTokenAccount: a.taxToken,
				RewardsUsdcAccount:      a.rewardsToken,
				BuyBackTokenAccount:     a.buyBackToken,
				StakeRewardsState:       a.stake.State,
				VaultAuthority:          a.stake.VaultAuthority,
				StakeRewardsProgram:     a.stake.Program,
			})
		},
	}
}

func (d *Dispatcher) nonWhitelist() variant {
	return variant{
		kind:         types.VariantNonWhitelist,
		programID:    d.dispatchProgram,
		withUserInfo: true,
		build: func(programID solana.PublicKey, amounts instruction.DispatchAmounts, a *dispatchAccounts) (solana.Instruction, error) {
			if a.stake.UserInfo == nil {
				return nil, types.Errorf(types.ErrInvalidAddressInput, "user info account was not derived")
			}
			return instruction.NewDispatchUsdc(programID, amounts, &instruction.DispatchUsdcAccounts{
				User:                    a.user,
				UserUsdcAccount:         a.userToken,
				MerchantUsdcAccount:     a.merchantToken,
				TaxReceiverTokenAccount: a.taxToken,
				RewardsUsdcAccount:      a.rewardsToken,
				BuyBackTokenAccount:     a.buyBackToken,
				StakeRewardsState:       a.stake.State,
				VaultAuthority:          a.stake.VaultAuthority,
				UserInfo:                *a.stake.UserInfo,
				StakeRewardsProgram:     a.stake.Program,
			})
		},
	}
}

// dispatch runs one payment end to end. Failures up to and including
// submission are returned; the confirmation outcome is only reported
// through the callbacks.
func (d *Dispatcher) dispatch(ctx context.Context, v variant, req DispatchRequest) *types.DispatchResult {
	tracker := lifecycle.NewTracker(req.Callbacks)
	labels := map[string]string{"variant": v.kind.String()}
	start := d.clock.Now()

	_ = tracker.Start(StartMessage)
	d.metrics.IncCounter(metrics.EventDispatchStarted, labels)

	sig, err := d.submit(ctx, v, req)
	if err != nil {
		d.logger.Error("dispatch failed", map[string]any{
			"variant": v.kind.String(),
			"project": req.ProjectID,
			"code":    types.CodeOf(err),
			"error":   err.Error(),
		})
		d.metrics.IncCounter(metrics.EventDispatchFailed, map[string]string{
			"variant": v.kind.String(),
			"code":    types.CodeOf(err),
		})
		_ = tracker.Fail(err)
		return &types.DispatchResult{Success: false, Error: err.Error()}
	}

	_ = tracker.Update(sig.String(), SubmittedMessage)
	d.metrics.IncCounter(metrics.EventDispatchSubmitted, labels)
	d.metrics.ObserveLatency(metrics.OpDispatch, d.clock.Since(start), labels)

	d.awaitConfirmation(ctx, tracker, sig, labels)

	return &types.DispatchResult{Success: true, Signature: sig.String()}
}

func (d *Dispatcher) awaitConfirmation(ctx context.Context, tracker *lifecycle.Tracker, sig solana.Signature, labels map[string]string) {
	start := d.clock.Now()
	_, err := d.confirmer.Confirm(ctx, sig)
	d.metrics.ObserveLatency(metrics.OpConfirm, d.clock.Since(start), labels)

	if err != nil {
		d.metrics.IncCounter(metrics.EventConfirmFailed, map[string]string{
			"variant": labels["variant"],
			"code":    types.CodeOf(err),
		})
		_ = tracker.Fail(err)
		return
	}

	d.metrics.IncCounter(metrics.EventConfirmed, labels)
	_ = tracker.Complete()
}

// submit resolves, splits, derives, provisions, builds, assembles, checks
// and finally signs and sends the transaction.
func (d *Dispatcher) submit(ctx context.Context, v variant, req DispatchRequest) (solana.Signature, error) {
	user := req.User
	if user.IsZero() && d.signer != nil {
		user = d.signer.PublicKey()
	}
	if user.IsZero() {
		return solana.Signature{}, types.Errorf(types.ErrInvalidAddressInput, "user address is required")
	}
	if d.signer != nil && !d.signer.PublicKey().Equals(user) {
		return solana.Signature{}, types.Errorf(types.ErrSigning, "wallet %s cannot sign for %s", d.signer.PublicKey(), user)
	}
	if req.Amount == 0 {
		return solana.Signature{}, types.Errorf(types.ErrInvalidAmount, "amount must be greater than zero")
	}

	prepCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		prepCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	tx, created, err := d.prepare(prepCtx, v, user, req)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := d.submitter.SignAndSubmit(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}
	for i := 0; i < created; i++ {
		d.metrics.IncCounter(metrics.EventAccountCreated, map[string]string{"variant": v.kind.String()})
	}
	return sig, nil
}

// prepare returns the unsigned transaction and the number of token accounts
// it creates.
func (d *Dispatcher) prepare(ctx context.Context, v variant, user solana.PublicKey, req DispatchRequest) (*solana.Transaction, int, error) {
	dist, err := d.resolver.GetDistribution(ctx, req.ProjectID)
	if err != nil {
		if types.CodeOf(err) == "" {
			err = types.NewError(types.ErrDistributionLookup, "failed to fetch distribution info", err)
		}
		return nil, 0, err
	}
	if !dist.HasRewards() {
		return nil, 0, types.Errorf(types.ErrDistributionLookup, "project %s has no rewards contract", req.ProjectID)
	}

	shares, err := split.Split(req.Amount, dist)
	if err != nil {
		return nil, 0, err
	}

	accounts, err := d.deriveAccounts(v, user, dist)
	if err != nil {
		return nil, 0, err
	}

	if v.requireRewardsProgram {
		if err := d.provisioner.RequireProgram(ctx, *dist.RewardsContract); err != nil {
			return nil, 0, err
		}
	}

	provisioning, err := d.provisioner.Provision(ctx, user, d.mint, []provision.Destination{
		{Label: "merchant", Owner: dist.ReturnAddress, TokenAccount: accounts.merchantToken},
		{Label: "tax receiver", Owner: dist.TaxReceiver, TokenAccount: accounts.taxToken},
		{Label: "rewards", Owner: accounts.stake.VaultAuthority, TokenAccount: accounts.rewardsToken},
	})
	if err != nil {
		return nil, 0, err
	}

	ix, err := v.build(v.programID, instruction.NewDispatchAmounts(shares), accounts)
	if err != nil {
		return nil, 0, err
	}

	tx, err := d.submitter.Assemble(ctx, user, provisioning, ix)
	if err != nil {
		return nil, 0, err
	}

	if _, err := verification.VerifyDispatchTransaction(tx, verification.Expectation{
		FeePayer:  user,
		ProgramID: v.programID,
		Gross:     req.Amount,
	}); err != nil {
		return nil, 0, err
	}

	d.logger.Info("dispatch prepared", map[string]any{
		"variant":      v.kind.String(),
		"project":      req.ProjectID,
		"user":         user.String(),
		"amount":       req.Amount,
		"merchant":     shares.Merchant,
		"taxReceiver":  shares.TaxReceiver,
		"rewards":      shares.Rewards,
		"provisioning": len(provisioning),
	})

	return tx, len(provisioning), nil
}

// deriveAccounts computes every address of the dispatch. dist must carry a
// rewards contract.
func (d *Dispatcher) deriveAccounts(v variant, user solana.PublicKey, dist *types.DistributionConfig) (*dispatchAccounts, error) {
	userToken, err := derive.TokenAccount(d.mint, user, false)
	if err != nil {
		return nil, err
	}
	merchantToken, err := derive.TokenAccount(d.mint, dist.ReturnAddress, false)
	if err != nil {
		return nil, err
	}
	taxToken, err := derive.TokenAccount(d.mint, dist.TaxReceiver, false)
	if err != nil {
		return nil, err
	}

	stake, err := derive.StakeRewards(*dist.RewardsContract, user, v.withUserInfo)
	if err != nil {
		return nil, err
	}

	// The vault authority is a program address, so its token account is
	// derived for an off-curve owner.
	rewardsToken, err := derive.TokenAccount(d.mint, stake.VaultAuthority, true)
	if err != nil {
		return nil, err
	}

	return &dispatchAccounts{
		user:          user,
		userToken:     userToken,
		merchantToken: merchantToken,
		taxToken:      taxToken,
		rewardsToken:  rewardsToken,
		buyBackToken:  merchantToken,
		stake:         stake,
	}, nil
}
