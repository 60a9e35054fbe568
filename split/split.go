// Package split divides a gross payment into the merchant, buy-back, tax and
// rewards shares using integer basis-point arithmetic.
package split

import (
	"github.com/holiman/uint256"
	"github.com/vitwit/splitpay/types"
)

// BasisPointsDenominator is 100% expressed in basis points.
const BasisPointsDenominator = 10_000

// Split computes the shares of gross under cfg:
//
//	tax       = floor(gross * taxBps / 10000)
//	remaining = gross - tax
//	merchant  = floor(remaining * returnShareBps / 10000)
//	buyBack   = 0
//	rewards   = remaining - merchant - buyBack
//
// Rewards absorbs every rounding remainder, so the shares always sum to gross.
func Split(gross uint64, cfg *types.DistributionConfig) (types.SplitAmounts, error) {
	if gross == 0 {
		return types.SplitAmounts{}, types.Errorf(types.ErrInvalidAmount, "amount must be greater than zero")
	}
	if cfg == nil {
		return types.SplitAmounts{}, types.Errorf(types.ErrDistributionLookup, "distribution config is nil")
	}
	if cfg.TaxPercentageBps > BasisPointsDenominator {
		return types.SplitAmounts{}, types.Errorf(types.ErrInvalidAmount, "tax percentage %d exceeds %d bps", cfg.TaxPercentageBps, BasisPointsDenominator)
	}
	if cfg.ReturnShareBps > BasisPointsDenominator {
		return types.SplitAmounts{}, types.Errorf(types.ErrInvalidAmount, "return share %d exceeds %d bps", cfg.ReturnShareBps, BasisPointsDenominator)
	}

	total := uint256.NewInt(gross)

	tax := shareOf(total, cfg.TaxPercentageBps)
	remaining := new(uint256.Int).Sub(total, tax)
	merchant := shareOf(remaining, cfg.ReturnShareBps)

	// Buy-back is reserved and currently always zero.
	buyBack := uint256.NewInt(0)

	rewards := new(uint256.Int).Sub(remaining, merchant)
	rewards.Sub(rewards, buyBack)

	for _, v := range []*uint256.Int{merchant, buyBack, tax, rewards} {
		if !v.IsUint64() {
			return types.SplitAmounts{}, types.Errorf(types.ErrEncoding, "share %s exceeds 64-bit range", v.Dec())
		}
	}

	return types.SplitAmounts{
		Merchant:    merchant.Uint64(),
		BuyBack:     buyBack.Uint64(),
		TaxReceiver: tax.Uint64(),
		Rewards:     rewards.Uint64(),
	}, nil
}

func shareOf(amount *uint256.Int, bps uint16) *uint256.Int {
	out := new(uint256.Int).Mul(amount, uint256.NewInt(uint64(bps)))
	return out.Div(out, uint256.NewInt(BasisPointsDenominator))
}
