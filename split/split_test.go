package split

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitwit/splitpay/types"
)

func cfg(taxBps, returnBps uint16) *types.DistributionConfig {
	return &types.DistributionConfig{TaxPercentageBps: taxBps, ReturnShareBps: returnBps}
}

func TestSplit_ScenarioA(t *testing.T) {
	t.Parallel()

	got, err := Split(1_000_000, cfg(250, 5000))
	require.NoError(t, err)
	require.Equal(t, types.SplitAmounts{
		Merchant:    487_500,
		BuyBack:     0,
		TaxReceiver: 25_000,
		Rewards:     487_500,
	}, got)
}

func TestSplit_MinimumUnit(t *testing.T) {
	t.Parallel()

	got, err := Split(1, cfg(0, 0))
	require.NoError(t, err)
	require.Equal(t, types.SplitAmounts{Rewards: 1}, got)
}

func TestSplit_RewardsAbsorbsRemainder(t *testing.T) {
	t.Parallel()

	// tax = floor(999*333/10000) = 33, remaining = 966,
	// merchant = floor(966*3333/10000) = 321, rewards = 645
	got, err := Split(999, cfg(333, 3333))
	require.NoError(t, err)
	require.Equal(t, uint64(33), got.TaxReceiver)
	require.Equal(t, uint64(321), got.Merchant)
	require.Equal(t, uint64(645), got.Rewards)
	require.Equal(t, uint64(999), got.Total())
}

func TestSplit_SumsToGross(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	grosses := []uint64{1, 2, 3, 7, 10_000, 1_000_000, math.MaxUint64, math.MaxUint64 - 1}
	for i := 0; i < 500; i++ {
		grosses = append(grosses, r.Uint64()|1)
	}

	for _, gross := range grosses {
		taxBps := uint16(r.IntN(10_001))
		returnBps := uint16(r.IntN(10_001))

		got, err := Split(gross, cfg(taxBps, returnBps))
		require.NoError(t, err)

		// Sum without overflow: every share is bounded by gross.
		sum := got.Merchant
		for _, v := range []uint64{got.BuyBack, got.TaxReceiver, got.Rewards} {
			require.LessOrEqual(t, v, gross-sum, "gross=%d tax=%d return=%d", gross, taxBps, returnBps)
			sum += v
		}
		require.Equal(t, gross, sum, "gross=%d tax=%d return=%d", gross, taxBps, returnBps)
		require.Zero(t, got.BuyBack)
	}
}

func TestSplit_ZeroTax(t *testing.T) {
	t.Parallel()

	for _, gross := range []uint64{1, 99, 12_345_678} {
		got, err := Split(gross, cfg(0, 4200))
		require.NoError(t, err)
		require.Zero(t, got.TaxReceiver)
	}
}

func TestSplit_FullReturnShare(t *testing.T) {
	t.Parallel()

	for _, gross := range []uint64{1, 101, 1_000_000, math.MaxUint64} {
		got, err := Split(gross, cfg(250, 10_000))
		require.NoError(t, err)
		require.Zero(t, got.Rewards)
		require.Equal(t, gross-got.TaxReceiver, got.Merchant)
	}
}

func TestSplit_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Split(0, cfg(250, 5000))
	require.True(t, types.IsCode(err, types.ErrInvalidAmount))

	_, err = Split(100, cfg(10_001, 0))
	require.True(t, types.IsCode(err, types.ErrInvalidAmount))

	_, err = Split(100, cfg(0, 10_001))
	require.True(t, types.IsCode(err, types.ErrInvalidAmount))

	_, err = Split(100, nil)
	require.Error(t, err)
}
