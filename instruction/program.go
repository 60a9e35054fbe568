// Package instruction encodes the dispatch-usdc instruction of the two
// dispatch programs.
package instruction

import (
	"github.com/gagliardetto/solana-go"
)

var (
	// DispatchProgramID is the dispatch program used by non-whitelisted
	// projects.
	DispatchProgramID = solana.MustPublicKeyFromBase58("dERWdfrhnVQwUpZxZAjwQ3DVypX1D4pB4GvTqfK6QYb")

	// DispatchInnerProgramID is the dispatch program used by whitelisted
	// projects.
	DispatchInnerProgramID = solana.MustPublicKeyFromBase58("D7GuEpcZcQuRYMKU5Npw4NNa1warcMeq7GXaq9SEHct2")
)

// DispatchUsdcDiscriminator prefixes the dispatch-usdc payload of both
// programs.
var DispatchUsdcDiscriminator = [8]byte{205, 168, 132, 131, 201, 93, 179, 55}

const (
	DispatchAmountsSize = (8 + // merchant
		8 + // buyBack
		8 + // taxReceiver
		8) // rewards

	DispatchUsdcDataSize = (len(DispatchUsdcDiscriminator) + // discriminator
		DispatchAmountsSize) // amounts
)
