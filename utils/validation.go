package utils

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
	"github.com/vitwit/splitpay/types"
)

// ValidateAmount checks if an amount string is a valid positive decimal
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	if amount == "" {
		return nil, types.Errorf(types.ErrInvalidAmount, "amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidAmount, "invalid amount format", err)
	}

	if !dec.IsPositive() {
		return nil, types.Errorf(types.ErrInvalidAmount, "amount must be greater than zero")
	}

	return &dec, nil
}

// ParseAmountWithDecimals parses a UI amount and scales it to the token's
// smallest unit. Amounts with precision finer than one unit, or that do not
// fit in 64 bits, are rejected.
func ParseAmountWithDecimals(amount string, decimals int32) (uint64, error) {
	if decimals < 0 {
		return 0, types.Errorf(types.ErrInvalidAmount, "decimals cannot be negative")
	}

	dec, err := ValidateAmount(amount)
	if err != nil {
		return 0, err
	}

	scaled := dec.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, types.Errorf(types.ErrInvalidAmount, "amount %s has more than %d decimal places", amount, decimals)
	}

	raw := scaled.BigInt()
	if !raw.IsUint64() {
		return 0, types.Errorf(types.ErrInvalidAmount, "amount %s overflows 64-bit units", amount)
	}

	return raw.Uint64(), nil
}

// FormatAmount formats a raw amount to a decimal string with the given
// number of decimals.
func FormatAmount(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).String()
}

// ParseAddress decodes a base58 Solana address, requiring exactly 32 bytes.
func ParseAddress(address string) (solana.PublicKey, error) {
	if address == "" {
		return solana.PublicKey{}, types.Errorf(types.ErrInvalidAddressInput, "address cannot be empty")
	}

	raw, err := base58.Decode(address)
	if err != nil {
		return solana.PublicKey{}, types.NewError(types.ErrInvalidAddressInput, fmt.Sprintf("invalid base58 address %q", address), err)
	}

	if len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, types.Errorf(types.ErrInvalidAddressInput, "address %q decodes to %d bytes, want %d", address, len(raw), solana.PublicKeyLength)
	}

	return solana.PublicKeyFromBytes(raw), nil
}

// IsValidAddress reports whether address is a well-formed Solana address.
func IsValidAddress(address string) bool {
	_, err := ParseAddress(address)
	return err == nil
}

// ValidateBasisPoints checks that bps is within 0..10000.
func ValidateBasisPoints(name string, bps int64) error {
	if bps < 0 || bps > 10000 {
		return fmt.Errorf("%s must be between 0 and 10000 basis points, got %d", name, bps)
	}
	return nil
}
