// Package derive computes the deterministic addresses a dispatch touches:
// program-derived addresses of the stake rewards program and associated
// token accounts of every party.
package derive

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/vitwit/splitpay/types"
)

var (
	seedState    = []byte("state")
	seedVault    = []byte("vault")
	seedUserInfo = []byte("user-info")
)

// ProgramAddress finds the canonical program-derived address of seeds under
// programID.
func ProgramAddress(programID solana.PublicKey, seeds ...[]byte) (solana.PublicKey, uint8, error) {
	if programID.IsZero() {
		return solana.PublicKey{}, 0, types.Errorf(types.ErrInvalidAddressInput, "program id is empty")
	}
	if len(seeds) > solana.MaxSeeds {
		return solana.PublicKey{}, 0, types.Errorf(types.ErrInvalidAddressInput, "too many seeds: %d", len(seeds))
	}
	for i, seed := range seeds {
		if len(seed) > solana.MaxSeedLength {
			return solana.PublicKey{}, 0, types.Errorf(types.ErrInvalidAddressInput, "seed %d is %d bytes, max %d", i, len(seed), solana.MaxSeedLength)
		}
	}

	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, types.NewError(types.ErrInvalidAddressInput, "find program address", err)
	}
	return addr, bump, nil
}

// TokenAccount returns the associated token account of owner for mint.
// Owners that are themselves program-derived (off the ed25519 curve) are
// rejected unless allowOwnerOffCurve is set.
func TokenAccount(mint, owner solana.PublicKey, allowOwnerOffCurve bool) (solana.PublicKey, error) {
	if mint.IsZero() {
		return solana.PublicKey{}, types.Errorf(types.ErrInvalidAddressInput, "mint is empty")
	}
	if owner.IsZero() {
		return solana.PublicKey{}, types.Errorf(types.ErrInvalidAddressInput, "token account owner is empty")
	}
	if !allowOwnerOffCurve && !IsOnCurve(owner) {
		return solana.PublicKey{}, types.Errorf(types.ErrInvalidAddressInput, "token account owner %s is off curve", owner)
	}

	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, types.NewError(types.ErrInvalidAddressInput, "find associated token address", err)
	}
	return addr, nil
}

// StakeRewardsAccounts are the program-derived accounts of a stake rewards
// program that a dispatch writes to.
type StakeRewardsAccounts struct {
	Program        solana.PublicKey
	State          solana.PublicKey
	StateBump      uint8
	VaultAuthority solana.PublicKey
	VaultBump      uint8

	// UserInfo is only derived for the non-whitelist variant.
	UserInfo     *solana.PublicKey
	UserInfoBump uint8
}

// StakeRewards derives the state and vault authority of program, and the
// per-user record of user when withUserInfo is set.
func StakeRewards(program, user solana.PublicKey, withUserInfo bool) (*StakeRewardsAccounts, error) {
	state, stateBump, err := ProgramAddress(program, seedState)
	if err != nil {
		return nil, fmt.Errorf("derive state: %w", err)
	}

	vault, vaultBump, err := ProgramAddress(program, seedVault)
	if err != nil {
		return nil, fmt.Errorf("derive vault authority: %w", err)
	}

	out := &StakeRewardsAccounts{
		Program:        program,
		State:          state,
		StateBump:      stateBump,
		VaultAuthority: vault,
		VaultBump:      vaultBump,
	}

	if withUserInfo {
		if user.IsZero() {
			return nil, types.Errorf(types.ErrInvalidAddressInput, "user address is empty")
		}
		userInfo, bump, err := ProgramAddress(program, seedUserInfo, user.Bytes())
		if err != nil {
			return nil, fmt.Errorf("derive user info: %w", err)
		}
		out.UserInfo = &userInfo
		out.UserInfoBump = bump
	}

	return out, nil
}

// IsOnCurve reports whether key is a valid ed25519 point, i.e. whether it
// could have a private key.
func IsOnCurve(key solana.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(key[:])
	return err == nil
}
