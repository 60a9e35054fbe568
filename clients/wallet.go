package clients

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// KeypairSigner signs with a local private key. It stands in for an
// interactive wallet in tools and tests.
type KeypairSigner struct {
	key solana.PrivateKey
}

var _ Signer = (*KeypairSigner)(nil)

func NewKeypairSigner(key solana.PrivateKey) *KeypairSigner {
	return &KeypairSigner{key: key}
}

// NewKeypairSignerFromFile loads a solana-keygen JSON keypair.
func NewKeypairSignerFromFile(path string) (*KeypairSigner, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", path, err)
	}
	return NewKeypairSigner(key), nil
}

// NewKeypairSignerFromBase58 parses a base58 encoded 64-byte private key.
func NewKeypairSignerFromBase58(encoded string) (*KeypairSigner, error) {
	key, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return NewKeypairSigner(key), nil
}

func (s *KeypairSigner) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

func (s *KeypairSigner) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pub := s.key.PublicKey()
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(pub) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}
