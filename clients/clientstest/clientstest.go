// Package clientstest provides in-memory ledger and wallet fakes for tests.
package clientstest

import (
	"context"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/vitwit/splitpay/clients"
)

// StatusFunc answers the n-th (1-based) status query.
type StatusFunc func(n int) (*rpc.SignatureStatusesResult, error)

// Ledger is an in-memory clients.Ledger. The zero value is not usable; use
// NewLedger.
type Ledger struct {
	mu sync.Mutex

	Blockhash    solana.Hash
	BlockhashErr error
	SendErr      error
	Status       StatusFunc

	accounts    map[solana.PublicKey]*rpc.Account
	accountErrs map[solana.PublicKey]error

	AccountReads  []solana.PublicKey
	StatusQueries int
	Sent          [][]byte
}

var _ clients.Ledger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{
		Blockhash:   solana.Hash{7, 7, 7},
		accounts:    make(map[solana.PublicKey]*rpc.Account),
		accountErrs: make(map[solana.PublicKey]error),
	}
}

// AddAccount marks key as existing.
func (l *Ledger) AddAccount(key solana.PublicKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[key] = &rpc.Account{Owner: solana.TokenProgramID}
}

// AddProgram marks key as an executable program.
func (l *Ledger) AddProgram(key solana.PublicKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[key] = &rpc.Account{Owner: solana.BPFLoaderUpgradeableProgramID, Executable: true}
}

// FailAccount makes reads of key return err.
func (l *Ledger) FailAccount(key solana.PublicKey, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accountErrs[key] = err
}

func (l *Ledger) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.BlockhashErr != nil {
		return solana.Hash{}, l.BlockhashErr
	}
	return l.Blockhash, nil
}

func (l *Ledger) GetAccountInfo(ctx context.Context, key solana.PublicKey) (*rpc.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.AccountReads = append(l.AccountReads, key)
	if err, ok := l.accountErrs[key]; ok {
		return nil, err
	}
	acc, ok := l.accounts[key]
	if !ok {
		return nil, clients.ErrAccountNotFound
	}
	return acc, nil
}

func (l *Ledger) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	l.mu.Lock()
	l.StatusQueries++
	n, fn := l.StatusQueries, l.Status
	l.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(n)
}

func (l *Ledger) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SendErr != nil {
		return solana.Signature{}, l.SendErr
	}
	l.Sent = append(l.Sent, raw)

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return solana.Signature{}, err
	}
	return tx.Signatures[0], nil
}

// Queries returns the number of status queries issued so far.
func (l *Ledger) Queries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.StatusQueries
}

// SentCount returns the number of submitted transactions.
func (l *Ledger) SentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Sent)
}

// LastSent decodes the most recently submitted transaction.
func (l *Ledger) LastSent() (*solana.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Sent) == 0 {
		return nil, nil
	}
	return solana.TransactionFromDecoder(bin.NewBinDecoder(l.Sent[len(l.Sent)-1]))
}

// StatusAt returns a StatusFunc reporting status from query n onwards and
// nothing before it.
func StatusAt(n int, status rpc.ConfirmationStatusType) StatusFunc {
	return func(q int) (*rpc.SignatureStatusesResult, error) {
		if q < n {
			return nil, nil
		}
		return &rpc.SignatureStatusesResult{ConfirmationStatus: status}, nil
	}
}

// Signer is a clients.Signer backed by a fresh keypair.
type Signer struct {
	Key    solana.PrivateKey
	Reject bool
	Err    error
	Calls  int
}

var _ clients.Signer = (*Signer)(nil)

func NewSigner() *Signer {
	return &Signer{Key: solana.NewWallet().PrivateKey}
}

func (s *Signer) PublicKey() solana.PublicKey { return s.Key.PublicKey() }

func (s *Signer) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	s.Calls++
	if s.Reject {
		return nil, clients.ErrUserRejected
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return clients.NewKeypairSigner(s.Key).SignTransaction(ctx, tx)
}
