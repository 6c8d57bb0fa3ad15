package wallet

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
	ErrInvalidKind    = errors.New("invalid wallet kind")
)

type WalletKind string

const (
	KindCash       WalletKind = "cash"
	KindBank       WalletKind = "bank"
	KindEWallet    WalletKind = "e-wallet"
	KindInvestment WalletKind = "investment"
	KindOther      WalletKind = "other"
)

func (k WalletKind) Valid() bool {
	switch k {
	case KindCash, KindBank, KindEWallet, KindInvestment, KindOther:
		return true
	}
	return false
}

// Wallet is a named store of money. CurrentBalance is an eagerly maintained
// running total; the ledger is the source of truth and the two must agree:
//
//	CurrentBalance == InitialBalance + Σ signed transaction amounts
//
// Every write path keeps the cache in sync by applying deltas inside the same
// transaction as the ledger rows.
type Wallet struct {
	ID             int
	Name           string
	Kind           WalletKind
	Currency       string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
}
