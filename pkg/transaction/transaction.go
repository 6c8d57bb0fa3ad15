package transaction

import (
	"errors"
	"time"

	"github.com/kantong/kantong/pkg/category"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be a positive decimal")
	ErrKindMismatch        = errors.New("transaction kind must match category kind")
)

// Transaction is one row of the append-oriented ledger. Amount is always
// positive; Kind decides the sign when balances are derived.
type Transaction struct {
	ID         int
	WalletId   int
	CategoryId int
	Kind       category.Kind
	Amount     decimal.Decimal
	Date       time.Time
	Note       string
	// TransferUid links the legs of one transfer; empty for plain rows.
	TransferUid string
}

// SignedAmount is the transaction's contribution to its wallet's balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == category.KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
