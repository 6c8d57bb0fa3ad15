package transfer

import (
	"errors"
	"time"

	"github.com/kantong/kantong/pkg/transaction"
	"github.com/shopspring/decimal"
)

var (
	ErrSameWallet    = errors.New("source and destination wallet must differ")
	ErrInvalidAmount = errors.New("transfer amount must be a positive decimal")
	ErrNegativeFee   = errors.New("transfer fee must not be negative")
)

type Request struct {
	FromWalletId int
	ToWalletId   int
	Amount       decimal.Decimal
	Fee          decimal.Decimal
	Date         time.Time
	Note         string
}

// Result holds the ledger rows of one committed transfer. FeeTx is nil when
// no fee was charged.
type Result struct {
	Uid   string
	OutTx transaction.Transaction
	InTx  transaction.Transaction
	FeeTx *transaction.Transaction
}
