package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDefaultCategory  = errors.New("default category cannot be deleted")
	ErrCategoryInUse    = errors.New("category kind cannot change while transactions reference it")
	ErrInvalidKind      = errors.New("invalid category kind")
)

// Kind separates money coming in from money going out. Every transaction
// must carry the same kind as its category.
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Tags of the per-user system categories backing transfer legs. They are
// created lazily on the first transfer and behave like default categories.
const (
	TagTransferOut = "transfer_out"
	TagTransferIn  = "transfer_in"
	TagTransferFee = "transfer_fee"
)

type Category struct {
	ID        int
	Name      string
	Kind      Kind
	IsDefault bool
	// Tag marks a system category (transfer legs); empty for user categories.
	Tag string
}
