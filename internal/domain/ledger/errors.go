package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction signals a transaction that violates a ledger
// invariant.
type ErrInvalidTransaction struct {
	Field  string
	Reason string
}

func (e *ErrInvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction (%s): %s", e.Field, e.Reason)
}

// ErrInvalidQuantity signals a quantity outside [MinQuantity, MaxQuantity].
type ErrInvalidQuantity struct {
	Quantity int
}

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("invalid quantity %d: must be in [%d, %d]", e.Quantity, MinQuantity, MaxQuantity)
}

// ErrInsufficientFunds signals a debit that would push the balance negative.
type ErrInsufficientFunds struct {
	PlayerID string
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds for player %s: balance %s, required %s",
		e.PlayerID, e.Balance, e.Required)
}

// ErrStorage wraps a ledger persistence failure that survived retries. The
// commit is all-or-nothing: when this surfaces, neither the balance nor the
// transaction log changed.
type ErrStorage struct {
	Op  string
	Err error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("ledger storage failure during %s: %v", e.Op, e.Err)
}

func (e *ErrStorage) Unwrap() error {
	return e.Err
}
