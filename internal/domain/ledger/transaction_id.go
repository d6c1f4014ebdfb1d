package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID uniquely identifies a ledger transaction.
type TransactionID struct {
	value uuid.UUID
}

// NewTransactionID generates a fresh transaction id.
func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.New()}
}

// NewTransactionIDFromString parses a transaction id from storage.
func NewTransactionIDFromString(s string) (TransactionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: %w", s, err)
	}
	return TransactionID{value: id}, nil
}

func (t TransactionID) String() string {
	return t.value.String()
}

// IsZero reports whether the id is unset.
func (t TransactionID) IsZero() bool {
	return t.value == uuid.Nil
}
