package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// Quantity bounds accepted by the executor.
const (
	MinQuantity = 1
	MaxQuantity = 10000
)

// totalTolerance is the maximum allowed drift between total and
// unit * quantity after rounding to cents.
var totalTolerance = decimal.NewFromFloat(0.01)

// Transaction is the immutable aggregate recording a single executed trade,
// together with the market snapshot in force at the instant of execution.
type Transaction struct {
	id             TransactionID
	playerID       shared.PlayerID
	playerName     string
	itemID         string
	direction      Direction
	quantity       int
	unitPrice      decimal.Decimal
	total          decimal.Decimal
	demandPressure decimal.Decimal
	supplyPressure decimal.Decimal
	onlineCount    int
	createdAt      time.Time
}

// NewTransaction creates a transaction with validation.
func NewTransaction(
	playerID shared.PlayerID,
	playerName string,
	itemID string,
	direction Direction,
	quantity int,
	unitPrice decimal.Decimal,
	total decimal.Decimal,
	demandPressure decimal.Decimal,
	supplyPressure decimal.Decimal,
	onlineCount int,
	createdAt time.Time,
) (*Transaction, error) {
	if playerID.IsZero() {
		return nil, &ErrInvalidTransaction{Field: "player_id", Reason: "player id cannot be empty"}
	}
	if itemID == "" {
		return nil, &ErrInvalidTransaction{Field: "item_id", Reason: "item id cannot be empty"}
	}
	if !direction.IsValid() {
		return nil, &ErrInvalidTransaction{Field: "direction", Reason: fmt.Sprintf("invalid direction %q", direction)}
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, &ErrInvalidQuantity{Quantity: quantity}
	}
	if unitPrice.Sign() <= 0 {
		return nil, &ErrInvalidTransaction{Field: "unit_price", Reason: "unit price must be positive"}
	}
	expected := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if total.Sub(expected).Abs().GreaterThan(totalTolerance) {
		return nil, &ErrInvalidTransaction{
			Field:  "total",
			Reason: fmt.Sprintf("total %s drifts from unit*quantity %s by more than 0.01", total, expected),
		}
	}

	return &Transaction{
		id:             NewTransactionID(),
		playerID:       playerID,
		playerName:     playerName,
		itemID:         itemID,
		direction:      direction,
		quantity:       quantity,
		unitPrice:      unitPrice,
		total:          total,
		demandPressure: demandPressure,
		supplyPressure: supplyPressure,
		onlineCount:    onlineCount,
		createdAt:      createdAt,
	}, nil
}

// ReconstructTransaction rebuilds a transaction from persistence, bypassing
// validation. Used by the repository only.
func ReconstructTransaction(
	id TransactionID,
	playerID shared.PlayerID,
	playerName string,
	itemID string,
	direction Direction,
	quantity int,
	unitPrice decimal.Decimal,
	total decimal.Decimal,
	demandPressure decimal.Decimal,
	supplyPressure decimal.Decimal,
	onlineCount int,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		id:             id,
		playerID:       playerID,
		playerName:     playerName,
		itemID:         itemID,
		direction:      direction,
		quantity:       quantity,
		unitPrice:      unitPrice,
		total:          total,
		demandPressure: demandPressure,
		supplyPressure: supplyPressure,
		onlineCount:    onlineCount,
		createdAt:      createdAt,
	}
}

func (t *Transaction) ID() TransactionID               { return t.id }
func (t *Transaction) PlayerID() shared.PlayerID       { return t.playerID }
func (t *Transaction) PlayerName() string              { return t.playerName }
func (t *Transaction) ItemID() string                  { return t.itemID }
func (t *Transaction) Direction() Direction            { return t.direction }
func (t *Transaction) Quantity() int                   { return t.quantity }
func (t *Transaction) UnitPrice() decimal.Decimal      { return t.unitPrice }
func (t *Transaction) Total() decimal.Decimal          { return t.total }
func (t *Transaction) DemandPressure() decimal.Decimal { return t.demandPressure }
func (t *Transaction) SupplyPressure() decimal.Decimal { return t.supplyPressure }
func (t *Transaction) OnlineCount() int                { return t.onlineCount }
func (t *Transaction) CreatedAt() time.Time            { return t.createdAt }

// BalanceDelta returns the signed effect on the player balance: negative for
// a buy (debit), positive for a sell (credit).
func (t *Transaction) BalanceDelta() decimal.Decimal {
	if t.direction == PlayerBuys {
		return t.total.Neg()
	}
	return t.total
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s %s %s x%d @ %s total=%s]",
		t.id, t.direction, t.itemID, t.quantity, t.unitPrice, t.total)
}
