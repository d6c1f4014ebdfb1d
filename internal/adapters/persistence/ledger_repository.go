package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// GormLedgerRepository implements ledger.Repository using GORM. Commits run
// inside a database transaction and are retried on transient failures.
type GormLedgerRepository struct {
	db             *gorm.DB
	clock          shared.Clock
	initialBalance decimal.Decimal
}

// NewGormLedgerRepository creates a new GORM ledger repository. New players
// start with the given initial balance.
func NewGormLedgerRepository(db *gorm.DB, clock shared.Clock, initialBalance decimal.Decimal) *GormLedgerRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormLedgerRepository{db: db, clock: clock, initialBalance: shared.RoundMoney(initialBalance)}
}

// Balance reads the current balance, creating the account with the initial
// balance on first touch.
func (r *GormLedgerRepository) Balance(ctx context.Context, playerID shared.PlayerID) (*ledger.PlayerBalance, error) {
	var model PlayerBalanceModel
	err := withRetry(ctx, r.clock, "balance read", func() error {
		result := r.db.WithContext(ctx).Where("player_id = ?", playerID.Value()).First(&model)
		return result.Error
	})
	if err == nil {
		return ledger.NewPlayerBalance(playerID, model.Balance, model.UpdatedAt), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ledger.ErrStorage{Op: "balance read", Err: err}
	}

	// First touch: seed the account. A concurrent seed loses the insert race
	// harmlessly; DoNothing keeps the winner's row.
	model = PlayerBalanceModel{
		PlayerID:  playerID.Value(),
		Balance:   r.initialBalance,
		UpdatedAt: r.clock.Now(),
	}
	err = withRetry(ctx, r.clock, "balance seed", func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model).Error
	})
	if err != nil {
		return nil, &ledger.ErrStorage{Op: "balance seed", Err: err}
	}
	return ledger.NewPlayerBalance(playerID, model.Balance, model.UpdatedAt), nil
}

// Commit atomically persists the transaction row and the new balance. A
// failure after retries leaves both untouched.
func (r *GormLedgerRepository) Commit(ctx context.Context, txn *ledger.Transaction, newBalance decimal.Decimal) error {
	model := transactionToModel(txn)
	err := withRetry(ctx, r.clock, "ledger commit", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&PlayerBalanceModel{}).
				Where("player_id = ?", txn.PlayerID().Value()).
				Updates(map[string]interface{}{
					"balance":    newBalance,
					"updated_at": r.clock.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("no balance row for player %s", txn.PlayerID())
			}
			return tx.Create(model).Error
		})
	})
	if err != nil {
		return &ledger.ErrStorage{Op: "commit", Err: err}
	}
	return nil
}

// SetBalance overwrites a player's balance (admin path), creating the row if
// it does not exist yet.
func (r *GormLedgerRepository) SetBalance(ctx context.Context, playerID shared.PlayerID, balance decimal.Decimal) error {
	model := PlayerBalanceModel{
		PlayerID:  playerID.Value(),
		Balance:   balance,
		UpdatedAt: r.clock.Now(),
	}
	err := withRetry(ctx, r.clock, "balance set", func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "player_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
			}).
			Create(&model).Error
	})
	if err != nil {
		return &ledger.ErrStorage{Op: "balance set", Err: err}
	}
	return nil
}

// FindByPlayer retrieves transactions for a player, newest first.
func (r *GormLedgerRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	query := r.applyFilters(r.db.WithContext(ctx).Where("player_id = ?", playerID.Value()), opts).
		Order("created_at DESC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []TransactionModel
	if result := query.Find(&models); result.Error != nil {
		return nil, &ledger.ErrStorage{Op: "transaction query", Err: result.Error}
	}

	transactions := make([]*ledger.Transaction, len(models))
	for i := range models {
		txn, err := modelToTransaction(&models[i])
		if err != nil {
			return nil, err
		}
		transactions[i] = txn
	}
	return transactions, nil
}

// CountByPlayer returns the count of transactions matching the criteria.
func (r *GormLedgerRepository) CountByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) (int, error) {
	query := r.applyFilters(
		r.db.WithContext(ctx).Model(&TransactionModel{}).Where("player_id = ?", playerID.Value()),
		opts,
	)
	var count int64
	if result := query.Count(&count); result.Error != nil {
		return 0, &ledger.ErrStorage{Op: "transaction count", Err: result.Error}
	}
	return int(count), nil
}

// CountByItemSince counts transactions for an item with the given direction
// created at or after the cutoff.
func (r *GormLedgerRepository) CountByItemSince(ctx context.Context, itemID string, direction ledger.Direction, since time.Time) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&TransactionModel{}).
		Where("item_id = ? AND direction = ? AND created_at >= ?", itemID, direction.String(), since).
		Count(&count)
	if result.Error != nil {
		return 0, &ledger.ErrStorage{Op: "item transaction count", Err: result.Error}
	}
	return int(count), nil
}

func (r *GormLedgerRepository) applyFilters(query *gorm.DB, opts ledger.QueryOptions) *gorm.DB {
	if opts.Direction != nil {
		query = query.Where("direction = ?", opts.Direction.String())
	}
	return query
}

func modelToTransaction(model *TransactionModel) (*ledger.Transaction, error) {
	id, err := ledger.NewTransactionIDFromString(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id in database: %w", err)
	}
	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player id in database: %w", err)
	}
	direction, err := ledger.ParseDirection(model.Direction)
	if err != nil {
		return nil, fmt.Errorf("invalid direction in database: %w", err)
	}

	return ledger.ReconstructTransaction(
		id,
		playerID,
		model.PlayerName,
		model.ItemID,
		direction,
		model.Quantity,
		model.UnitPrice,
		model.Total,
		model.DemandPressure,
		model.SupplyPressure,
		model.OnlineCount,
		model.CreatedAt,
	), nil
}

func transactionToModel(txn *ledger.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:             txn.ID().String(),
		PlayerID:       txn.PlayerID().Value(),
		PlayerName:     txn.PlayerName(),
		ItemID:         txn.ItemID(),
		Direction:      txn.Direction().String(),
		Quantity:       txn.Quantity(),
		UnitPrice:      txn.UnitPrice(),
		Total:          txn.Total(),
		DemandPressure: txn.DemandPressure(),
		SupplyPressure: txn.SupplyPressure(),
		OnlineCount:    txn.OnlineCount(),
		CreatedAt:      txn.CreatedAt(),
	}
}
