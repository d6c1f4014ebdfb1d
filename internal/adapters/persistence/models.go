package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemModel represents the shop_items table
type ItemModel struct {
	ID            string          `gorm:"column:id;primaryKey;size:64"`
	Name          string          `gorm:"column:name;not null"`
	Category      string          `gorm:"column:category;size:32;not null;index"`
	Hunger        int             `gorm:"column:hunger;not null;default:0"`
	Saturation    float64         `gorm:"column:saturation;not null;default:0"`
	Complexity    string          `gorm:"column:complexity;size:16;not null"`
	BaseSellPrice decimal.Decimal `gorm:"column:base_sell_price;type:numeric(10,2);not null"`
	BaseBuyPrice  decimal.Decimal `gorm:"column:base_buy_price;type:numeric(10,2);not null"`
	MinPrice      decimal.Decimal `gorm:"column:min_price;type:numeric(10,2);not null"`
	MaxPrice      decimal.Decimal `gorm:"column:max_price;type:numeric(10,2);not null"`
	CurrentPrice  decimal.Decimal `gorm:"column:current_price;type:numeric(10,2);not null"`
	Active        bool            `gorm:"column:active;not null;default:true;index"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null"`
}

func (ItemModel) TableName() string {
	return "shop_items"
}

// PlayerBalanceModel represents the player_balances table
type PlayerBalanceModel struct {
	PlayerID  string          `gorm:"column:player_id;primaryKey;size:36"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(10,2);not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (PlayerBalanceModel) TableName() string {
	return "player_balances"
}

// TransactionModel represents the shop_transactions table. Rows are
// append-only; each carries the market snapshot in force at execution.
type TransactionModel struct {
	ID             string          `gorm:"column:id;primaryKey;size:36"`
	PlayerID       string          `gorm:"column:player_id;size:36;not null;index:idx_txn_player_created,priority:1"`
	PlayerName     string          `gorm:"column:player_name;size:64"`
	ItemID         string          `gorm:"column:item_id;size:64;not null;index:idx_txn_item_created,priority:1"`
	Direction      string          `gorm:"column:direction;size:8;not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`
	DemandPressure decimal.Decimal `gorm:"column:demand_pressure;type:numeric(6,3);not null"`
	SupplyPressure decimal.Decimal `gorm:"column:supply_pressure;type:numeric(6,3);not null"`
	OnlineCount    int             `gorm:"column:online_count;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;not null;index:idx_txn_player_created,priority:2;index:idx_txn_item_created,priority:2"`
	Item           ItemModel       `gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
}

func (TransactionModel) TableName() string {
	return "shop_transactions"
}

// PriceHistoryModel represents the price_history table
type PriceHistoryModel struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID        string          `gorm:"column:item_id;size:64;not null;index:idx_history_item_tick,priority:1"`
	TickTime      time.Time       `gorm:"column:tick_time;not null;index:idx_history_item_tick,priority:2,sort:desc"`
	PreviousPrice decimal.Decimal `gorm:"column:previous_price;type:numeric(10,2);not null"`
	NewPrice      decimal.Decimal `gorm:"column:new_price;type:numeric(10,2);not null"`
	ChangePercent decimal.Decimal `gorm:"column:change_percent;type:numeric(6,3);not null"`
	Demand        decimal.Decimal `gorm:"column:demand;type:numeric(6,3);not null"`
	Supply        decimal.Decimal `gorm:"column:supply;type:numeric(6,3);not null"`
	Net           decimal.Decimal `gorm:"column:net;type:numeric(6,3);not null"`
	BuyCount      int             `gorm:"column:buy_count;not null"`
	SellCount     int             `gorm:"column:sell_count;not null"`
	BuyVolume     decimal.Decimal `gorm:"column:buy_volume;type:numeric(8,1);not null"`
	SellVolume    decimal.Decimal `gorm:"column:sell_volume;type:numeric(8,1);not null"`
	OnlineCount   int             `gorm:"column:online_count;not null"`
	Correction    decimal.Decimal `gorm:"column:correction;type:numeric(6,3);not null"`
	Item          ItemModel       `gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PriceHistoryModel) TableName() string {
	return "price_history"
}

// SessionModel represents the player_sessions table
type SessionModel struct {
	PlayerID     string          `gorm:"column:player_id;primaryKey;size:36"`
	PlayerName   string          `gorm:"column:player_name;size:64"`
	LoginTime    time.Time       `gorm:"column:login_time;not null"`
	LastActivity time.Time       `gorm:"column:last_activity;not null"`
	Online       bool            `gorm:"column:online;not null;default:false"`
	Weight       decimal.Decimal `gorm:"column:weight;type:numeric(6,3);not null"`
}

func (SessionModel) TableName() string {
	return "player_sessions"
}

// SettingModel represents the shop_settings table
type SettingModel struct {
	Key       string    `gorm:"column:key;primaryKey;size:64"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (SettingModel) TableName() string {
	return "shop_settings"
}

// AllModels lists every model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&ItemModel{},
		&PlayerBalanceModel{},
		&TransactionModel{},
		&PriceHistoryModel{},
		&SessionModel{},
		&SettingModel{},
	}
}
