package metrics

import (
	"context"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/application/shop/commands"
	"github.com/meadowmc/economyd/internal/application/shop/services"
	"github.com/meadowmc/economyd/internal/domain/ledger"
)

func TestCollector_RecordTradeAndOnlinePlayers(t *testing.T) {
	c := NewEngineMetricsCollector(prometheus.NewRegistry())

	c.RecordTrade("BUY", "ok", 30)
	c.RecordTrade("BUY", "error", 0)
	c.SetOnlinePlayers(7)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.tradesTotal.WithLabelValues("BUY", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.tradesTotal.WithLabelValues("BUY", "error")))
	assert.Equal(t, float64(7), testutil.ToFloat64(c.onlinePlayers))
}

type stubTradeHandler struct {
	err error
}

func (h stubTradeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if h.err != nil {
		return nil, h.err
	}
	return &commands.ExecuteTradeResponse{Result: &services.TradeResult{
		Direction: ledger.PlayerBuys,
		Total:     decimal.RequireFromString("30.00"),
	}}, nil
}

func TestCollector_MediatorMiddlewareCountsTrades(t *testing.T) {
	// Arrange
	c := NewEngineMetricsCollector(prometheus.NewRegistry())
	med := common.NewMediator()
	med.Use(c.MediatorMiddleware())
	require.NoError(t, med.Register(reflect.TypeOf(&commands.ExecuteTradeCommand{}), stubTradeHandler{}))

	// Act
	_, err := med.Send(context.Background(), &commands.ExecuteTradeCommand{Direction: "BUY", Quantity: 3})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.tradesTotal.WithLabelValues("BUY", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.commandDuration))
}

func TestCollector_MediatorMiddlewareCountsFailedTrades(t *testing.T) {
	c := NewEngineMetricsCollector(prometheus.NewRegistry())
	med := common.NewMediator()
	med.Use(c.MediatorMiddleware())
	require.NoError(t, med.Register(
		reflect.TypeOf(&commands.ExecuteTradeCommand{}),
		stubTradeHandler{err: &ledger.ErrInvalidQuantity{Quantity: 0}},
	))

	_, err := med.Send(context.Background(), &commands.ExecuteTradeCommand{Direction: "BUY"})

	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.tradesTotal.WithLabelValues("BUY", "error")))
}
