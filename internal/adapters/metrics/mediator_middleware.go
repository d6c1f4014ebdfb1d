package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/application/shop/commands"
)

// MediatorMiddleware records per-request latency and derives the trade
// counters from command outcomes, so every dispatched trade is counted
// whether it commits or fails.
func (c *EngineMetricsCollector) MediatorMiddleware() common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		start := time.Now()
		resp, err := next(ctx, request)
		c.commandDuration.WithLabelValues(fmt.Sprintf("%T", request)).Observe(time.Since(start).Seconds())

		switch req := request.(type) {
		case *commands.ExecuteTradeCommand:
			if err != nil {
				c.RecordTrade(req.Direction, "error", 0)
				break
			}
			if trade, ok := resp.(*commands.ExecuteTradeResponse); ok && trade.Result != nil {
				total, _ := trade.Result.Total.Float64()
				c.RecordTrade(trade.Result.Direction.String(), "ok", total)
			}
		case *commands.ExecuteBatchCommand:
			if err != nil {
				break
			}
			batch, ok := resp.(*commands.ExecuteBatchResponse)
			if !ok {
				break
			}
			for _, entry := range batch.Results {
				if entry.Err != nil {
					direction := ""
					if entry.Index < len(req.Entries) {
						direction = req.Entries[entry.Index].Direction
					}
					c.RecordTrade(direction, "error", 0)
					continue
				}
				total, _ := entry.Result.Total.Float64()
				c.RecordTrade(entry.Result.Direction.String(), "ok", total)
			}
		}
		return resp, err
	}
}
