package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meadowmc/economyd/internal/application/shop/commands"
	"github.com/meadowmc/economyd/internal/domain/catalog"
	"github.com/meadowmc/economyd/internal/domain/ledger"
	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// envelope is the uniform response body every endpoint returns.
type envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), envelope{
		Success:   false,
		Message:   err.Error(),
		Errors:    []string{err.Error()},
		Timestamp: time.Now().UTC(),
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success:   false,
		Message:   message,
		Errors:    []string{message},
		Timestamp: time.Now().UTC(),
	})
}

// statusFor maps the domain error taxonomy onto HTTP status codes. Caller
// mistakes are 4xx; storage and engine faults are 5xx.
func statusFor(err error) int {
	var (
		invalidPlayer *shared.ErrInvalidPlayerID
		invalidItem   *catalog.ErrInvalidItem
		notFound      *catalog.ErrItemNotFound
		inactive      *catalog.ErrItemInactive
		invalidTxn    *ledger.ErrInvalidTransaction
		invalidQty    *ledger.ErrInvalidQuantity
		noFunds       *ledger.ErrInsufficientFunds
		storage       *ledger.ErrStorage
		engineFault   *pricing.ErrEngineFault
		noSession     *commands.ErrSessionNotFound
		badSetting    *commands.ErrUnknownSetting
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &noSession):
		return http.StatusNotFound
	case errors.As(err, &invalidPlayer),
		errors.As(err, &invalidItem),
		errors.As(err, &inactive),
		errors.As(err, &invalidTxn),
		errors.As(err, &invalidQty),
		errors.As(err, &noFunds),
		errors.As(err, &badSetting):
		return http.StatusBadRequest
	case errors.As(err, &storage), errors.As(err, &engineFault):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
