package server

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/logger"
)

const maxBodyBytes = 1 << 20

type handler struct {
	evaluator SignalEvaluator
}

// tradingSignal answers POST /trading_signal with {"signal": "<label>"}.
func (h *handler) tradingSignal(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}
	entry := ParseEntryPrice(body)

	eval, err := h.evaluator.Evaluate(c.Request.Context(), entry)
	if err != nil {
		status := statusFor(err)
		logger.L().Error("trading signal failed", zap.Int("status", status), zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signal": eval.Signal})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrSourceNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, calculator.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ParseEntryPrice extracts entry_price from a JSON body. A nil result selects
// the entry rules. The number 0, null, "" and a missing field count as absent;
// any other number and any numeric string (including "0" and negatives) select
// the exit rules. Non-numeric strings and non-finite values are ignored.
func ParseEntryPrice(body []byte) *float64 {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}
	field := gjson.GetBytes(body, "entry_price")

	var v float64
	switch field.Type {
	case gjson.Number:
		v = field.Float()
		if v == 0 {
			return nil
		}
	case gjson.String:
		d, err := decimal.NewFromString(strings.TrimSpace(field.Str))
		if err != nil {
			return nil
		}
		v = d.InexactFloat64()
	default:
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
