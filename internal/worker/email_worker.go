package worker

// email_worker.go
// Processes QueueLowStock jobs: one email per item that dropped below its
// alert threshold, sent through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/infra"

	"github.com/rs/zerolog/log"
)

// Sender delivers a plain-text email. *infra.Mailer implements it.
type Sender interface {
	Enabled() bool
	Send(to, subject, body string) error
}

// LowStockWorker turns low-stock events into alert emails.
type LowStockWorker struct {
	sender    Sender
	cb        *infra.CircuitBreaker
	recipient string
}

func NewLowStockWorker(sender Sender, cb *infra.CircuitBreaker, recipient string) *LowStockWorker {
	return &LowStockWorker{sender: sender, cb: cb, recipient: recipient}
}

// Process returns an error only for failures worth retrying.
func (w *LowStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var ev dto.LowStockEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Error().Err(err).Msg("low_stock_worker: invalid payload, dropping")
		return nil
	}
	if w.recipient == "" || !w.sender.Enabled() {
		log.Info().Str("serial_no", ev.SerialNo).Int("quantity", ev.Quantity).
			Msg("low_stock_worker: mail not configured, alert logged only")
		return nil
	}

	subject, body := lowStockMessage(ev)
	if err := w.cb.Execute(func() error { return w.sender.Send(w.recipient, subject, body) }); err != nil {
		return fmt.Errorf("send low stock mail for %s: %w", ev.SerialNo, err)
	}
	log.Info().Str("to", w.recipient).Str("serial_no", ev.SerialNo).Msg("low_stock_worker: alert sent")
	return nil
}

func lowStockMessage(ev dto.LowStockEvent) (string, string) {
	subject := fmt.Sprintf("Low stock: %s (%s)", ev.Name, ev.SerialNo)
	body := fmt.Sprintf(
		"Item %s (serial %s) dropped below its alert threshold.\n\nCurrent quantity: %d\nAlert threshold: %d\n",
		ev.Name, ev.SerialNo, ev.Quantity, ev.Threshold,
	)
	return subject, body
}
