package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	enabled bool
	err     error
	sent    []string
}

func (f *fakeSender) Enabled() bool { return f.enabled }

func (f *fakeSender) Send(to, subject, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

func lowStockPayload(t *testing.T) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(dto.LowStockEvent{ItemID: "id", SerialNo: "SN-1", Name: "Bolt", Quantity: 2, Threshold: 5})
	require.NoError(t, err)
	return data
}

func TestLowStockWorker_SendsMail(t *testing.T) {
	sender := &fakeSender{enabled: true}
	w := NewLowStockWorker(sender, infra.NewCircuitBreaker(infra.MailCBConfig()), "ops@example.com")

	require.NoError(t, w.Process(context.Background(), lowStockPayload(t)))
	assert.Equal(t, []string{"ops@example.com|Low stock: Bolt (SN-1)"}, sender.sent)
}

func TestLowStockWorker_MailDisabled_LogsOnly(t *testing.T) {
	sender := &fakeSender{enabled: false}
	w := NewLowStockWorker(sender, infra.NewCircuitBreaker(infra.MailCBConfig()), "ops@example.com")

	assert.NoError(t, w.Process(context.Background(), lowStockPayload(t)))
	assert.Empty(t, sender.sent)
}

func TestLowStockWorker_SendFailureIsRetryable(t *testing.T) {
	sender := &fakeSender{enabled: true, err: errors.New("connection refused")}
	cb := infra.NewCircuitBreaker(infra.MailCBConfig())
	w := NewLowStockWorker(sender, cb, "ops@example.com")

	for i := 0; i < 3; i++ {
		assert.Error(t, w.Process(context.Background(), lowStockPayload(t)))
	}
	assert.Equal(t, infra.CBOpen, cb.State())
	assert.ErrorIs(t, w.Process(context.Background(), lowStockPayload(t)), infra.ErrCircuitOpen)
}

func TestPool_OpenCircuitDoesNotSpendAttempts(t *testing.T) {
	sender := &fakeSender{enabled: true, err: errors.New("connection refused")}
	cb := infra.NewCircuitBreaker(infra.MailCBConfig())
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return sender.err })
	}
	require.Equal(t, infra.CBOpen, cb.State())

	p := NewPool(nil, map[string]Handler{JobLowStock: NewLowStockWorker(sender, cb, "ops@example.com")}, QueueLowStock)
	raw := encodeJob(t, Job{Type: JobLowStock, Payload: lowStockPayload(t)})
	for i := 0; i < MaxAttempts*3; i++ {
		v := p.attempt(context.Background(), raw)
		require.Nil(t, v.dead, "run %d dead-lettered while the circuit was open", i)
		require.NotNil(t, v.retry)
		assert.Equal(t, 0, v.retry.Attempts)
		assert.Equal(t, DefaultCircuitWait, v.delay)
		raw = encodeJob(t, *v.retry)
	}
}

func TestLowStockWorker_InvalidPayloadDropped(t *testing.T) {
	w := NewLowStockWorker(&fakeSender{enabled: true}, infra.NewCircuitBreaker(infra.MailCBConfig()), "ops@example.com")
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`[`)))
}

func TestLowStockMessage(t *testing.T) {
	subject, body := lowStockMessage(dto.LowStockEvent{SerialNo: "SN-1", Name: "Bolt", Quantity: 2, Threshold: 5})
	assert.Equal(t, "Low stock: Bolt (SN-1)", subject)
	assert.Contains(t, body, "Current quantity: 2")
	assert.Contains(t, body, "Alert threshold: 5")
}
