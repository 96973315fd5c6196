package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/events"
	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.OrderEvent) error {
	return errors.New("broker down")
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	std := log.StandardLogger()
	prevOut, prevFmt := std.Out, std.Formatter
	var buf bytes.Buffer
	std.SetOutput(&buf)
	std.SetFormatter(&log.JSONFormatter{})
	t.Cleanup(func() {
		std.SetOutput(prevOut)
		std.SetFormatter(prevFmt)
	})
	return &buf
}

func TestPublishFailureLogsRequestID(t *testing.T) {
	f := newFixture(t)
	f.orders.Events = failingPublisher{}
	buf := captureLog(t)

	ctx := utils.WithRequestID(context.Background(), "req-42")
	o, err := f.orders.Create(ctx, f.customer, &CreateOrderReq{Items: []LineItemIn{{FoodItemID: f.foods[0].ID, Quantity: 1}}})
	require.NoError(t, err, "a failed publish does not fail the request")
	assert.Equal(t, entity.StatusInCart, o.Status)

	assert.Contains(t, buf.String(), `"requestId":"req-42"`)
	assert.Contains(t, buf.String(), "publish order event failed")
}

func TestLogForWithoutRequestID(t *testing.T) {
	entry := logFor(context.Background())
	_, ok := entry.Data["requestId"]
	assert.False(t, ok)
}
