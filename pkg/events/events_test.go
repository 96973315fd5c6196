package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got []OrderEvent
	err error
}

func (r *recorder) Publish(_ context.Context, e OrderEvent) error {
	r.got = append(r.got, e)
	return r.err
}

func TestMultiPublish(t *testing.T) {
	a := &recorder{}
	b := &recorder{err: errors.New("broker down")}
	c := &recorder{}

	m := Multi{a, nil, b, c}
	err := m.Publish(context.Background(), OrderEvent{OrderID: 1, To: "PLACED"})

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.Len(t, c.got, 1, "a failing publisher must not stop the others")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop().Publish(context.Background(), OrderEvent{}))
}
