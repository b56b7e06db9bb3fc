package events

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	event := NewEvent("waitlist.signup", map[string]string{"email": "a@test.com"})

	msg, err := encode(event)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "waitlist.signup", msg.Type)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "waitlist.signup", decoded["type"])
	assert.Equal(t, "a@test.com", decoded["payload"].(map[string]any)["email"])
}

func TestEncode_UnsupportedPayload(t *testing.T) {
	_, err := encode(NewEvent("waitlist.signup", make(chan int)))
	assert.Error(t, err)
}

func TestNewAMQPPublisher_UnreachableBroker(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = NewAMQPPublisher("amqp://guest:guest@"+addr+"/", "")
	assert.Error(t, err)
}

type stubChannel struct {
	release chan struct{}
	calls   chan amqp.Publishing
	err     error
}

func newStubChannel() *stubChannel {
	return &stubChannel{release: make(chan struct{}), calls: make(chan amqp.Publishing, 8)}
}

func (s *stubChannel) Publish(_, _ string, _, _ bool, msg amqp.Publishing) error {
	s.calls <- msg
	<-s.release
	return s.err
}

func (s *stubChannel) Close() error { return nil }

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := newStubChannel()
	close(ch.release)
	p := newAMQPPublisher(nil, ch, DefaultQueue)

	require.NoError(t, p.Publish(context.Background(), NewEvent("waitlist.signup", map[string]string{"email": "a@test.com"})))

	msg := <-ch.calls
	assert.Equal(t, "waitlist.signup", msg.Type)
}

func TestAMQPPublisher_PublishErrorIsWrapped(t *testing.T) {
	ch := newStubChannel()
	ch.err = errors.New("channel closed")
	close(ch.release)
	p := newAMQPPublisher(nil, ch, DefaultQueue)

	err := p.Publish(context.Background(), NewEvent("waitlist.signup", nil))
	assert.ErrorIs(t, err, ch.err)
}

func TestAMQPPublisher_StalledWriteHonoursDeadline(t *testing.T) {
	ch := newStubChannel()
	t.Cleanup(func() { close(ch.release) })
	p := newAMQPPublisher(nil, ch, DefaultQueue)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, NewEvent("waitlist.signup", nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	// A second publisher waiting behind the stalled write gives up on its own deadline too.
	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()

	start = time.Now()
	err = p.Publish(ctx2, NewEvent("waitlist.signup", nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, ch.calls, 1)
}
