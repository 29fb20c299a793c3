package mqtt

import (
	"context"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typemux/typemux/core/events"
	"github.com/typemux/typemux/core/message"
	"github.com/typemux/typemux/internal/eventbus"
)

// mockClient implements pahoClient for tests.
type mockClient struct {
	opts         *paho.ClientOptions
	subscribed   map[string]paho.MessageHandler
	disconnected bool
	connectErr   error
}

func (m *mockClient) IsConnected() bool { return !m.disconnected }
func (m *mockClient) Connect() paho.Token {
	return &dummyToken{err: m.connectErr}
}
func (m *mockClient) Disconnect(uint) { m.disconnected = true }
func (m *mockClient) Subscribe(topic string, qos byte, cb paho.MessageHandler) paho.Token {
	if m.subscribed == nil {
		m.subscribed = make(map[string]paho.MessageHandler)
	}
	m.subscribed[topic] = cb
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

type mockMessage struct {
	topic string
	p     []byte
}

func (m mockMessage) Duplicate() bool   { return false }
func (m mockMessage) Qos() byte         { return 0 }
func (m mockMessage) Retained() bool    { return false }
func (m mockMessage) Topic() string     { return m.topic }
func (m mockMessage) MessageID() uint16 { return 0 }
func (m mockMessage) Payload() []byte   { return m.p }
func (m mockMessage) Ack()              {}

type recordingDispatcher struct {
	msgs []any
}

func (r *recordingDispatcher) Dispatch(msg any) bool {
	r.msgs = append(r.msgs, msg)
	return true
}

func withMock(t *testing.T) *mockClient {
	t.Helper()
	mc := &mockClient{}
	prev := newMQTTClient
	newMQTTClient = func(opts *paho.ClientOptions) pahoClient { mc.opts = opts; return mc }
	t.Cleanup(func() { newMQTTClient = prev })
	return mc
}

type sensorReading struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

func TestSourceDecodesBoundTopic(t *testing.T) {
	mc := withMock(t)
	disp := &recordingDispatcher{}
	bus := eventbus.New()
	sub := bus.Subscribe()

	src, err := NewSource(Config{Broker: "tcp://localhost:1883"}, disp, bus)
	require.NoError(t, err)
	BindTopic[sensorReading](src, "sensors/temp")
	require.NoError(t, src.Start(context.Background()))

	cb, ok := mc.subscribed["sensors/temp"]
	require.True(t, ok, "topic not subscribed")
	cb(nil, mockMessage{topic: "sensors/temp", p: []byte(`{"id":"s1","value":21.5}`)})

	require.Len(t, disp.msgs, 1)
	reading, ok := disp.msgs[0].(sensorReading)
	require.True(t, ok, "expected sensorReading, got %T", disp.msgs[0])
	assert.Equal(t, "s1", reading.ID)
	assert.Equal(t, 21.5, reading.Value)

	ev := <-sub
	ing, ok := ev.(events.IngestEvent)
	require.True(t, ok)
	assert.Equal(t, "sensors/temp", ing.Topic)
	assert.NoError(t, ing.Err)
}

func TestSourceDecodeErrorDoesNotDispatch(t *testing.T) {
	mc := withMock(t)
	disp := &recordingDispatcher{}
	bus := eventbus.New()
	sub := bus.Subscribe()

	src, err := NewSource(Config{Broker: "tcp://localhost:1883"}, disp, bus)
	require.NoError(t, err)
	BindTopic[sensorReading](src, "sensors/temp")
	require.NoError(t, src.Start(context.Background()))

	mc.subscribed["sensors/temp"](nil, mockMessage{topic: "sensors/temp", p: []byte(`not json`)})

	assert.Empty(t, disp.msgs)
	ev := <-sub
	ing, ok := ev.(events.IngestEvent)
	require.True(t, ok)
	assert.Error(t, ing.Err)
}

func TestSourceRawTopic(t *testing.T) {
	mc := withMock(t)
	disp := &recordingDispatcher{}

	src, err := NewSource(Config{Broker: "tcp://localhost:1883", RawTopic: "telemetry/#"}, disp, nil)
	require.NoError(t, err)
	require.NoError(t, src.Start(context.Background()))

	cb, ok := mc.subscribed["telemetry/#"]
	require.True(t, ok, "raw topic not subscribed")
	cb(nil, mockMessage{topic: "telemetry/x", p: []byte("blob")})

	require.Len(t, disp.msgs, 1)
	raw, ok := disp.msgs[0].(message.Raw)
	require.True(t, ok, "expected message.Raw, got %T", disp.msgs[0])
	assert.Equal(t, "telemetry/x", raw.Topic)
	assert.Equal(t, []byte("blob"), raw.Payload)
}

func TestSourceClose(t *testing.T) {
	mc := withMock(t)
	src, err := NewSource(Config{Broker: "tcp://localhost:1883"}, &recordingDispatcher{}, nil)
	require.NoError(t, err)
	require.NoError(t, src.Start(context.Background()))
	src.Close()
	assert.True(t, mc.disconnected)
}

func TestNewSourceRequiresRouter(t *testing.T) {
	_, err := NewSource(Config{Broker: "tcp://localhost:1883"}, nil, nil)
	assert.Error(t, err)
}
