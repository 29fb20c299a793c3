// Package mqtt ingests MQTT messages and feeds them through a router.
// Topics are bound to Go message types; JSON payloads decode into the bound
// type before dispatch. Traffic on the configured raw topic is delivered
// as message.Raw so unbound traffic stays observable.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/typemux/typemux/core/events"
	"github.com/typemux/typemux/core/message"
	"github.com/typemux/typemux/infra/logger"
	"github.com/typemux/typemux/internal/eventbus"
)

// Dispatcher routes one message and reports whether a handler ran.
// *router.Router satisfies it.
type Dispatcher interface {
	Dispatch(msg any) bool
}

// Decoder turns a raw payload into a typed message.
type Decoder func(payload []byte) (any, error)

type binding struct {
	typeName string
	decode   Decoder
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Source pulls messages from an MQTT broker and dispatches them.
type Source struct {
	cfg    Config
	cli    pahoClient
	router Dispatcher
	bus    eventbus.EventBus
	log    logger.Logger

	mu       sync.RWMutex
	bindings map[string]binding
}

// NewSource creates a Source. The broker is not contacted until Start.
func NewSource(cfg Config, router Dispatcher, bus eventbus.EventBus) (*Source, error) {
	if router == nil {
		return nil, fmt.Errorf("router is required")
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("client options: %w", err)
	}
	log := logger.New("mqtt_source")
	s := &Source{
		cfg:      cfg,
		router:   router,
		bus:      bus,
		log:      log,
		bindings: make(map[string]binding),
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	s.cli = newMQTTClient(opts)
	return s, nil
}

// BindTopic binds topic to message type T. Payloads arriving on the topic
// are JSON-decoded into a T and dispatched. Binding an already bound topic
// replaces its decoder. Bindings must be in place before Start.
func BindTopic[T any](s *Source, topic string) {
	name := reflect.TypeOf((*T)(nil)).Elem().String()
	s.mu.Lock()
	s.bindings[topic] = binding{
		typeName: name,
		decode: func(payload []byte) (any, error) {
			var msg T
			if err := json.Unmarshal(payload, &msg); err != nil {
				return nil, err
			}
			return msg, nil
		},
	}
	s.mu.Unlock()
	s.log.Debugf("bound topic %s to %s", topic, name)
}

// Start connects to the broker and subscribes to all bound topics plus the
// raw topic, if configured. The heartbeat loop runs until ctx is canceled.
func (s *Source) Start(ctx context.Context) error {
	if token := s.cli.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect: %w", token.Error())
	}
	s.log.Infof("MQTT connected")

	s.mu.RLock()
	topics := make([]string, 0, len(s.bindings))
	for topic := range s.bindings {
		topics = append(topics, topic)
	}
	s.mu.RUnlock()

	for _, topic := range topics {
		if token := s.cli.Subscribe(topic, s.cfg.QoS, s.onMessage); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
	}
	if s.cfg.RawTopic != "" {
		if token := s.cli.Subscribe(s.cfg.RawTopic, s.cfg.QoS, s.onRaw); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", s.cfg.RawTopic, token.Error())
		}
	}
	if s.cfg.Heartbeat > 0 {
		go s.heartbeat(ctx, time.Duration(s.cfg.Heartbeat)*time.Second)
	}
	return nil
}

func (s *Source) onMessage(_ paho.Client, m paho.Message) {
	s.mu.RLock()
	b, ok := s.bindings[m.Topic()]
	s.mu.RUnlock()
	if !ok {
		// subscription without binding, treat as raw
		s.onRaw(nil, m)
		return
	}
	msg, err := b.decode(m.Payload())
	if err != nil {
		s.log.Errorf("decode %s on %s: %v", b.typeName, m.Topic(), err)
		s.publish(events.IngestEvent{Topic: m.Topic(), MessageType: b.typeName, Err: err})
		return
	}
	s.publish(events.IngestEvent{Topic: m.Topic(), MessageType: b.typeName})
	if !s.router.Dispatch(msg) {
		s.log.Warnf("no handler for %s ingested on %s", b.typeName, m.Topic())
	}
}

func (s *Source) onRaw(_ paho.Client, m paho.Message) {
	raw := message.Raw{Topic: m.Topic(), Payload: m.Payload()}
	s.publish(events.IngestEvent{Topic: m.Topic(), MessageType: "message.Raw"})
	s.router.Dispatch(raw)
}

func (s *Source) heartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.router.Dispatch(message.Heartbeat{Source: "mqtt", Time: now})
		}
	}
}

func (s *Source) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// Close disconnects from the broker.
func (s *Source) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
