// Package publish pushes entity state to a home-automation host over MQTT.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/i474232898/nws-weather/internal/weather"
)

var errPublishTimeout = errors.New("mqtt publish timed out")

// MQTTConfig describes the broker connection and target topic.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Retained bool
	Timeout  time.Duration
}

// MQTTPublisher publishes the JSON encoded state to a single topic.
type MQTTPublisher struct {
	client mqtt.Client
	cfg    MQTTConfig
	logger *zap.SugaredLogger
}

// DefaultTopic returns the topic used when none is configured.
func DefaultTopic(station string) string {
	return fmt.Sprintf("nws/%s/state", strings.ToLower(station))
}

// NewMQTTPublisher connects to the broker and returns a publisher.
func NewMQTTPublisher(cfg MQTTConfig, logger *zap.SugaredLogger) (*MQTTPublisher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warnw("mqtt connection lost", "broker", cfg.Broker, "error", err)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("connect to %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}

	logger.Infow("connected to mqtt broker", "broker", cfg.Broker, "topic", cfg.Topic)
	return newPublisher(client, cfg, logger), nil
}

func newPublisher(client mqtt.Client, cfg MQTTConfig, logger *zap.SugaredLogger) *MQTTPublisher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &MQTTPublisher{client: client, cfg: cfg, logger: logger}
}

// Publish sends the state and waits for the broker to acknowledge it.
func (p *MQTTPublisher) Publish(state weather.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	token := p.client.Publish(p.cfg.Topic, p.cfg.QoS, p.cfg.Retained, payload)
	if !token.WaitTimeout(p.cfg.Timeout) {
		return errPublishTimeout
	}
	return token.Error()
}

// Listener adapts Publish to an entity update listener, logging failures.
func (p *MQTTPublisher) Listener() weather.Listener {
	return func(state weather.State) {
		if err := p.Publish(state); err != nil {
			p.logger.Errorw("mqtt publish failed", "topic", p.cfg.Topic, "error", err)
			return
		}
		p.logger.Debugw("published state", "topic", p.cfg.Topic, "station", state.Station)
	}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
