package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/smart-garage/internal/config"
)

// Publisher is the part of mqtt.Client the notifier needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTNotifier publishes every notification as JSON on a topic so a remote
// display can render it.
type MQTTNotifier struct {
	client  Publisher
	topic   string
	timeout time.Duration
}

type mqttPayload struct {
	ID         string   `json:"id"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	DurationMS int64    `json:"duration_ms"`
	CreatedAt  string   `json:"created_at"`
}

func NewMQTTNotifier(client Publisher, topic string, timeout time.Duration) *MQTTNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MQTTNotifier{client: client, topic: topic, timeout: timeout}
}

// NewMQTTClient connects to the broker named in cfg.
func NewMQTTClient(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}
	return client, nil
}

// Publish sends n and waits for the broker to acknowledge it.
func (m *MQTTNotifier) Publish(n Notification) error {
	data, err := json.Marshal(mqttPayload{
		ID:         n.ID,
		Message:    n.Message,
		Severity:   n.Severity,
		DurationMS: n.Duration.Milliseconds(),
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	token := m.client.Publish(m.topic, 1, false, data)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("publish to %s timed out", m.topic)
	}
	return token.Error()
}

// Notify publishes n and logs a failure instead of returning it.
func (m *MQTTNotifier) Notify(n Notification) {
	if err := m.Publish(n); err != nil {
		log.WithError(err).WithField("topic", m.topic).Error("Failed to publish notification")
	}
}
