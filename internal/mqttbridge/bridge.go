// Package mqttbridge feeds sensor readings published over MQTT through the
// decision pipeline and publishes each decision back to the broker.
package mqttbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
	"github.com/i474232898/irrigation-predictor/internal/metrics"
)

const (
	qos            = 1
	publishTimeout = 5 * time.Second
)

// Decider runs the decision pipeline for one reading.
type Decider interface {
	Decide(ctx context.Context, r irrigation.Reading) irrigation.Decision
}

// Client is the subset of mqtt.Client the bridge uses.
type Client interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Bridge subscribes to sensor readings and answers each with a decision.
type Bridge struct {
	client        Client
	decider       Decider
	sensorTopic   string
	decisionTopic string
}

func New(client Client, decider Decider, cfg Config) *Bridge {
	return &Bridge{
		client:        client,
		decider:       decider,
		sensorTopic:   cfg.SensorTopic,
		decisionTopic: cfg.DecisionTopic,
	}
}

// Run subscribes to the sensor topic and blocks until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	token := b.client.Subscribe(b.sensorTopic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		b.onMessage(ctx, msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", b.sensorTopic, token.Error())
	}
	log.Printf("INFO: mqtt: subscribed to %s, publishing decisions to %s", b.sensorTopic, b.decisionTopic)

	<-ctx.Done()

	b.client.Unsubscribe(b.sensorTopic).WaitTimeout(publishTimeout)
	return nil
}

func (b *Bridge) onMessage(ctx context.Context, topic string, payload []byte) {
	out, err := b.handle(ctx, payload)
	if err != nil {
		metrics.MQTTMessagesTotal.WithLabelValues("error").Inc()
		log.Printf("ERROR: mqtt: failed to encode decision for %s: %v", topic, err)
		return
	}

	dest := DecisionTopic(b.sensorTopic, b.decisionTopic, topic)
	token := b.client.Publish(dest, qos, false, out)
	if !token.WaitTimeout(publishTimeout) {
		metrics.MQTTMessagesTotal.WithLabelValues("timeout").Inc()
		log.Printf("ERROR: mqtt: publish to %s timed out", dest)
		return
	}
	if err := token.Error(); err != nil {
		metrics.MQTTMessagesTotal.WithLabelValues("error").Inc()
		log.Printf("ERROR: mqtt: publish to %s failed: %v", dest, err)
		return
	}
	metrics.MQTTMessagesTotal.WithLabelValues("ok").Inc()
}

// handle decodes a payload permissively, runs the pipeline and encodes the decision.
func (b *Bridge) handle(ctx context.Context, payload []byte) ([]byte, error) {
	reading, err := irrigation.DecodeReading(payload)
	if err != nil {
		log.Printf("WARN: mqtt: unreadable payload treated as empty reading: %v", err)
	}
	return json.Marshal(b.decider.Decide(ctx, reading))
}

// DecisionTopic maps the topic a reading arrived on to the topic its decision
// is published to. With a wildcard subscription such as irrigation/sensor/#,
// a reading on irrigation/sensor/field-7 is answered on <decisionTopic>/field-7.
func DecisionTopic(sensorFilter, decisionTopic, topic string) string {
	prefix := strings.TrimSuffix(strings.TrimSuffix(sensorFilter, "#"), "+")
	if prefix == sensorFilter || !strings.HasPrefix(topic, prefix) {
		return decisionTopic
	}
	suffix := strings.Trim(strings.TrimPrefix(topic, prefix), "/")
	if suffix == "" {
		return decisionTopic
	}
	return strings.TrimSuffix(decisionTopic, "/") + "/" + suffix
}
