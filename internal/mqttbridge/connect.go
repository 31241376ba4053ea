package mqttbridge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config describes the broker connection and the topics the bridge uses.
type Config struct {
	Broker        string
	ClientID      string
	Username      string
	Password      string
	SensorTopic   string
	DecisionTopic string
}

const (
	connectMaxElapsed = 30 * time.Second
	connectMaxRetries = 5
)

// Connect dials the broker, retrying with exponential backoff. The client is
// disconnected when ctx is done.
func Connect(ctx context.Context, cfg Config) (mqtt.Client, error) {
	opts := clientOptions(cfg)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectMaxElapsed

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("WARN: mqtt: failed to connect to %s: %v", cfg.Broker, token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, connectMaxRetries-1), ctx))
	if err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}

	log.Printf("INFO: mqtt: connected to %s", cfg.Broker)

	go func() {
		<-ctx.Done()
		client.Disconnect(250)
		log.Println("INFO: mqtt: connection closed")
	}()

	return client, nil
}

// clientOptions builds the paho options for cfg. Message handlers run
// unordered so they may block and publish.
func clientOptions(cfg Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("WARN: mqtt: connection lost: %v", err)
	})
	opts.SetOrderMatters(false)
	return opts
}
