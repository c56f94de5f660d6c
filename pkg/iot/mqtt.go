package iot

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/inkfeed/inkfeed/internal/config"
	"github.com/inkfeed/inkfeed/internal/utils"
	log "github.com/sirupsen/logrus"
)

const publishAttempts = 3

var errPublishTimeout = errors.New("mqtt publish timed out")

// MQTTPublisher is the AWS IoT Core transport: a TLS mutual-auth MQTT client
// publishing at QoS 1 with bounded retry.
type MQTTPublisher struct {
	client  mqtt.Client
	thing   string
	timeout time.Duration
	clock   utils.Clock
}

func NewMQTTPublisher(cfg config.MQTT, thing string, clock utils.Clock) (*MQTTPublisher, error) {
	tlsConfig, err := newTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tls://%s:%d", cfg.Endpoint, cfg.Port)).
		SetClientID(fmt.Sprintf("%s-%s", cfg.ClientId, uuid.NewString()[:8])).
		SetTLSConfig(tlsConfig).
		SetConnectTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetAutoReconnect(true).
		SetCleanSession(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second) {
		return nil, fmt.Errorf("connecting to %s timed out", cfg.Endpoint)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", cfg.Endpoint, err)
	}
	log.Infof("connected to MQTT broker %s:%d", cfg.Endpoint, cfg.Port)

	return &MQTTPublisher{
		client:  client,
		thing:   thing,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		clock:   clock,
	}, nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, doc any) (int, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("could not serialize document for %s: %w", topic, err)
	}

	err = retry.Do(
		func() error {
			token := p.client.Publish(topic, 1, false, data)
			if !token.WaitTimeout(p.timeout) {
				return errPublishTimeout
			}
			return token.Error()
		},
		retry.Context(ctx),
		retry.Attempts(publishAttempts),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("publish to %s failed (attempt %d): %v", topic, n+1, err)
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("unable to publish to %s: %w", topic, err)
	}

	log.Infof("published %d bytes to %s", len(data), topic)
	return len(data), nil
}

func (p *MQTTPublisher) UpdateShadow(ctx context.Context, key string, doc any) error {
	update := NewShadowUpdate(key, doc, p.clock.Now())
	if _, err := p.Publish(ctx, ShadowUpdateTopic(p.thing), update); err != nil {
		return err
	}
	log.Debugf("updated shadow key %q for %s", key, p.thing)
	return nil
}

// Close disconnects the MQTT client, allowing in-flight messages to drain.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

func newTLSConfig(cfg config.MQTT) (*tls.Config, error) {
	caCert, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("could not read CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("could not parse CA certificate from %s", cfg.CAFile)
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("could not load device certificate: %w", err)
	}

	return &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
