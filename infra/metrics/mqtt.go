package metrics

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/kilianp07/ucga/core/metrics"
	"github.com/kilianp07/ucga/infra/logger"
)

// MQTTConfig defines the broker connection and topic of the progress feed.
type MQTTConfig struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the prefix; events go to <Topic>/generation and <Topic>/run.
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	MaxRetries int    `json:"max_retries"`
	BackoffMS  int    `json:"backoff_ms"`
}

func (c *MQTTConfig) setDefaults() {
	if c.ClientID == "" {
		c.ClientID = "ucga-" + uuid.NewString()
	}
	if c.Topic == "" {
		c.Topic = "ucga"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTSink publishes generation events as JSON documents. Run summaries are
// retained so late subscribers see the last result.
type MQTTSink struct {
	cli        pahoClient
	topic      string
	qos        byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewMQTTSink connects to the broker.
func NewMQTTSink(cfg MQTTConfig, opts ...Option) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt sink: broker is required")
	}
	cfg.setDefaults()
	log := buildOptions("mqtt-sink", opts).log
	copts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	copts.AutoReconnect = true
	if cfg.Username != "" {
		copts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		copts.SetPassword(cfg.Password)
	}
	copts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	copts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(copts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt sink: connect %s: %w", cfg.Broker, token.Error())
	}
	log.Infof("MQTT connected to %s", cfg.Broker)
	return &MQTTSink{
		cli:        c,
		topic:      strings.TrimSuffix(cfg.Topic, "/"),
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// RecordGeneration publishes ev to <topic>/generation.
func (s *MQTTSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	return s.publish(s.topic+"/generation", false, ev)
}

// RecordRun publishes sum to <topic>/run as a retained message.
func (s *MQTTSink) RecordRun(sum coremetrics.RunSummary) error {
	return s.publish(s.topic+"/run", true, sum)
}

func (s *MQTTSink) publish(topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		token := s.cli.Publish(topic, s.qos, retained, payload)
		token.Wait()
		if publishErr = token.Error(); publishErr == nil {
			return nil
		}
		s.log.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt < s.maxRetries {
			time.Sleep(s.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() {
	if s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
