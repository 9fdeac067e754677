package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TransportMode selects which back-end the dispatcher activates.
type TransportMode int

const (
	ModeFile TransportMode = iota + 1
	ModeDatagram
	ModeBroker
	ModeFramedStream
	ModePubSubOverlay
)

// SASLMechanism enumerates the broker's supported SASL mechanisms.
type SASLMechanism int

const (
	SASLPlain SASLMechanism = iota
	SASLScramSHA256
	SASLScramSHA512
)

type Config struct {
	Enabled bool          `yaml:"telemetry_enabled"`
	Mode    TransportMode `yaml:"telemetry_mode"`

	Datagram DatagramConfig `yaml:"datagram"`
	Broker   BrokerConfig   `yaml:"broker"`
	WS       WSConfig       `yaml:"websocket"`
}

type DatagramConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type BrokerConfig struct {
	Brokers       string        `yaml:"brokers"`
	Topic         string        `yaml:"topic"`
	FeedbackTopic string        `yaml:"feedback_topic"`
	SSL           bool          `yaml:"ssl"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	SASLMechanism SASLMechanism `yaml:"sasl_mechanism"`
}

type WSConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Resource   string `yaml:"resource"`
	TLSEnabled bool   `yaml:"tls_enabled"`
	KVMode     bool   `yaml:"kv_mode"`
	Fwmark     uint32 `yaml:"fwmark"` // 0 = disabled
}

// LoadConfig reads and validates the telemetry configuration, backfilling
// defaults for anything the file left zero-valued.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == 0 {
		c.Mode = ModeFile
	}
	if c.Datagram.Host == "" {
		c.Datagram.Host = "127.0.0.1"
	}
	if c.Datagram.Port == 0 {
		c.Datagram.Port = 9999
	}
	if c.Broker.Topic == "" {
		c.Broker.Topic = "doom-telemetry"
	}
	if c.WS.Host == "" {
		c.WS.Host = "127.0.0.1"
	}
	if c.WS.Port == 0 {
		c.WS.Port = 8080
	}
	if c.WS.Resource == "" {
		c.WS.Resource = "/telemetry"
	}
}

func (c *Config) validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Mode {
	case ModeFile, ModeDatagram:
		return nil
	case ModeBroker:
		if c.Broker.Brokers == "" {
			return fmt.Errorf("%w: broker mode requires broker.brokers", ErrConfigInvalid)
		}
	case ModeFramedStream, ModePubSubOverlay:
		if c.WS.Host == "" {
			return fmt.Errorf("%w: websocket mode requires websocket.host", ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: telemetry_mode %d", ErrUnsupportedMode, c.Mode)
	}
	return nil
}
