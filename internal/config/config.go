package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Record  RecordConfig  `yaml:"record"`
	GeoJSON GeoJSONConfig `yaml:"geojson"`
	Web     WebConfig     `yaml:"web"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Forward ForwardConfig `yaml:"forward"`
}

// SourceConfig selects where NMEA lines come from.
//
// Kind is one of "file", "serial", "tcp", "gpsd" or "replay".
type SourceConfig struct {
	Kind string `yaml:"kind"`

	// Path is the NMEA text file (kind=file, "-" for stdin) or the replay log
	// (kind=replay).
	Path string `yaml:"path"`

	// Device may be empty to auto-detect /dev/ttyACM* or /dev/ttyUSB*.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	// Addr is host:port of a TCP NMEA feed (e.g. gpsd raw mode or a multiplexer).
	Addr           string        `yaml:"addr"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`

	ReplaySpeed float64 `yaml:"replay_speed"`
	ReplayLoop  bool    `yaml:"replay_loop"`
}

type RecordConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type GeoJSONConfig struct {
	ID       int    `yaml:"id"`
	Output   string `yaml:"output"`
	SkipVoid bool   `yaml:"skip_void"`
}

type WebConfig struct {
	Listen   string `yaml:"listen"`
	LogLines int    `yaml:"log_lines"`
}

type MQTTConfig struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Retained bool   `yaml:"retained"`
}

// ForwardConfig re-sends every verified sentence as a UDP datagram.
type ForwardConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse applies defaults and validation to a YAML document.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = "file"
	}
	switch cfg.Source.Kind {
	case "file":
		if cfg.Source.Path == "" {
			return Config{}, fmt.Errorf("source.path is required when source.kind is 'file'")
		}
	case "serial":
		if cfg.Source.Baud == 0 {
			cfg.Source.Baud = 9600
		}
		if cfg.Source.Baud < 0 {
			return Config{}, fmt.Errorf("source.baud must be > 0")
		}
	case "tcp":
		if cfg.Source.Addr == "" {
			return Config{}, fmt.Errorf("source.addr is required when source.kind is 'tcp'")
		}
		if cfg.Source.ReconnectDelay <= 0 {
			cfg.Source.ReconnectDelay = 1 * time.Second
		}
	case "gpsd":
		if cfg.Source.Addr == "" {
			cfg.Source.Addr = "127.0.0.1:2947"
		}
		if cfg.Source.ReconnectDelay <= 0 {
			cfg.Source.ReconnectDelay = 1 * time.Second
		}
	case "replay":
		if cfg.Source.Path == "" {
			return Config{}, fmt.Errorf("source.path is required when source.kind is 'replay'")
		}
		if cfg.Source.ReplaySpeed == 0 {
			cfg.Source.ReplaySpeed = 1
		}
		if cfg.Source.ReplaySpeed < 0 {
			return Config{}, fmt.Errorf("source.replay_speed must be > 0")
		}
	default:
		return Config{}, fmt.Errorf("source.kind must be one of file, serial, tcp, gpsd, replay (got %q)", cfg.Source.Kind)
	}

	if cfg.Record.Enable {
		if cfg.Record.Path == "" {
			return Config{}, fmt.Errorf("record.path is required when record.enable is true")
		}
		if cfg.Source.Kind == "replay" {
			return Config{}, fmt.Errorf("record cannot be used with source.kind 'replay'")
		}
	}

	if cfg.GeoJSON.ID == 0 {
		cfg.GeoJSON.ID = 2
	}

	if cfg.Web.LogLines <= 0 {
		cfg.Web.LogLines = 2000
	}

	if cfg.MQTT.Enable {
		if cfg.MQTT.Broker == "" {
			cfg.MQTT.Broker = "tcp://localhost:1883"
		}
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "nmea2geojson"
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = "nmea/fix"
		}
		if cfg.MQTT.QoS > 2 {
			return Config{}, fmt.Errorf("mqtt.qos must be 0, 1 or 2")
		}
	}

	if cfg.Forward.Enable && strings.TrimSpace(cfg.Forward.Dest) == "" {
		cfg.Forward.Dest = "127.0.0.1:10110"
	}

	return cfg, nil
}
