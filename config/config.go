/*
SPDX-License-Identifier: Apache-2.0
*/

// Package config holds the settings of the auction house chaincode process.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	auction "github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/smart-contract"
)

// Config is the chaincode process configuration
type Config struct {
	HouseID      string        `yaml:"houseId"`      // identity that holds deposited assets
	ContractName string        `yaml:"contractName"` // name clients address the contract by
	Server       ServerConfig  `yaml:"server"`
	Metrics      MetricsConfig `yaml:"metrics"`
	Log          LogConfig     `yaml:"log"`
}

// ServerConfig configures chaincode as a service. With an empty address the
// chaincode is started by the peer instead.
type ServerConfig struct {
	Address string    `yaml:"address"`
	CCID    string    `yaml:"ccid"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig points to PEM files
type TLSConfig struct {
	CertFile     string `yaml:"certFile"`
	KeyFile      string `yaml:"keyFile"`
	ClientCAFile string `yaml:"clientCAFile"`
}

// Enabled reports whether any TLS material is configured
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" || t.KeyFile != ""
}

// MetricsConfig configures the Prometheus endpoint, disabled when Address is empty
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		HouseID:      auction.DefaultHouseID,
		ContractName: auction.DefaultName,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies the
// environment overrides. An empty path only applies the overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from the environment. CHAINCODE_SERVER_ADDRESS
// and CHAINCODE_ID are the variables Fabric sets for external chaincode.
func (c *Config) applyEnv() {
	overrides := []struct {
		name  string
		field *string
	}{
		{"CHAINCODE_SERVER_ADDRESS", &c.Server.Address},
		{"CHAINCODE_ID", &c.Server.CCID},
		{"VICKREY_HOUSE_ID", &c.HouseID},
		{"VICKREY_METRICS_ADDRESS", &c.Metrics.Address},
		{"VICKREY_LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.name); ok {
			*o.field = v
		}
	}
}

// Validate checks that the configuration can be used to start the chaincode
func (c *Config) Validate() error {
	if c.HouseID == "" {
		return errors.New("house id must not be empty")
	}
	if c.ContractName == "" {
		return errors.New("contract name must not be empty")
	}
	if (c.Server.TLS.CertFile == "") != (c.Server.TLS.KeyFile == "") {
		return errors.New("tls needs both a certificate and a key")
	}
	if c.Server.Address != "" && c.Server.CCID == "" {
		return errors.New("chaincode id is required to run as a service")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
