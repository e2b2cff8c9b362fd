package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/chatrelay/internal/flagx"
	"github.com/dmitrijs2005/chatrelay/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	WriteWait                   timex.Duration `json:"write_wait"`
	PongWait                    timex.Duration `json:"pong_wait"`
	PingPeriod                  timex.Duration `json:"ping_period"`
	MaxMessageSize              int64          `json:"max_message_size"`
	SendBuffer                  int            `json:"send_buffer"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics: a half-applied config is worse than a
// failed start. Absent fields keep the value already in Config.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.WriteWait.Duration != 0 {
		config.WriteWait = time.Duration(c.WriteWait.Duration)
	}
	if c.PongWait.Duration != 0 {
		config.PongWait = time.Duration(c.PongWait.Duration)
	}
	if c.PingPeriod.Duration != 0 {
		config.PingPeriod = time.Duration(c.PingPeriod.Duration)
	}
	if c.MaxMessageSize != 0 {
		config.MaxMessageSize = c.MaxMessageSize
	}
	if c.SendBuffer != 0 {
		config.SendBuffer = c.SendBuffer
	}
}
