package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/watchdeck/watchdeck/internal/flagx"
	"github.com/watchdeck/watchdeck/internal/timex"
)

// jsonConfig is the DTO used only for reading JSON configuration files.
// Duration fields accept both "24h" strings and integer nanoseconds; after
// unmarshalling, set fields are copied into the runtime Config.
type jsonConfig struct {
	EndpointAddrHTTP *string         `json:"endpoint_addr_http"`
	DataDir          *string         `json:"data_dir"`
	StaticDir        *string         `json:"static_dir"`
	SessionTTL       *timex.Duration `json:"session_ttl"`
	SweepInterval    *timex.Duration `json:"sweep_interval"`
}

// parseJSON overlays values from the JSON file named by the -c/-config
// flags, if any. A missing flag means no file is loaded. An unreadable or
// invalid file is a configuration error and panics, matching flag parsing.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DataDir != nil {
		config.DataDir = *c.DataDir
	}
	if c.StaticDir != nil {
		config.StaticDir = *c.StaticDir
	}
	if c.SessionTTL != nil {
		config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	}
	if c.SweepInterval != nil {
		config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	}
}
