package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// GetAdapterConfig reads only the ADAPTER_* variables. The command-line
// client uses it so it does not need the server's database and token
// settings.
func GetAdapterConfig() (Adapter, error) {
	var cfg Adapter
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "ADAPTER_"}); err != nil {
		return Adapter{}, fmt.Errorf("error getting adapter env configs: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "http://localhost" + DefaultHTTPAddress
	}

	return cfg, nil
}
