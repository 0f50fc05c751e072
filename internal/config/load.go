package config

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/mazeharness/internal/ctxlog"
)

// DefaultDotEnvPath is read relative to the working directory.
const DefaultDotEnvPath = ".env"

// Sources names the inputs Load layers over the defaults.
type Sources struct {
	// ConfigPath is an .hcl file or a directory of them. Empty skips HCL.
	ConfigPath string
	// DotEnvPath is a .env file whose values sit below the real environment.
	DotEnvPath string
	// Environ defaults to os.Environ().
	Environ []string
}

// Load builds a Config from defaults, the HCL file(s), the .env file and the
// environment, in that order. The result is not validated; callers apply
// flag overrides first and then call Validate.
func Load(ctx context.Context, src Sources) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Config loader started.", "config", src.ConfigPath, "dotenv", src.DotEnvPath)

	environ := src.Environ
	if environ == nil {
		environ = os.Environ()
	}

	dotenv, err := ReadDotEnv(src.DotEnvPath)
	if err != nil {
		return nil, err
	}
	// Real environment entries come last so they override .env values.
	merged := append(append([]string{}, dotenv...), environ...)

	cfg := Default()
	if src.ConfigPath != "" {
		if err := LoadHCL(ctx, src.ConfigPath, cfg, merged); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg, merged); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	logger.Debug("Config loader finished.")
	return cfg, nil
}
