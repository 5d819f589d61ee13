package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// bcrypt refuses costs outside [4, 31]; stay inside that range.
	if c.Auth.HashCost != 0 && (c.Auth.HashCost < 4 || c.Auth.HashCost > 31) {
		errs = append(errs, fmt.Errorf("auth.hash_cost must be between 4 and 31, got %d", c.Auth.HashCost))
	}

	if c.Auth.HashSlots < 0 {
		errs = append(errs, fmt.Errorf("auth.hash_slots must be >= 0, got %d", c.Auth.HashSlots))
	}

	return errors.Join(errs...)
}
