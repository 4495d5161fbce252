package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a loaded Config against its struct tags and the
// cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config field %s failed %q validation", f.Field(), f.Tag())
		}
		return fmt.Errorf("config validation: %w", err)
	}

	if cfg.Storage == StorageJSONFile && cfg.DataPath == "" {
		return errors.New("DATA_PATH must be set for the jsonfile storage backend")
	}
	if cfg.Storage == StoragePostgres && cfg.DBName == "" {
		return errors.New("DB_NAME must be set for the postgres storage backend")
	}
	return nil
}
