package platform

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"usdl-offering/decision/pricing"
)

var validate = validator.New()

func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// StoreConfig selects and configures the offering version store.
type StoreConfig struct {
	Driver      string `yaml:"driver" validate:"oneof=memory clickhouse postgres"`
	ClickHouse  string `yaml:"clickhouse_addr" validate:"required_if=Driver clickhouse"`
	PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Driver postgres"`
}

// StoreConfigFromEnv reads the store configuration from the environment.
func StoreConfigFromEnv() StoreConfig {
	return StoreConfig{
		Driver:      GetEnv("OFFERING_STORE", "memory"),
		ClickHouse:  GetEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		PostgresDSN: GetEnv("POSTGRES_DSN", ""),
	}
}

// Validate checks the store configuration is usable.
func (c StoreConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid store config: %w", err)
	}
	return nil
}

// LoadValidationContext reads a validation context from a YAML file.
func LoadValidationContext(path string) (*pricing.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load validation context %q: %w", path, err)
	}
	return ParseValidationContext(data)
}

// ParseValidationContext decodes and validates a YAML validation context.
// A missing default currency is taken from the first allowed one.
func ParseValidationContext(data []byte) (*pricing.Context, error) {
	var vctx pricing.Context
	if err := yaml.Unmarshal(data, &vctx); err != nil {
		return nil, fmt.Errorf("parse validation context: %w", err)
	}
	if vctx.AllowedCurrencies.Default == "" && len(vctx.AllowedCurrencies.Allowed) > 0 {
		vctx.AllowedCurrencies.Default = vctx.AllowedCurrencies.Allowed[0].Currency
	}
	if err := validate.Struct(vctx); err != nil {
		return nil, fmt.Errorf("invalid validation context: %w", err)
	}
	return &vctx, nil
}
