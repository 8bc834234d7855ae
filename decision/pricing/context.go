package pricing

import "strings"

// Context carries the caller supplied facts a validation depends on.
// PriorVersionExists is resolved by a version store before validating.
type Context struct {
	Organization       string     `json:"organization" yaml:"organization" validate:"required"`
	Name               string     `json:"name" yaml:"name" validate:"required"`
	Open               bool       `json:"open" yaml:"open"`
	AllowedCurrencies  Currencies `json:"allowed_currencies" yaml:"allowed_currencies"`
	PriorVersionExists bool       `json:"prior_version_exists" yaml:"prior_version_exists"`
}

// Currencies is the currency configuration of the store.
type Currencies struct {
	Default string            `json:"default" yaml:"default" validate:"omitempty,len=3"`
	Allowed []AllowedCurrency `json:"allowed" yaml:"allowed" validate:"dive"`
}

// AllowedCurrency is a currency the store accepts.
type AllowedCurrency struct {
	Currency string `json:"currency" yaml:"currency" validate:"required,len=3"`
	InUse    bool   `json:"in_use" yaml:"in_use"`
}

// Accepts reports whether code is allowed and currently in use.
func (c Currencies) Accepts(code string) bool {
	code = strings.TrimSpace(code)
	for _, a := range c.Allowed {
		if a.InUse && strings.EqualFold(a.Currency, code) {
			return true
		}
	}
	return false
}
