// Package pricing provides the pricing validation engine.
// Evaluates ordered pricing rules against parsed offerings
package pricing

import (
	"context"

	"github.com/rs/zerolog"

	"usdl-offering/decision/usdl"
	oerrors "usdl-offering/pkg/errors"
)

// Result is the validation outcome. Message is the first violation found.
type Result struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message,omitempty"`
	Rule     string `json:"rule,omitempty"`
	RulesRan int    `json:"rules_ran"`

	// Offering is the parsed offering, nil when parsing failed.
	Offering *usdl.Offering `json:"-"`

	err error
}

// Err returns the failure as an error, nil when the offering is valid.
func (r Result) Err() error {
	return r.err
}

func failed(err error) Result {
	return Result{Valid: false, Message: err.Error(), err: err}
}

// Engine evaluates pricing rules in order and stops at the first violation
type Engine struct {
	rules  []Rule
	parser *usdl.Parser
}

// NewEngine creates a new engine with the default rules
func NewEngine() *Engine {
	return &Engine{
		rules:  defaultRules(),
		parser: usdl.NewParser(),
	}
}

// WithParser configures the parser used by ValidateDocument
func (e *Engine) WithParser(p *usdl.Parser) *Engine {
	e.parser = p
	return e
}

// AddRule appends a rule, evaluated after the existing ones
func (e *Engine) AddRule(r Rule) {
	e.rules = append(e.rules, r)
}

// Validate runs every rule against the offering.
func (e *Engine) Validate(offering *usdl.Offering, vctx Context) Result {
	if offering == nil {
		return failed(oerrors.NewSemanticError(oerrors.CodeNoOffering, "No service offering has been defined"))
	}

	result := Result{Valid: true, Offering: offering}
	for _, rule := range e.rules {
		result.RulesRan++
		if msg := rule.Check(offering, vctx); msg != "" {
			result.Valid = false
			result.Message = msg
			result.Rule = rule.Name
			result.err = oerrors.NewValidationError(rule.Name, msg)
			return result
		}
	}
	return result
}

// ValidateDocument parses data and validates the resulting offering. Parse
// failures are reported as an invalid result carrying the parser message.
func (e *Engine) ValidateDocument(ctx context.Context, data []byte, contentType string, vctx Context) Result {
	logger := zerolog.Ctx(ctx)

	offering, err := e.parser.Parse(ctx, data, contentType)
	if err != nil {
		logger.Debug().Err(err).Str("content_type", contentType).Msg("offering rejected by parser")
		return failed(err)
	}

	result := e.Validate(offering, vctx)
	logger.Debug().
		Bool("valid", result.Valid).
		Str("rule", result.Rule).
		Int("rules_ran", result.RulesRan).
		Msg("offering validated")
	return result
}

// Validate checks offering with the default rules.
func Validate(offering *usdl.Offering, vctx Context) Result {
	return NewEngine().Validate(offering, vctx)
}

// ValidateDocument parses and validates data with the default rules.
func ValidateDocument(ctx context.Context, data []byte, contentType string, vctx Context) Result {
	return NewEngine().ValidateDocument(ctx, data, contentType, vctx)
}
