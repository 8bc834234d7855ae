// Package errors provides the typed error taxonomy shared by the offering
// parser and the pricing validator.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies where an offering error originated.
type Kind int

const (
	KindFormat Kind = iota
	KindSemantic
	KindExpression
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindSemantic:
		return "semantic"
	case KindExpression:
		return "expression"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error codes
const (
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeNoOffering      = "NO_OFFERING"
	CodeNoServices      = "NO_SERVICES"
	CodeInvalidFunction = "INVALID_PRICE_FUNCTION"
	CodeRuleViolation   = "RULE_VIOLATION"
)

const (
	priceFunctionMsgPrefix = "Invalid price function: "
	formatErrorMessage     = "Error the document has not a valid rdf format"
)

// OfferingError is a deterministic error raised while parsing or validating an
// offering description. Error returns Message verbatim so it can be surfaced
// unchanged to the calling layer.
type OfferingError struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	// Rule names the validation rule that failed, empty for parse errors.
	Rule string `json:"rule,omitempty"`
	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

func (e *OfferingError) Error() string {
	return e.Message
}

func (e *OfferingError) Unwrap() error {
	return e.Err
}

// Detail renders the error with its classification, for logs.
func (e *OfferingError) Detail() string {
	if e.Rule != "" {
		return fmt.Sprintf("[%s] %s (%s): %s", e.Kind, e.Code, e.Rule, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Code, e.Message)
}

// NewFormatError reports an unsupported content type or an undecodable document.
func NewFormatError(cause error) *OfferingError {
	return &OfferingError{
		Kind:    KindFormat,
		Code:    CodeInvalidFormat,
		Message: formatErrorMessage,
		Err:     cause,
	}
}

// NewSemanticError reports a graph missing a required structural node.
func NewSemanticError(code, message string) *OfferingError {
	return &OfferingError{
		Kind:    KindSemantic,
		Code:    code,
		Message: message,
	}
}

// NewExpressionError reports a malformed price function. The reason is
// prefixed with "Invalid price function: ".
func NewExpressionError(reason string) *OfferingError {
	return &OfferingError{
		Kind:    KindExpression,
		Code:    CodeInvalidFunction,
		Message: priceFunctionMsgPrefix + reason,
	}
}

// NewValidationError reports a pricing rule violation.
func NewValidationError(rule, message string) *OfferingError {
	return &OfferingError{
		Kind:    KindValidation,
		Code:    CodeRuleViolation,
		Message: message,
		Rule:    rule,
	}
}

// KindOf returns the kind of err if it is (or wraps) an OfferingError.
func KindOf(err error) (Kind, bool) {
	var oe *OfferingError
	if stderrors.As(err, &oe) {
		return oe.Kind, true
	}
	return 0, false
}

func IsFormat(err error) bool     { return is(err, KindFormat) }
func IsSemantic(err error) bool   { return is(err, KindSemantic) }
func IsExpression(err error) bool { return is(err, KindExpression) }
func IsValidation(err error) bool { return is(err, KindValidation) }

func is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
