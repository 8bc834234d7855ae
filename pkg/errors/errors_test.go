package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressionErrorPrefix(t *testing.T) {
	err := NewExpressionError("Invalid operation")
	assert.Equal(t, "Invalid price function: Invalid operation", err.Error())
	assert.True(t, IsExpression(err))
	assert.False(t, IsFormat(err))
}

func TestFormatErrorWrapsCause(t *testing.T) {
	err := NewFormatError(io.ErrUnexpectedEOF)
	assert.Equal(t, "Error the document has not a valid rdf format", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, IsFormat(wrapped))
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "format", kind.String())
}

func TestValidationErrorDetail(t *testing.T) {
	err := NewValidationError("single-service", "Only a Service included in the offering is supported")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "[validation] RULE_VIOLATION (single-service): Only a Service included in the offering is supported", err.Detail())

	sem := NewSemanticError(CodeNoServices, "No services included")
	assert.True(t, IsSemantic(sem))
	assert.Equal(t, "[semantic] NO_SERVICES: No services included", sem.Detail())
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(io.EOF)
	assert.False(t, ok)
	assert.False(t, IsValidation(nil))
}
