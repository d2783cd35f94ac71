package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error tag constants for the calculator error kinds.
const (
	TagInvalidExpression = "InvalidExpression"
	TagDivisionByZero    = "DivisionByZero"
	TagNotFound          = "NotFound"
)

// CalcError represents a calculator error with message, code, and tags.
type CalcError struct {
	Message string
	Code    int64
	Tags    []string
}

// Error implements the error interface.
func (e *CalcError) Error() string {
	return fmt.Sprintf("%s (code=%d, tags=[%s])", e.Message, e.Code, strings.Join(e.Tags, ", "))
}

// HasTag returns true if the error has the specified tag.
func (e *CalcError) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// hasTag reports whether err is a *CalcError carrying the tag.
func hasTag(err error, tag string) bool {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.HasTag(tag)
	}
	return false
}

// IsInvalidExpression reports whether err is an InvalidExpression error.
func IsInvalidExpression(err error) bool {
	return hasTag(err, TagInvalidExpression)
}

// IsDivisionByZero reports whether err is a DivisionByZero error.
func IsDivisionByZero(err error) bool {
	return hasTag(err, TagDivisionByZero)
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return hasTag(err, TagNotFound)
}

// Common error constructors.

// NewInvalidExpressionError creates an InvalidExpression error. The message is
// prefixed with "invalid expression" so front ends can surface it verbatim.
func NewInvalidExpressionError(msg string) *CalcError {
	if msg == "" {
		return &CalcError{Message: "invalid expression", Code: 0, Tags: []string{TagInvalidExpression}}
	}
	return &CalcError{Message: "invalid expression: " + msg, Code: 0, Tags: []string{TagInvalidExpression}}
}

// NewZeroDivisionError creates a DivisionByZero error.
func NewZeroDivisionError() *CalcError {
	return &CalcError{Message: "division by zero", Code: 0, Tags: []string{TagDivisionByZero}}
}

// NewNotFoundError creates a NotFound error.
func NewNotFoundError(msg string) *CalcError {
	return &CalcError{Message: msg, Code: 404, Tags: []string{TagNotFound}}
}
