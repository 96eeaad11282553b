package translator

import (
	"errors"
	"fmt"

	"github.com/ratst-engine/ratst/mapping"
)

// ErrUnsupportedDialect is returned for an unknown target dialect
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// GenerationError reports a tree the generator cannot render
type GenerationError struct {
	Operator mapping.Operator
	Message  string
}

func (e *GenerationError) Error() string {
	if e.Operator == "" {
		return "generation error: " + e.Message
	}
	return fmt.Sprintf("generation error in %s '%s': %s", e.Operator.Name(), e.Operator, e.Message)
}

func generationError(op mapping.Operator, format string, args ...any) *GenerationError {
	return &GenerationError{Operator: op, Message: fmt.Sprintf(format, args...)}
}
