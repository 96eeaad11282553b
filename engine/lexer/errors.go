package lexer

import "fmt"

// ScanError reports input the scanner cannot split into tokens
type ScanError struct {
	Message  string
	Position int    // rune offset of the offending '('
	Fragment string // remaining text from Position
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at position %d: %s in '%s'", e.Position, e.Message, e.Fragment)
}
