package types

import "fmt"

// ParseResult represents the output of extracting a declaration source
type ParseResult struct {
	// Extracted data, in source order
	Functions []FunctionEntry
	Classes   []ClassEntry

	// Names of synthetic classes added after extraction
	Injected []string
}

// ParseError represents a fatal syntax error in the declaration source
type ParseError struct {
	File    string
	Line    int
	Column  int
	Snippet string // Offending source line
	Message string
}

// Error implements the error interface
func (pe *ParseError) Error() string {
	if pe.Snippet == "" {
		return fmt.Sprintf("%s:%d:%d: %s", pe.File, pe.Line, pe.Column, pe.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %q", pe.File, pe.Line, pe.Column, pe.Message, pe.Snippet)
}

// Is lets errors.Is match ErrParse
func (pe *ParseError) Is(target error) bool {
	return target == ErrParse
}

// FunctionCount returns the number of extracted functions and methods
func (pr *ParseResult) FunctionCount() int {
	return len(pr.Functions)
}

// ClassCount returns the number of extracted classes, synthetic ones included
func (pr *ParseResult) ClassCount() int {
	return len(pr.Classes)
}

// HasClass reports whether a class with the given name was extracted
func (pr *ParseResult) HasClass(name string) bool {
	for i := range pr.Classes {
		if pr.Classes[i].Name == name {
			return true
		}
	}
	return false
}
