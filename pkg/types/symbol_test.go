package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunctionEntry_IsMethod(t *testing.T) {
	assert.True(t, (&FunctionEntry{Name: "tick", ParentClass: "Actor"}).IsMethod())
	assert.False(t, (&FunctionEntry{Name: "log"}).IsMethod())
}

func TestParseResult_Counts(t *testing.T) {
	result := &ParseResult{
		Functions: []FunctionEntry{{Name: "log"}, {Name: "tick", ParentClass: "Actor"}},
		Classes:   []ClassEntry{{Name: "Actor"}},
	}
	assert.Equal(t, 2, result.FunctionCount())
	assert.Equal(t, 1, result.ClassCount())
	assert.True(t, result.HasClass("Actor"))
	assert.False(t, result.HasClass("Vector"))
}
