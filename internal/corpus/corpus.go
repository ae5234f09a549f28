package corpus

import (
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// Corpus is a list of token documents. Document i belongs to entity i of
// the list it was built from.
type Corpus [][]string

// Len returns the number of documents
func (c Corpus) Len() int {
	return len(c)
}

// FunctionDocument returns the search terms of a function entry: its name,
// full name, parent class, parameter names and annotated types, return type,
// and the words of its docstring.
func FunctionDocument(fn *types.FunctionEntry) []string {
	tokens := make([]string, 0, 16)
	tokens = append(tokens, SplitIdentifier(fn.Name)...)
	tokens = append(tokens, SplitIdentifier(fn.FullName)...)

	if fn.IsMethod() {
		tokens = append(tokens, SplitIdentifier(fn.ParentClass)...)
	}

	for _, p := range fn.Parameters {
		tokens = append(tokens, SplitIdentifier(p.Name)...)
		if !p.Type.IsUntyped() {
			tokens = append(tokens, SplitIdentifier(p.Type.String())...)
		}
	}

	tokens = append(tokens, SplitIdentifier(fn.ReturnType.String())...)

	if fn.Docstring != "" {
		tokens = append(tokens, TokenizeProse(fn.Docstring)...)
	}
	return tokens
}

// ClassDocument returns the search terms of a class entry
func ClassDocument(class *types.ClassEntry) []string {
	tokens := SplitIdentifier(class.Name)
	if class.Docstring != "" {
		tokens = append(tokens, TokenizeProse(class.Docstring)...)
	}
	return tokens
}

// BuildFunctions tokenizes every function entry in order
func BuildFunctions(functions []types.FunctionEntry) Corpus {
	docs := make(Corpus, len(functions))
	for i := range functions {
		docs[i] = FunctionDocument(&functions[i])
	}
	return docs
}

// BuildClasses tokenizes every class entry in order
func BuildClasses(classes []types.ClassEntry) Corpus {
	docs := make(Corpus, len(classes))
	for i := range classes {
		docs[i] = ClassDocument(&classes[i])
	}
	return docs
}
