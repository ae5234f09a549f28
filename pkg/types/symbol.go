package types

import (
	"strings"
)

// TypeKind distinguishes the three shapes a type annotation can take
type TypeKind uint8

const (
	// TypeUntyped means the declaration carried no annotation at all
	TypeUntyped TypeKind = iota
	// TypeNamed means the annotation was present and readable
	TypeNamed
	// TypeUnparsable means an annotation was present but could not be rendered
	TypeUnparsable
)

// AnyType is the display name used for annotations that are not named
const AnyType = "Any"

// TypeRef is a type annotation attached to a parameter or a return value.
// It renders as "Any" only at display time; the distinction between an
// absent and an unreadable annotation is kept for tokenization.
type TypeRef struct {
	Kind TypeKind `json:"kind"`
	Name string   `json:"name,omitempty"`
}

// Named returns a TypeRef for a readable annotation
func Named(name string) TypeRef {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return Unparsable()
	}
	return TypeRef{Kind: TypeNamed, Name: name}
}

// Untyped returns a TypeRef for a missing annotation
func Untyped() TypeRef {
	return TypeRef{Kind: TypeUntyped}
}

// Unparsable returns a TypeRef for an annotation that could not be read
func Unparsable() TypeRef {
	return TypeRef{Kind: TypeUnparsable}
}

// IsUntyped reports whether no annotation was present
func (t TypeRef) IsUntyped() bool {
	return t.Kind == TypeUntyped
}

// String renders the annotation, falling back to "Any"
func (t TypeRef) String() string {
	if t.Kind == TypeNamed {
		return t.Name
	}
	return AnyType
}

// Category labels which corpus an entity belongs to
type Category string

const (
	CategoryFunction Category = "Function"
	CategoryClass    Category = "Class"
)

// ParseCategory resolves a user supplied category name, ignoring case
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "function", "functions":
		return CategoryFunction, true
	case "class", "classes":
		return CategoryClass, true
	default:
		return "", false
	}
}

// Param is a single declared parameter
type Param struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Render returns the parameter as it appears in a signature
func (p Param) Render() string {
	if p.Type.IsUntyped() {
		return p.Name
	}
	return p.Name + ": " + p.Type.String()
}

// FunctionEntry is a top-level function or a method extracted from the
// declaration source
type FunctionEntry struct {
	// Identification
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	ParentClass string `json:"parent_class,omitempty"` // Empty for top-level functions

	// Declaration
	Parameters []Param `json:"parameters"`
	ReturnType TypeRef `json:"return_type"`
	Signature  string  `json:"signature"`
	Docstring  string  `json:"docstring,omitempty"`

	// Decorator flags
	Property    bool `json:"property,omitempty"`
	ClassMethod bool `json:"class_method,omitempty"`
}

// IsMethod reports whether the function belongs to a class
func (f *FunctionEntry) IsMethod() bool {
	return f.ParentClass != ""
}

// Validate checks if the entry is well formed
func (f *FunctionEntry) Validate() error {
	if f.Name == "" {
		return ErrEmptyName
	}
	if f.FullName == "" {
		return ErrEmptyName
	}
	if f.Signature == "" {
		return ErrEmptySignature
	}
	return nil
}

// ClassEntry is a class extracted from the declaration source
type ClassEntry struct {
	Name      string `json:"name"`
	Docstring string `json:"docstring,omitempty"`
}

// Validate checks if the entry is well formed
func (c *ClassEntry) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// FormatSignature renders the canonical signature string for a function.
// Property getters collapse to their value type; classmethods carry a
// "@classmethod " prefix.
func FormatSignature(name string, params []Param, returns TypeRef, property, classMethod bool) string {
	if property {
		return returns.String()
	}

	rendered := make([]string, len(params))
	for i, p := range params {
		rendered[i] = p.Render()
	}

	sig := name + "(" + strings.Join(rendered, ", ") + ") -> " + returns.String()
	if classMethod {
		sig = "@classmethod " + sig
	}
	return sig
}
