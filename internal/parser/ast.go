package parser

// The stub AST is the small tagged tree the extractor walks. It is lowered
// from the tree-sitter concrete syntax tree and keeps only what a declaration
// stub can say: classes, functions, decorators, parameters and annotations.

// Position is a 1-based location in the sanitized source
type Position struct {
	Line   int
	Column int
}

// Pos returns the position itself so embedding types satisfy Node
func (p Position) Pos() Position { return p }

// Node is a statement kept by the lowering pass
type Node interface {
	Pos() Position
	stmt()
}

// Module is the root of a lowered declaration source
type Module struct {
	Body []Node
}

// ClassDef is a class declaration with the functions of its body
type ClassDef struct {
	Position
	Name       string
	Decorators []Decorator
	Doc        string
	Methods    []*FunctionDef
}

// FunctionDef is a function or method declaration
type FunctionDef struct {
	Position
	Name       string
	Decorators []Decorator
	Params     []Param
	Returns    Annotation
	Doc        string
}

func (*ClassDef) stmt()    {}
func (*FunctionDef) stmt() {}

// DecoratorKind tells a bare name decorator from an attribute one
type DecoratorKind uint8

const (
	// DecoratorOther covers calls and any other expression
	DecoratorOther DecoratorKind = iota
	// DecoratorName is a bare identifier such as @property
	DecoratorName
	// DecoratorAttribute is a dotted access such as @value.setter
	DecoratorAttribute
)

// Decorator is a single decorator line
type Decorator struct {
	Position
	Kind   DecoratorKind
	Object string // Left side of an attribute decorator
	Name   string // Identifier, or the attribute name
}

// Is reports whether the decorator is the bare name n
func (d Decorator) Is(n string) bool {
	return d.Kind == DecoratorName && d.Name == n
}

// IsAccessor reports whether the decorator declares a property setter or deleter
func (d Decorator) IsAccessor() bool {
	return d.Kind == DecoratorAttribute && (d.Name == "setter" || d.Name == "deleter")
}

// Param is a named, non-variadic parameter
type Param struct {
	Position
	Name       string
	Annotation Annotation
	HasDefault bool
}

// AnnotationKind tags the annotation variants
type AnnotationKind uint8

const (
	AnnotationAbsent AnnotationKind = iota
	AnnotationExpr
	AnnotationInvalid
)

// Annotation is the type expression attached to a parameter or return
type Annotation struct {
	Kind AnnotationKind
	Text string
}
