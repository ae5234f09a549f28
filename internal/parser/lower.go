package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// lowerer converts the tree-sitter concrete syntax tree into the stub AST
type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(l.src)
}

func position(n *sitter.Node) Position {
	p := n.StartPoint()
	return Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// namedChildren returns the named children of n, comments excluded
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		children = append(children, c)
	}
	return children
}

// module lowers the root node. Only top-level classes and functions are kept.
func (l *lowerer) module(root *sitter.Node) *Module {
	m := &Module{}
	for _, child := range namedChildren(root) {
		if stmt := l.statement(child); stmt != nil {
			m.Body = append(m.Body, stmt)
		}
	}
	return m
}

func (l *lowerer) statement(n *sitter.Node) Node {
	switch n.Type() {
	case "class_definition":
		return l.class(n, nil)
	case "function_definition":
		if fn := l.function(n, nil); fn != nil {
			return fn
		}
	case "decorated_definition":
		decorators := l.decorators(n)
		def := n.ChildByFieldName("definition")
		if def == nil {
			return nil
		}
		switch def.Type() {
		case "class_definition":
			return l.class(def, decorators)
		case "function_definition":
			if fn := l.function(def, decorators); fn != nil {
				return fn
			}
		}
	}
	return nil
}

func (l *lowerer) class(n *sitter.Node, decorators []Decorator) *ClassDef {
	body := n.ChildByFieldName("body")
	class := &ClassDef{
		Position:   position(n),
		Name:       l.text(n.ChildByFieldName("name")),
		Decorators: decorators,
		Doc:        l.docstring(body),
	}

	// Nested classes and other statements are not part of the catalog
	for _, child := range namedChildren(body) {
		if fn, ok := l.statement(child).(*FunctionDef); ok {
			class.Methods = append(class.Methods, fn)
		}
	}
	return class
}

// function lowers a function definition. Coroutines are skipped.
func (l *lowerer) function(n *sitter.Node, decorators []Decorator) *FunctionDef {
	if first := n.Child(0); first != nil && first.Type() == "async" {
		return nil
	}

	return &FunctionDef{
		Position:   position(n),
		Name:       l.text(n.ChildByFieldName("name")),
		Decorators: decorators,
		Params:     l.params(n.ChildByFieldName("parameters")),
		Returns:    l.annotation(n.ChildByFieldName("return_type")),
		Doc:        l.docstring(n.ChildByFieldName("body")),
	}
}

func (l *lowerer) decorators(n *sitter.Node) []Decorator {
	var decorators []Decorator
	for _, child := range namedChildren(n) {
		if child.Type() != "decorator" {
			continue
		}
		expr := namedChildren(child)
		if len(expr) == 0 {
			continue
		}

		d := Decorator{Position: position(child)}
		switch e := expr[0]; e.Type() {
		case "identifier":
			d.Kind = DecoratorName
			d.Name = l.text(e)
		case "attribute":
			d.Kind = DecoratorAttribute
			d.Object = l.text(e.ChildByFieldName("object"))
			d.Name = l.text(e.ChildByFieldName("attribute"))
		default:
			d.Name = l.text(e)
		}
		decorators = append(decorators, d)
	}
	return decorators
}

// params lowers a parameter list to the ordinary positional-or-keyword
// parameters, in order. Positional-only parameters (before "/"), variadic
// parameters, and keyword-only parameters (after "*" or *args) are dropped.
func (l *lowerer) params(n *sitter.Node) []Param {
	var params []Param
	for _, c := range namedChildren(n) {
		p := Param{Position: position(c)}
		switch c.Type() {
		case "positional_separator":
			params = nil
			continue
		case "keyword_separator", "list_splat_pattern", "dictionary_splat_pattern":
			return params
		case "identifier":
			p.Name = l.text(c)
		case "typed_parameter":
			inner := namedChildren(c)
			if len(inner) == 0 || inner[0].Type() != "identifier" {
				return params // *args: T or **kwargs: T
			}
			p.Name = l.text(inner[0])
			p.Annotation = l.annotation(c.ChildByFieldName("type"))
		case "default_parameter":
			name := c.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				continue
			}
			p.Name = l.text(name)
			p.HasDefault = true
		case "typed_default_parameter":
			p.Name = l.text(c.ChildByFieldName("name"))
			p.Annotation = l.annotation(c.ChildByFieldName("type"))
			p.HasDefault = true
		default:
			continue
		}
		params = append(params, p)
	}
	return params
}

func (l *lowerer) annotation(n *sitter.Node) Annotation {
	if n == nil {
		return Annotation{Kind: AnnotationAbsent}
	}
	text := strings.Join(strings.Fields(l.text(n)), " ")
	if text == "" || n.HasError() {
		return Annotation{Kind: AnnotationInvalid}
	}
	return Annotation{Kind: AnnotationExpr, Text: text}
}

// docstring returns the cleaned docstring of a block, or "" if the first
// statement is not a string literal.
func (l *lowerer) docstring(block *sitter.Node) string {
	stmts := namedChildren(block)
	if len(stmts) == 0 || stmts[0].Type() != "expression_statement" {
		return ""
	}
	exprs := namedChildren(stmts[0])
	if len(exprs) != 1 {
		return ""
	}

	var parts []*sitter.Node
	switch expr := exprs[0]; expr.Type() {
	case "string":
		parts = []*sitter.Node{expr}
	case "concatenated_string":
		parts = namedChildren(expr)
	default:
		return ""
	}

	var doc strings.Builder
	for _, part := range parts {
		value, ok := decodeStringLiteral(l.text(part))
		if !ok {
			return ""
		}
		doc.WriteString(value)
	}
	return cleanDoc(doc.String())
}
