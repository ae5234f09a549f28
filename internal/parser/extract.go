package parser

import (
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// extractor walks a lowered module and collects catalog entries in source
// order. Methods of a class are appended before the class itself.
type extractor struct {
	functions []types.FunctionEntry
	classes   []types.ClassEntry
}

func extract(m *Module) *types.ParseResult {
	e := &extractor{}
	for _, stmt := range m.Body {
		switch n := stmt.(type) {
		case *ClassDef:
			e.class(n)
		case *FunctionDef:
			e.function(n, "")
		}
	}
	return &types.ParseResult{
		Functions: e.functions,
		Classes:   e.classes,
	}
}

func (e *extractor) class(c *ClassDef) {
	for _, fn := range c.Methods {
		e.function(fn, c.Name)
	}
	e.classes = append(e.classes, types.ClassEntry{
		Name:      c.Name,
		Docstring: c.Doc,
	})
}

func (e *extractor) function(fn *FunctionDef, parent string) {
	var property, classMethod bool
	for _, d := range fn.Decorators {
		switch {
		case d.IsAccessor():
			return
		case d.Is("property"):
			property = true
		case d.Is("classmethod"):
			classMethod = true
		}
	}

	params := make([]types.Param, 0, len(fn.Params))
	for i, p := range fn.Params {
		if i == 0 && p.Name == "self" {
			continue
		}
		params = append(params, types.Param{Name: p.Name, Type: typeRef(p.Annotation)})
	}

	returns := typeRef(fn.Returns)
	fullName := fn.Name
	if parent != "" {
		fullName = parent + "." + fn.Name
	}

	e.functions = append(e.functions, types.FunctionEntry{
		Name:        fn.Name,
		FullName:    fullName,
		ParentClass: parent,
		Parameters:  params,
		ReturnType:  returns,
		Signature:   types.FormatSignature(fn.Name, params, returns, property, classMethod),
		Docstring:   fn.Doc,
		Property:    property,
		ClassMethod: classMethod,
	})
}

func typeRef(a Annotation) types.TypeRef {
	switch a.Kind {
	case AnnotationExpr:
		return types.Named(a.Text)
	case AnnotationInvalid:
		return types.Unparsable()
	default:
		return types.Untyped()
	}
}
