package parser

import (
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// ScopedTransactionClass is the undo/redo context manager that generated
// stubs omit but agents need to find.
const ScopedTransactionClass = "ScopedTransaction"

// scopedTransaction returns the synthetic class and its three methods
func scopedTransaction() (types.ClassEntry, []types.FunctionEntry) {
	class := types.ClassEntry{
		Name:      ScopedTransactionClass,
		Docstring: "Context manager for undo/redo transactions.",
	}

	method := func(name, doc string, params []types.Param, returns string) types.FunctionEntry {
		ret := types.Named(returns)
		return types.FunctionEntry{
			Name:        name,
			FullName:    ScopedTransactionClass + "." + name,
			ParentClass: ScopedTransactionClass,
			Parameters:  params,
			ReturnType:  ret,
			Signature:   types.FormatSignature(name, params, ret, false, false),
			Docstring:   doc,
		}
	}

	anyType := types.Named(types.AnyType)
	methods := []types.FunctionEntry{
		method("__init__", "", []types.Param{{Name: "description", Type: types.Named("str")}}, "None"),
		method("__enter__", "Begin transaction", []types.Param{}, ScopedTransactionClass),
		method("__exit__", "End transaction", []types.Param{
			{Name: "type", Type: anyType},
			{Name: "value", Type: anyType},
			{Name: "traceback", Type: anyType},
		}, "None"),
	}
	return class, methods
}

// injectMissing appends synthetic declarations that are absent from the
// parsed source and returns the names of the classes it added.
func injectMissing(result *types.ParseResult) []string {
	if result.HasClass(ScopedTransactionClass) {
		return nil
	}

	class, methods := scopedTransaction()
	result.Classes = append(result.Classes, class)
	result.Functions = append(result.Functions, methods...)
	result.Injected = append(result.Injected, class.Name)
	return []string{class.Name}
}
