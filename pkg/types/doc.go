// Package types provides shared type definitions for the Unreal Engine API
// catalog server.
//
// This package defines the domain types used across the parser, the index
// builder, the searcher, and the MCP tool layer.
//
// # Core Types
//
// FunctionEntry represents a top-level function or a class method extracted
// from a Python declaration stub:
//
//	entry := types.FunctionEntry{
//	    Name:        "set_actor_location",
//	    FullName:    "Actor.set_actor_location",
//	    ParentClass: "Actor",
//	    Parameters:  []types.Param{{Name: "new_location", Type: types.Named("Vector")}},
//	    ReturnType:  types.Named("bool"),
//	}
//
// ClassEntry represents a class with its docstring. Methods are not nested in
// the class; they reference it through ParentClass.
//
// # Type Annotations
//
// TypeRef keeps the difference between an absent annotation and one that was
// present but unreadable. Both render as "Any", but only the latter contributes
// the token "any" to the search corpus:
//
//	types.Named("Vector").String()  // "Vector"
//	types.Untyped().String()        // "Any"
//	types.Unparsable().String()     // "Any"
//
// # Errors
//
// Construction failures (ErrSourceNotFound, ErrParse) are fatal. A corrupt
// cache (ErrCacheCorrupt) is recovered by rebuilding. Query failures surface
// as *QueryValidationError, which matches ErrQueryValidation with errors.Is.
package types
