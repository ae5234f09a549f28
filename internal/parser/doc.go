// Package parser extracts API declarations from Unreal Engine Python stubs.
//
// The generated unreal.py stub is not quite valid Python: default values are
// written as keyword tuples such as "= (r=0.0, g=0.0)". Sanitize rewrites
// those to dict(...) calls before the source is handed to the tree-sitter
// Python grammar. The concrete syntax tree is then lowered into a small stub
// AST (Module, ClassDef, FunctionDef, Decorator, Param, Annotation) and
// walked in source order.
//
// # Extraction Rules
//
//   - Only top-level classes and functions, and the functions directly inside
//     a class body, are extracted. Methods of a class precede the class.
//   - @property getters keep only their return type as signature.
//   - @x.setter and @x.deleter accessors are dropped.
//   - @classmethod signatures get an "@classmethod " prefix.
//   - A leading "self" parameter is stripped. Only positional-or-keyword
//     parameters are kept: anything before "/", *args, **kwargs, and
//     keyword-only parameters after "*" are left out.
//   - Missing annotations stay Untyped and render as the bare parameter name.
//
// A syntax error anywhere in the stub is fatal and is returned as a
// *types.ParseError carrying line, column and the offending source line.
//
// After extraction the ScopedTransaction context manager is added when the
// stub does not declare it.
package parser
