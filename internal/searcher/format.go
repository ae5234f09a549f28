package searcher

import (
	"strings"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/catalog"
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// FormatFunction renders a function entry as a markdown-ish block:
//
//	# Actor.set_actor_location
//
//	Signature: `set_actor_location(new_location: Vector) -> bool`
//
//	Move the actor instantly to the specified location.
//
//	Parameters:
//	  - new_location: Vector
//
//	Returns: bool
func FormatFunction(fn *types.FunctionEntry) string {
	parts := []string{
		"# " + fn.FullName,
		"\nSignature: `" + fn.Signature + "`",
	}

	if fn.Docstring != "" {
		parts = append(parts, "\n"+fn.Docstring)
	}

	if len(fn.Parameters) > 0 {
		parts = append(parts, "\nParameters:")
		for _, p := range fn.Parameters {
			parts = append(parts, "  - "+p.Name+": "+p.Type.String())
		}
	}

	parts = append(parts, "\nReturns: "+fn.ReturnType.String())

	return strings.Join(parts, "\n")
}

// FormatClass renders a class heading and its docstring
func FormatClass(class *types.ClassEntry) string {
	parts := []string{"# Class: " + class.Name}
	if class.Docstring != "" {
		parts = append(parts, "\n"+class.Docstring)
	}
	return strings.Join(parts, "\n")
}

func formatHits(cat *catalog.Catalog, hits []Hit) []types.SearchResult {
	results := make([]types.SearchResult, 0, len(hits))
	for _, hit := range hits {
		switch hit.Category {
		case types.CategoryFunction:
			fn := &cat.Functions[hit.Index]
			results = append(results, types.SearchResult{
				Content:        FormatFunction(fn),
				Source:         fn.Name,
				Category:       types.CategoryFunction,
				RelevanceScore: hit.Score,
			})
		case types.CategoryClass:
			class := &cat.Classes[hit.Index]
			results = append(results, types.SearchResult{
				Content:        FormatClass(class),
				Source:         class.Name,
				Category:       types.CategoryClass,
				RelevanceScore: hit.Score,
			})
		}
	}
	return results
}
