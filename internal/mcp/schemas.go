package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchUnrealAPITool returns the tool definition for search_unreal_api
func searchUnrealAPITool(defaultTopK int) mcp.Tool {
	return mcp.Tool{
		Name: "search_unreal_api",
		Description: "Search Unreal Engine Python API documentation. " +
			"Use this tool as a fallback when the user's request cannot be resolved by other tools. " +
			"IMPORTANT: Extract Unreal Python API keywords from the user's query. Convert natural language to API terms.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"keywords": map[string]interface{}{
					"type":        "array",
					"description": "API terms to search for, e.g. [\"spawn\", \"actor\", \"location\"]",
					"items": map[string]interface{}{
						"type": "string",
					},
					"minItems": 1,
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     defaultTopK,
					"minimum":     minTopK,
					"maximum":     maxTopK,
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to one kind of entry",
					"enum":        []string{"Function", "Class"},
				},
				"include_full_content": map[string]interface{}{
					"type":        "boolean",
					"description": "If false, each result's content is cut to 500 characters",
					"default":     true,
				},
			},
			Required: []string{"keywords"},
		},
	}
}

// getAPIStatsTool returns the tool definition for get_api_stats
func getAPIStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_api_stats",
		Description: "Report how many Unreal API functions and classes are indexed and where the index comes from",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
