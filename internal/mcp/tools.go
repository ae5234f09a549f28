package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/searcher"
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// ErrorCodeInvalidParams is the JSON-RPC code for malformed tool arguments.
// Other failures are reported inside the tool result.
const ErrorCodeInvalidParams = -32602

// top_k bounds accepted from callers
const (
	minTopK      = 1
	maxTopK      = 50
	defaultTopK  = 5
	previewLimit = 500
)

// documentation is one search hit as returned to the caller
type documentation struct {
	Source         string  `json:"source"`
	Category       string  `json:"category"`
	RelevanceScore float64 `json:"relevance_score"`
	Content        string  `json:"content"`
}

// searchResponse is the body of every search_unreal_api result
type searchResponse struct {
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
	Documentation []documentation `json:"documentation"`
	TotalFound    int             `json:"total_found"`
	Suggestion    string          `json:"suggestion,omitempty"`
}

// handleSearchUnrealAPI handles the search_unreal_api tool invocation.
// Validation failures, empty results and engine failures are reported in the
// result body with IsError set, never as protocol errors.
func (s *Server) handleSearchUnrealAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	logger := s.logger.WithField("tool", "search_unreal_api")
	logger.WithField("keywords", args["keywords"]).Info("Tool invoked")

	keywords, err := validateKeywords(args["keywords"])
	if err != nil {
		logger.WithError(err).Error("Validation failed")
		return errorResult(err.Error(), "Please provide valid API keywords"), nil
	}

	topK, err := validateTopK(args, s.defaultTopK)
	if err != nil {
		logger.WithError(err).Error("Validation failed")
		return errorResult(err.Error(), fmt.Sprintf("top_k should be between %d and %d", minTopK, maxTopK)), nil
	}

	category := strings.TrimSpace(getStringDefault(args, "category", ""))
	includeFullContent := getBoolDefault(args, "include_full_content", true)

	if _, err := s.handle.Get(ctx); err != nil {
		logger.WithError(err).Error("Failed to load API catalog")
		return errorResult("Failed to initialize API catalog: "+err.Error(),
			"Check if the BM25 index is properly loaded"), nil
	}

	query := strings.Join(keywords, " ")
	logger.WithField("query", query).Info("Searching Unreal API documentation")

	var results []types.SearchResult
	if category != "" {
		results, err = s.searcher.SearchByCategory(ctx, query, category, topK)
	} else {
		results, err = s.searcher.SearchFormatted(ctx, query, topK, searcher.ScopeBoth)
	}
	if err != nil {
		logger.WithError(err).Error("Search failed")
		if errors.Is(err, types.ErrQueryValidation) {
			return errorResult(err.Error(), "category should be Function or Class"), nil
		}
		return errorResult(err.Error(), "An unexpected error occurred during search"), nil
	}

	if len(results) == 0 {
		logger.WithField("keywords", keywords).Warn("No relevant documentation found")
		return errorResult("No relevant API documentation found for this question",
			"Try rephrasing your question or use more specific Unreal Engine terms"), nil
	}

	docs := make([]documentation, 0, len(results))
	for _, r := range results {
		content := r.Content
		if !includeFullContent {
			content = preview(content)
		}
		docs = append(docs, documentation{
			Source:         r.Source,
			Category:       string(r.Category),
			RelevanceScore: r.RelevanceScore,
			Content:        content,
		})
	}

	logger.WithFields(logrus.Fields{"count": len(docs)}).Info("Search completed")

	return mcp.NewToolResultText(formatJSON(searchResponse{
		Status:        "success",
		Documentation: docs,
		TotalFound:    len(docs),
		Suggestion: fmt.Sprintf("Found %d relevant documentation entries. "+
			"Use this as reference material along with your built-in Unreal Engine knowledge to generate Python code.", len(docs)),
	})), nil
}

// handleGetAPIStats handles the get_api_stats tool invocation
func (s *Server) handleGetAPIStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.Params.Arguments != nil {
		if _, ok := request.Params.Arguments.(map[string]interface{}); !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
		}
	}

	stats, err := s.searcher.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get catalog stats")
		result := mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}))
		result.IsError = true
		return result, nil
	}

	return mcp.NewToolResultText(formatJSON(stats)), nil
}

// validateKeywords checks the keywords argument and returns it as strings
func validateKeywords(raw interface{}) ([]string, error) {
	if raw == nil {
		return nil, errors.New("keywords is required")
	}

	list, ok := raw.([]interface{})
	if !ok {
		if strs, isStrings := raw.([]string); isStrings {
			list = make([]interface{}, len(strs))
			for i, s := range strs {
				list[i] = s
			}
		} else {
			return nil, fmt.Errorf("keywords must be a list, got %T", raw)
		}
	}
	if len(list) == 0 {
		return nil, errors.New("keywords list cannot be empty")
	}

	keywords := make([]string, len(list))
	for i, item := range list {
		kw, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("keyword at index %d must be a string, got %T", i, item)
		}
		if strings.TrimSpace(kw) == "" {
			return nil, fmt.Errorf("keyword at index %d cannot be empty", i)
		}
		keywords[i] = kw
	}
	return keywords, nil
}

// validateTopK reads top_k, which must be a whole number in range
func validateTopK(args map[string]interface{}, defaultValue int) (int, error) {
	raw, present := args["top_k"]
	if !present || raw == nil {
		return defaultValue, nil
	}

	var topK int
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("top_k must be an integer, got %v", v)
		}
		topK = int(v)
	case int:
		topK = v
	default:
		return 0, fmt.Errorf("top_k must be an integer, got %T", raw)
	}

	if topK < minTopK {
		return 0, fmt.Errorf("top_k must be at least %d, got %d", minTopK, topK)
	}
	if topK > maxTopK {
		return 0, fmt.Errorf("top_k cannot exceed %d, got %d", maxTopK, topK)
	}
	return topK, nil
}

// preview cuts content to previewLimit bytes, on a rune boundary
func preview(content string) string {
	if len(content) <= previewLimit {
		return content
	}
	cut := previewLimit
	for cut > 0 && !isRuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// errorResult builds a search_unreal_api failure body
func errorResult(message, suggestion string) *mcp.CallToolResult {
	result := mcp.NewToolResultText(formatJSON(searchResponse{
		Status:        "error",
		Error:         message,
		Documentation: []documentation{},
		TotalFound:    0,
		Suggestion:    suggestion,
	}))
	result.IsError = true
	return result
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
