// Package mcp implements the Model Context Protocol (MCP) server that exposes
// the Unreal Python API catalog to AI assistants.
//
// Two tools are registered:
//   - search_unreal_api: BM25 search over extracted functions and classes
//   - get_api_stats: catalog sizes and where the index was loaded from
//
// # Tool: search_unreal_api
//
//	Request:
//	{
//	  "name": "search_unreal_api",
//	  "arguments": {
//	    "keywords": ["spawn", "actor", "location"],
//	    "top_k": 5,
//	    "category": "Function",
//	    "include_full_content": true
//	  }
//	}
//
//	Response:
//	{
//	  "status": "success",
//	  "documentation": [
//	    {
//	      "source": "spawn_actor_from_class",
//	      "category": "Function",
//	      "relevance_score": 4.21,
//	      "content": "# spawn_actor_from_class\n\nSignature: ..."
//	    }
//	  ],
//	  "total_found": 1,
//	  "suggestion": "Found 1 relevant documentation entries. ..."
//	}
//
// Keywords are joined with spaces into one query. When category is set the
// search oversamples and filters, otherwise functions and classes are merged
// by score. With include_full_content false each content is cut to 500 bytes.
//
// # Errors
//
// Argument validation failures, empty result sets and an unavailable catalog
// are returned as tool results with IsError set and a body of:
//
//	{
//	  "status": "error",
//	  "error": "top_k cannot exceed 50, got 80",
//	  "documentation": [],
//	  "total_found": 0,
//	  "suggestion": "top_k should be between 1 and 50"
//	}
//
// Malformed requests whose arguments are not an object fail with an
// *MCPError carrying -32602.
//
// # Logging
//
// stdout carries the protocol, so all logs go to stderr through logrus.
package mcp
