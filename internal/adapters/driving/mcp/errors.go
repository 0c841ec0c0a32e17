// Package mcp provides an MCP (Model Context Protocol) server adapter for the advisor.
// It lets AI assistants search past failure cases and request advice.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
