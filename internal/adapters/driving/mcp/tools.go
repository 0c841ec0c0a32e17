package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// SearchInput is the input schema for the search_failure_cases tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"description of the problem to find similar past failures for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of cases to return (default from settings)"`
}

// SearchOutput is the output schema for the search_failure_cases tool.
type SearchOutput struct {
	Results []domain.RankedResult `json:"results"`
	Count   int                   `json:"count"`
}

// AskInput is the input schema for the ask_advice tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from past failure cases"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of cases used as context (default from settings)"`
}

// AskOutput is the output schema for the ask_advice tool.
type AskOutput struct {
	Answer  string                `json:"answer"`
	Results []domain.RankedResult `json:"results"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_failure_cases",
		Description: "Find past failure cases most similar to a problem description",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_advice",
		Description: "Answer a question with advice grounded in the most similar past failure cases",
	}, s.handleAsk)
}

// handleSearch handles the search_failure_cases tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{TopK: s.ports.topK(input.TopK)}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

// handleAsk handles the ask_advice tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Advice == nil {
		return nil, AskOutput{}, domain.ErrLLMUnavailable
	}

	opts := domain.SearchOptions{TopK: s.ports.topK(input.TopK)}
	advice, err := s.ports.Advice.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: advice.Answer, Results: advice.Results}, nil
}
