package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for advisor resources.
	uriScheme = "failcase://"

	// recentQueryLimit bounds the query log resource.
	recentQueryLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus",
		Name:        "corpus",
		Description: "Load report of the base failure case corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "queries",
		Name:        "queries",
		Description: "Most recent questions and answers",
		MIMEType:    "application/json",
	}, s.handleQueriesResource)
}

// handleCorpusResource loads the base corpus if needed and returns its report.
func (s *Server) handleCorpusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Corpus == nil {
		return jsonResource(req.Params.URI, domain.NewLoadReport(s.ports.CorpusDir))
	}

	if _, err := s.ports.Corpus.LoadBase(ctx, s.ports.CorpusDir); err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	report := s.ports.Corpus.Report(s.ports.CorpusDir)
	if report == nil {
		report = domain.NewLoadReport(s.ports.CorpusDir)
	}
	return jsonResource(req.Params.URI, report)
}

// handleQueriesResource returns the most recent query log entries.
func (s *Server) handleQueriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries := []domain.QueryLogEntry{}
	if s.ports.QueryLog != nil {
		var err error
		entries, err = s.ports.QueryLog.Recent(ctx, recentQueryLimit)
		if err != nil {
			return nil, fmt.Errorf("reading query log: %w", err)
		}
	}
	return jsonResource(req.Params.URI, entries)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
