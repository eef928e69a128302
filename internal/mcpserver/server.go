// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Kindred tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lunyk/kindred/internal/apperr"
	"github.com/lunyk/kindred/internal/linksvc"
	"github.com/lunyk/kindred/internal/models"
	"github.com/lunyk/kindred/internal/templates"
)

// Server wraps the MCP server with Kindred tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *linksvc.Service
	registry *templates.Registry
}

// New creates a new MCP server with all Kindred tools registered.
func New(svc *linksvc.Service, registry *templates.Registry) *Server {
	s := &Server{svc: svc, registry: registry}

	s.mcp = server.NewMCPServer(
		"Kindred",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_links",
		mcp.WithDescription("Render genealogy search links for a record. "+
			"The record is a JSON object whose shape depends on the navigation type; "+
			"read the contract first via the get_template_contract tool or the "+
			"kindred://template-format resource."),
		mcp.WithString("navtype", mcp.Required(), mcp.Description("Navigation type: people, families, places or sources")),
		mcp.WithString("record", mcp.Required(), mcp.Description("JSON object with the record fields (given, surname, birth, death, ...)")),
	), s.searchLinks)

	s.mcp.AddTool(mcp.NewTool("list_template_files",
		mcp.WithDescription("List the template CSV files on disk with locale and enabled state."),
	), s.listTemplateFiles)

	s.mcp.AddTool(mcp.NewTool("suggest_sites",
		mcp.WithDescription("Ask the suggestion provider for genealogy sites not yet covered "+
			"by the enabled templates. Returns an empty list when the provider is disabled."),
	), s.suggestSites)

	s.mcp.AddTool(mcp.NewTool("get_template_contract",
		mcp.WithDescription("Returns the canonical template CSV format contract. "+
			"Call this before writing template files or record JSON."),
	), s.getTemplateContract)

	// Resource: template format contract.
	s.mcp.AddResource(
		mcp.NewResource("kindred://template-format", "Template Format Contract",
			mcp.WithResourceDescription("Canonical CSV template format and record JSON shapes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTemplateFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func decodeRecord(nav models.NavType, raw string) (models.Record, error) {
	var rec models.Record
	switch nav {
	case models.NavPerson:
		rec = &models.Person{}
	case models.NavFamily:
		rec = &models.Family{}
	case models.NavPlace:
		rec = &models.PlaceRecord{}
	case models.NavSource:
		rec = &models.SourceRecord{}
	}
	if err := json.Unmarshal([]byte(raw), rec); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	return rec, nil
}

func (s *Server) searchLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	navRaw, err := req.RequireString("navtype")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recordRaw, err := req.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	nav, ok := models.ParseNavType(navRaw)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown navigation type: %s", navRaw)), nil
	}
	rec, err := decodeRecord(nav, recordRaw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	links, err := s.svc.LinksFor(rec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(links, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTemplateFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, _, err := s.registry.Files()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, f := range files {
		state := "disabled"
		if s.registry.Enabled(f.Name) {
			state = "enabled"
		}
		origin := "builtin"
		if f.Custom {
			origin = "user"
		}
		lines = append(lines, fmt.Sprintf("%s\tlocale=%s\t%s\t%s", f.Name, f.Locale, origin, state))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no template files found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) suggestSites(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	suggestions, err := s.svc.Suggestions(ctx)
	if errors.Is(err, apperr.ErrDisabled) {
		return mcp.NewToolResultText("suggestion provider is not configured"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(suggestions) == 0 {
		return mcp.NewToolResultText("no suggestions"), nil
	}
	out, _ := json.MarshalIndent(suggestions, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getTemplateContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TemplateFormatContract), nil
}

func (s *Server) readTemplateFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "kindred://template-format",
			MIMEType: "text/markdown",
			Text:     TemplateFormatContract,
		},
	}, nil
}
