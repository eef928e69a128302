package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lunyk/kindred/internal/activity"
	"github.com/lunyk/kindred/internal/attrmap"
	"github.com/lunyk/kindred/internal/linksvc"
	"github.com/lunyk/kindred/internal/render"
	"github.com/lunyk/kindred/internal/suggest"
	"github.com/lunyk/kindred/internal/templates"
	"github.com/lunyk/kindred/internal/vars"
)

const testCSV = `"Navigation type","Category","Is enabled","URL","Comment"
People,Archives,1,https://example.org/search?s={surname},
`

func testServer(t *testing.T) *Server {
	return testServerWithEnabled(t, []string{"uk-links.csv"})
}

func testServerWithEnabled(t *testing.T, enabled []string) *Server {
	t.Helper()

	builtinDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(builtinDir, "uk-links.csv"), []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "kindred-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := activity.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := templates.NewRegistry(templates.NewStore(builtinDir, t.TempDir()), enabled, logger)
	svc := linksvc.New(registry, attrmap.NewMapper(nil, logger), store,
		suggest.NewClient("", "", "", 0, logger), linksvc.Settings{
			MiddleNames: vars.MiddleNameSeparate,
			Render:      render.Options{Compactness: render.CompactNoAttributes},
		}, logger)

	return New(svc, registry)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_links":
		result, err = srv.searchLinks(ctx, req)
	case "list_template_files":
		result, err = srv.listTemplateFiles(ctx, req)
	case "suggest_sites":
		result, err = srv.suggestSites(ctx, req)
	case "get_template_contract":
		result, err = srv.getTemplateContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchLinks(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_links", map[string]interface{}{
		"navtype": "people",
		"record":  `{"given": "John", "surname": "Smith"}`,
	})
	if r.IsError {
		t.Fatalf("search_links error: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "https://example.org/search?s=Smith") {
		t.Errorf("rendered link missing from %q", text)
	}
}

func TestSearchLinks_UnknownNavType(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_links", map[string]interface{}{
		"navtype": "animals",
		"record":  `{}`,
	})
	if !r.IsError {
		t.Error("expected error for unknown navigation type")
	}
}

func TestSearchLinks_BadRecordJSON(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_links", map[string]interface{}{
		"navtype": "people",
		"record":  `{not json`,
	})
	if !r.IsError {
		t.Error("expected error for invalid record JSON")
	}
}

func TestListTemplateFiles(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_template_files", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "uk-links.csv") || !strings.Contains(text, "enabled") {
		t.Errorf("list = %q", text)
	}
}

func TestListTemplateFiles_DefaultConfigAllEnabled(t *testing.T) {
	srv := testServerWithEnabled(t, nil)

	r := callTool(t, srv, "list_template_files", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "uk-links.csv") {
		t.Fatalf("list = %q", text)
	}
	// An empty configured list means every file is served, so none may be
	// reported as disabled.
	if strings.Contains(text, "disabled") {
		t.Errorf("default config reported a disabled file: %q", text)
	}
}

func TestSuggestSites_Disabled(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "suggest_sites", map[string]interface{}{})
	if resultText(r) != "suggestion provider is not configured" {
		t.Errorf("disabled provider = %q", resultText(r))
	}
}

func TestGetTemplateContract(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_template_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Navigation type") {
		t.Error("contract missing CSV header description")
	}
}
