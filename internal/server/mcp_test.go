package server

import (
	"context"
	"testing"

	"github.com/chrisdamba/trafficmcp/internal/analytics"
	"github.com/chrisdamba/trafficmcp/internal/repositories/memory"
	"github.com/chrisdamba/trafficmcp/internal/tools"
	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"
)

func testRegistry() *tools.Registry {
	repo := memory.NewTrafficRepository(nil)
	return tools.NewTrafficTools(repo, analytics.NewAnalyzer(repo))
}

func TestToMCPTool(t *testing.T) {
	tool, ok := testRegistry().Lookup("get_average_speed")
	if !ok {
		t.Fatal("get_average_speed not registered")
	}

	got := toMCPTool(tool)
	if got.Name != "get_average_speed" || got.Description == "" {
		t.Errorf("got %s: %q", got.Name, got.Description)
	}
	if diff := cmp.Diff([]string{"vehicle_type"}, got.InputSchema.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"vehicle_type", "start_date", "end_date"} {
		if _, ok := got.InputSchema.Properties[name]; !ok {
			t.Errorf("missing property %s", name)
		}
	}
}

func TestArrayParamDeclaresItems(t *testing.T) {
	tool, _ := testRegistry().Lookup("generate_speed_graph")
	prop, ok := toMCPTool(tool).InputSchema.Properties["vehicle_types"].(map[string]any)
	if !ok {
		t.Fatal("vehicle_types is not declared")
	}
	if prop["type"] != "array" {
		t.Errorf("type = %v", prop["type"])
	}
	if _, ok := prop["items"]; !ok {
		t.Error("array has no items schema")
	}
}

func TestHandlerFoldsErrorsIntoResult(t *testing.T) {
	handler := handlerFor(testRegistry(), "get_traffic_by_location")

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler returned a protocol error: %v", err)
	}
	if !res.IsError || len(res.Content) != 1 {
		t.Fatalf("got %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok || text.Text != "Error: location parameter is required" {
		t.Errorf("got %+v", res.Content[0])
	}
}

func TestNewMCPServerListsEveryTool(t *testing.T) {
	registry := testRegistry()
	s := NewMCPServer(registry)
	if s == nil {
		t.Fatal("nil server")
	}
	if got := len(registry.Tools()); got != 17 {
		t.Errorf("registered %d tools", got)
	}
}
