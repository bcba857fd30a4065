// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph and dashboard tools for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/viz"
)

type VizHandlers struct {
	svc *contacts.Service
}

func NewVizHandlers(svc *contacts.Service) *VizHandlers {
	return &VizHandlers{svc: svc}
}

type GenerateGraphInput struct {
	Type     string `json:"type" jsonschema:"Graph type: campaigns or donor"`
	EntityID string `json:"entity_id,omitempty" jsonschema:"Contact ID (required for donor)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, _ *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	}

	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, GenerateGraphOutput{}, err
	}

	generator := viz.NewGraphGenerator(list)
	var dot string

	switch input.Type {
	case "campaigns":
		dot, err = generator.GenerateCampaignGraph(ctx)

	case "donor":
		if input.EntityID == "" {
			return nil, GenerateGraphOutput{}, fmt.Errorf("entity_id required for donor graph")
		}
		dot, err = generator.GenerateDonorGraph(ctx, input.EntityID)

	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: campaigns, donor)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: strings.Count(dot, "[label="),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}

type DashboardInput struct{}

type DashboardOutput struct {
	Stats *viz.DashboardStats `json:"stats"`
	Text  string              `json:"text"`
}

func (h *VizHandlers) Dashboard(ctx context.Context, _ *mcp.CallToolRequest, _ DashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, DashboardOutput{}, err
	}

	stats := viz.GenerateDashboardStats(list, h.svc.Now())
	return nil, DashboardOutput{Stats: stats, Text: viz.RenderDashboard(stats)}, nil
}
