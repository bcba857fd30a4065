// ABOUTME: MCP resource handlers for exposing donorbase data
// ABOUTME: Provides read-only access to contacts, donors and analytics via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
)

const resourceScheme = "donorbase://"

type ResourceHandlers struct {
	svc *contacts.Service
}

func NewResourceHandlers(svc *contacts.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	switch parts[0] {
	case "contacts":
		if len(parts) == 1 || parts[1] == "" {
			return jsonResource(uri, list)
		}
		c, err := contacts.Get(list, parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contact: %w", err)
		}
		return jsonResource(uri, c)

	case "donors":
		return jsonResource(uri, donors.Profiles(list))

	case "analytics":
		return jsonResource(uri, donors.Rollup(donors.Profiles(list), h.svc.Now()))

	case "followups":
		return jsonResource(uri, contacts.DueFollowUps(list, h.svc.Now()))

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
