// ABOUTME: MCP resource implementations for the habits dashboard.
// ABOUTME: Provides habits://dashboard and habits://notifications resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	dashboardURI     = "habits://dashboard"
	notificationsURI = "habits://notifications"
)

func (s *Server) registerResources() {
	// habits://dashboard - progress, goals, habits, meals and notifications
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         dashboardURI,
		Name:        "Habits Dashboard",
		Description: "Daily progress, calorie/water/steps goals, habits, meals and notifications",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)

	// habits://notifications - notification list with unread count
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         notificationsURI,
		Name:        "Notifications",
		Description: "Current notifications, unread count and achievement",
		MIMEType:    "application/json",
	}, s.handleNotificationsResource)
}

// Resource handlers

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"dashboard":    s.app.Dashboard(),
	}
	return jsonResource(dashboardURI, result)
}

func (s *Server) handleNotificationsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(notificationsURI, s.app.Notifications.Snapshot())
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
