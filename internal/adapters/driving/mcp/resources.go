package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for notesmith resources.
	uriScheme = "notesmith://"

	// auditResourceLimit caps the entries returned by the audit resource.
	auditResourceLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Effective notesmith settings, one entry per config key",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "audit",
		Name:        "audit",
		Description: "Most recent committed notes updates, newest first",
		MIMEType:    "application/json",
	}, s.handleAuditResource)
}

// handleSettingsResource returns every setting key with its effective value.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	values := make(map[string]string)
	for _, key := range s.ports.Settings.Keys() {
		val, err := s.ports.Settings.Value(key)
		if err != nil {
			return nil, fmt.Errorf("reading setting %s: %w", key, err)
		}
		values[key] = val
	}

	return jsonResource(req.Params.URI, values)
}

// handleAuditResource returns the most recent audit entries.
func (s *Server) handleAuditResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Audit == nil {
		return jsonResource(req.Params.URI, []struct{}{})
	}

	entries, err := s.ports.Audit.Recent(ctx, auditResourceLimit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}

	type auditInfo struct {
		ID          string `json:"id"`
		SourcePath  string `json:"pptx_path"`
		OutputPath  string `json:"output_path"`
		InPlace     bool   `json:"in_place"`
		Slides      []int  `json:"slides"`
		Skipped     []int  `json:"skipped,omitempty"`
		CommittedAt string `json:"committed_at"`
	}

	infos := make([]auditInfo, len(entries))
	for i := range entries {
		infos[i] = auditInfo{
			ID:          entries[i].ID,
			SourcePath:  entries[i].SourcePath,
			OutputPath:  entries[i].OutputPath,
			InPlace:     entries[i].InPlace,
			Slides:      entries[i].Slides,
			Skipped:     entries[i].Skipped,
			CommittedAt: entries[i].CommittedAt.UTC().Format(time.RFC3339),
		}
	}

	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
