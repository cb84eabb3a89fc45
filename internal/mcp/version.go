package mcp

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// VersionSource reports the analysis engine version. *client.EngineClient satisfies it.
type VersionSource interface {
	Version(ctx context.Context) (map[string]string, error)
}

// versionInfo holds version fields for one component.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// VersionToolHandler returns the portal version, plus the engine version when
// the engine answers.
func VersionToolHandler(versions VersionSource) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]versionInfo{
			"hedge_portal": {
				Version: config.GetVersion(),
				Build:   config.GetBuild(),
				Commit:  config.GetGitCommit(),
			},
		}

		if versions != nil {
			if info, err := versions.Version(ctx); err == nil {
				result["engine"] = versionInfo{
					Version: info["version"],
					Build:   info["build"],
					Commit:  info["git_commit"],
				}
			}
		}

		out, err := json.Marshal(result)
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
