// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agents.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRegistry(t *testing.T) {
	path := writeTempRegistry(t, `{
		"version": "1.0.0",
		"lastUpdated": "2026-08-20T00:00:00Z",
		"agents": [
			{"id": "hr", "displayName": "HR Agent", "endpoint": "http://hr-agent:8001", "timeout": 15000},
			{"id": "general", "displayName": "General Agent", "endpoint": "http://general-agent:8004"}
		]
	}`)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", reg.Version)
	require.Len(t, reg.Agents, 2)
	assert.Equal(t, 15000, reg.Agents[0].Timeout)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry("/nonexistent/agents.json")
	assert.Error(t, err)
}

func TestLoadRegistry_MalformedJSON(t *testing.T) {
	path := writeTempRegistry(t, `{"agents": [`)

	_, err := LoadRegistry(path)
	assert.Error(t, err)
}

func TestAgentRegistry_Find(t *testing.T) {
	reg := &AgentRegistry{Agents: []Agent{
		{ID: "hr", Endpoint: "http://hr:8001"},
		{ID: "documents", Endpoint: "http://docs:8003"},
	}}

	found := reg.Find("documents")
	require.NotNil(t, found)
	assert.Equal(t, "http://docs:8003", found.Endpoint)

	assert.Nil(t, reg.Find("analytics"))
}

func TestAgentRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		agents  []Agent
		wantErr string
	}{
		{
			name:   "valid registry",
			agents: []Agent{{ID: "hr", Endpoint: "http://hr:8001"}},
		},
		{
			name:    "empty id",
			agents:  []Agent{{ID: "", Endpoint: "http://x:1"}},
			wantErr: "empty id",
		},
		{
			name: "duplicate id",
			agents: []Agent{
				{ID: "hr", Endpoint: "http://a:1"},
				{ID: "hr", Endpoint: "http://b:2"},
			},
			wantErr: "duplicate",
		},
		{
			name:    "missing endpoint",
			agents:  []Agent{{ID: "hr"}},
			wantErr: "no endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&AgentRegistry{Agents: tt.agents}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
