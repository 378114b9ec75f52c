// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*AgentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg AgentRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Find returns the agent with the given id, or nil when not registered.
func (r *AgentRegistry) Find(id string) *Agent {
	for i := range r.Agents {
		if r.Agents[i].ID == id {
			return &r.Agents[i]
		}
	}
	return nil
}

// Validate checks the registry for duplicate ids and missing endpoints.
func (r *AgentRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Agents))
	for _, a := range r.Agents {
		if a.ID == "" {
			return fmt.Errorf("agent with empty id")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate agent id %q", a.ID)
		}
		if a.Endpoint == "" {
			return fmt.Errorf("agent %q has no endpoint", a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}
