// pkg/registry/schema.go
package registry

// AgentRegistry is the declarative list of invocable agents. Adding an agent
// is a data change here plus a vocabulary entry, not a code change.
type AgentRegistry struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Agents      []Agent `json:"agents"`
}

// Agent describes one invocation target.
type Agent struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description,omitempty"`
	Endpoint    string   `json:"endpoint"`
	Timeout     int      `json:"timeout,omitempty"` // milliseconds, 0 = service default
	MaxRetries  int      `json:"maxRetries,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
