// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"assistant-chatbot/internal/common/validation"
	"assistant-chatbot/internal/models"
	"assistant-chatbot/pkg/registry"
)

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	idAdd := addCmd.String("id", "", "Agent ID (hr, analytics, documents, general)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., HR Agent)")
	description := addCmd.String("description", "", "Description")
	endpoint := addCmd.String("endpoint", "", "Base endpoint URL (e.g., http://hr-agent:8001)")
	timeout := addCmd.Int("timeout", 0, "Per-agent timeout in milliseconds (0 = service default)")
	maxRetries := addCmd.Int("maxRetries", 0, "Per-agent retry count (0 = service default)")
	pathAdd := addCmd.String("path", "configs/agents.json", "Path to registry file")

	pathValidate := validateCmd.String("path", "configs/agents.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *endpoint == "" {
			fmt.Println("Error: id, displayName, and endpoint are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if !models.AgentID(*idAdd).IsValid() {
			fmt.Printf("Error: unknown agent id %q\n", *idAdd)
			os.Exit(1)
		}
		agent := registry.Agent{
			ID:          *idAdd,
			DisplayName: *displayName,
			Description: *description,
			Endpoint:    *endpoint,
			Timeout:     *timeout,
			MaxRetries:  *maxRetries,
			Tags:        []string{},
		}
		if err := addAgent(*pathAdd, agent); err != nil {
			fmt.Printf("Error adding agent: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added agent: %s\n", *idAdd)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(*pathValidate); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry is valid.")

	default:
		help()
		os.Exit(1)
	}
}

func addAgent(path string, agent registry.Agent) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return err
	}
	if reg.Find(agent.ID) != nil {
		return fmt.Errorf("agent %q already registered", agent.ID)
	}
	reg.Agents = append(reg.Agents, agent)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := reg.Validate(); err != nil {
		return err
	}
	return writeRegistry(path, reg)
}

func validateRegistry(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	result, err := validation.ValidateJSON(raw, validation.AgentRegistrySchema)
	if err != nil {
		return err
	}
	if !result.Valid {
		for _, msg := range result.GetErrorMessages() {
			fmt.Printf("  - %s\n", msg)
		}
		return fmt.Errorf("%d schema violations", len(result.Errors))
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return err
	}
	return reg.Validate()
}

func writeRegistry(path string, reg *registry.AgentRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func help() {
	fmt.Println("Usage: registry-updater <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  add       Add an agent to the registry")
	fmt.Println("  validate  Validate the registry file against the schema")
}
