package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cobscan/internal/artifact"
	"cobscan/internal/engine"
	"cobscan/internal/errors"
)

var enginesFormat string

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List declared parse engines",
	Long:  "List the parse engine bridges declared in " + engine.RegistryFile + " with their availability",
	RunE:  runEngines,
}

func init() {
	enginesCmd.Flags().StringVar(&enginesFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(enginesCmd)
}

// engineStatus is one declared engine in the listing output.
type engineStatus struct {
	Name      string `json:"name"`
	Jar       string `json:"jar"`
	Main      string `json:"main"`
	Available bool   `json:"available"`
	Default   bool   `json:"default"`
}

func runEngines(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	decls, err := engine.LoadRegistry(registryPath(cfg))
	if err != nil {
		return errors.New(errors.InternalError, "failed to read engine registry", err)
	}

	statuses := make([]engineStatus, 0, len(decls))
	def, hasDefault := engine.DefaultDeclaration(decls)
	for _, d := range decls {
		statuses = append(statuses, engineStatus{
			Name:      d.Name,
			Jar:       d.Jar,
			Main:      d.EngineConfig().Main,
			Available: d.Available(),
			Default:   hasDefault && d.Name == def.Name,
		})
	}

	if enginesFormat == "json" {
		out, err := artifact.Encode(statuses)
		if err != nil {
			return errors.New(errors.InternalError, "failed to encode engine list", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(statuses) == 0 {
		fmt.Printf("No engines declared (%s not found or empty); analysis runs on heuristics.\n", registryPath(cfg))
		return nil
	}
	for _, s := range statuses {
		marker := " "
		if s.Default {
			marker = "*"
		}
		state := "missing"
		if s.Available {
			state = "available"
		}
		fmt.Printf("%s %-16s %-9s %s\n", marker, s.Name, state, s.Jar)
	}
	return nil
}
