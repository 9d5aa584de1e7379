package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrabot/internal/registry"
)

var evaluatorsCmd = &cobra.Command{
	Use:   "evaluators",
	Short: "List all available evaluators",
	Long:  `Shows a list of all board evaluators registered in tetrabot.`,
	Run:   runEvaluators,
}

func runEvaluators(cmd *cobra.Command, args []string) {
	evaluators := registry.List()

	if len(evaluators) == 0 {
		fmt.Println("No evaluators available.")
		return
	}

	fmt.Println("Available evaluators:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, e := range evaluators {
		if len(e.Name) > maxNameLen {
			maxNameLen = len(e.Name)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, e := range evaluators {
		fmt.Printf("  %-*s  %s\n", maxNameLen, e.Name, e.Description)
	}

	fmt.Println()
	fmt.Println("Set 'evaluator.name' in the bot config to choose one.")
}
