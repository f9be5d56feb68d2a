package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formwork-dev/formwork/internal/cli"
	"github.com/formwork-dev/formwork/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the declared workflow graph.
With a data document, the evaluated state is painted on top: sections
are coloured by verdict and inactive edges are drawn dashed.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dataFile, _ := cmd.Flags().GetString("data")
		level, _ := cmd.Flags().GetString("log-level")

		logger := cli.NewLogger(level)

		engine, err := cli.NewEngine(file, logger)
		if err != nil {
			fmt.Printf("Error initializing formwork: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if cmd.Flags().Changed("data") {
			data, err := cli.LoadData(dataFile)
			if err != nil {
				fmt.Printf("Error loading data: %v\n", err)
				os.Exit(1)
			}
			state, err := engine.GetWorkflowState(cmd.Context(), data)
			if err != nil {
				fmt.Printf("Error evaluating state: %v\n", err)
				os.Exit(1)
			}
			overlay = &graph.Overlay{State: state}
		}

		idx := engine.Definition()
		output := graph.GenerateMermaid(idx.Flow(), idx.Edges(), overlay)
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("data", "d", "", "Data document to overlay on the graph (JSON or YAML)")
}
