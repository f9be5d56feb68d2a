package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formwork-dev/formwork/internal/cli"
	"github.com/formwork-dev/formwork/internal/presentation/report"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a data document against the workflow definition",
	Long: `Runs one evaluation pass and prints the resulting workflow state:
pruned data, derived values, section verdicts and edge activation.
By default the state is printed as JSON; --report renders a styled
markdown report instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dataFile, _ := cmd.Flags().GetString("data")
		asReport, _ := cmd.Flags().GetBool("report")
		asJSON, _ := cmd.Flags().GetBool("json")
		level, _ := cmd.Flags().GetString("log-level")

		if asReport && asJSON {
			fmt.Println("Error: --report and --json cannot be used together.")
			os.Exit(1)
		}

		logger := cli.NewLogger(level)

		engine, err := cli.NewEngine(file, logger)
		if err != nil {
			fmt.Printf("Error initializing formwork: %v\n", err)
			os.Exit(1)
		}

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

		if asReport {
			markdown := report.Markdown(state, engine.Definition().Flow())
			render := report.NewRenderer()
			out, err := render(markdown)
			if err != nil {
				// Fall back to the raw markdown if the terminal renderer chokes.
				out = markdown
			}
			fmt.Print(out)
			return
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			fmt.Printf("Error encoding state: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("data", "d", "", "Data document to evaluate (JSON or YAML)")
	evaluateCmd.Flags().Bool("report", false, "Render a styled markdown report instead of JSON")
	evaluateCmd.Flags().Bool("json", false, "Print the state as indented JSON (the default)")
}
