package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formwork-dev/formwork/internal/presentation/report"
	"github.com/formwork-dev/formwork/internal/validator"
	"github.com/formwork-dev/formwork/pkg/adapters/yamldef"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workflow definition for consistency",
	Long: `Parses the definition and reports every configuration problem it can
find: malformed ref-paths, duplicate declarations, dangling edge
endpoints, decisions without outputs and cyclic dependencies.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		if err := runValidate(file); err != nil {
			fmt.Println(report.Verdict(false, fmt.Sprintf("%s is not sound", file)))
			fmt.Printf("\n%v\n", err)
			os.Exit(1)
		}
		fmt.Println(report.Verdict(true, fmt.Sprintf("%s is sound", file)))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(file string) error {
	def, err := yamldef.LoadFile(file)
	if err != nil {
		return err
	}
	return validator.Validate(def)
}
