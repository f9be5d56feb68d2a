package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/formwork-dev/formwork"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of formwork",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formwork version %s\n", strings.TrimSpace(formwork.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
