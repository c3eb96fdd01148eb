package main

import (
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lobbyreg",
	Short: "Mirror the German lobby register into PostgreSQL",
	Long: `lobbyreg downloads register entries from the Bundestag lobby register
API, normalizes the nested JSON documents into relational rows, and
upserts them into PostgreSQL so repeated runs converge on the same state.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
