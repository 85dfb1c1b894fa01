package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lastbite/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lastbite",
		Short: "LastBite surplus-food marketplace payment service",
	}

	rootCmd.AddCommand(server.NewCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
