package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hrdesk/hrdesk/hrservice"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrdesk",
		Short: "HR assistant service",
		Long:  "Runs the HR assistant HTTP service: multi-agent chat, session memory and HR data tools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return hrservice.Run()
		},
		SilenceUsage: true,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
