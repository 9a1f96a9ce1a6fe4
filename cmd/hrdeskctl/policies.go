package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type policyDoc struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content"`
}

func init() {
	policiesCmd := &cobra.Command{Use: "policies", Short: "Policy handbook operations"}

	ingestCmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Index handbook documents from a JSON file",
		Long:  "Reads a JSON array of {title, category, content} documents and indexes each one. Re-ingesting a title replaces the stored passage.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var docs []policyDoc
			if err := json.Unmarshal(data, &docs); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			for _, doc := range docs {
				if _, err := doPostJSON("/api/admin/policies", doc); err != nil {
					return fmt.Errorf("index %q: %w", doc.Title, err)
				}
				_, _ = fmt.Fprintf(os.Stdout, "indexed %q\n", doc.Title)
			}
			return nil
		},
	}
	policiesCmd.AddCommand(ingestCmd)

	rootCmd.AddCommand(policiesCmd)
}
