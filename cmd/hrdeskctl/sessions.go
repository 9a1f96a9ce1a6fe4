package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	sessionsCmd := &cobra.Command{Use: "sessions", Short: "Session operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List conversation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/sessions")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	sessionsCmd.AddCommand(listCmd)

	messagesCmd := &cobra.Command{
		Use:   "messages SESSION_ID",
		Short: "Show the full message history of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("/api/sessions/%s/messages", args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	sessionsCmd.AddCommand(messagesCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete SESSION_ID",
		Short: "Delete a session and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doDelete(fmt.Sprintf("/api/sessions/%s", args[0])); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	sessionsCmd.AddCommand(deleteCmd)

	deleteAllCmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every session",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doDelete("/api/sessions")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	sessionsCmd.AddCommand(deleteAllCmd)

	rootCmd.AddCommand(sessionsCmd)

	var daysOld int
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove sessions idle past the retention horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/api/admin/cleanup", map[string]int{"days_old": daysOld})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	cleanupCmd.Flags().IntVarP(&daysOld, "days", "d", 30, "Retention horizon in days")
	rootCmd.AddCommand(cleanupCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service and storage health",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/health/db")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(healthCmd)
}
