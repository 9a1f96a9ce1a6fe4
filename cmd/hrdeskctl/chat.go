package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var sessionID string
	var stream bool

	chatCmd := &cobra.Command{
		Use:   "chat QUERY",
		Short: "Send a query to the assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if stream {
				return runStreamedChat(args[0], sessionID)
			}
			payload := map[string]interface{}{"query": args[0]}
			if sessionID != "" {
				payload["session_id"] = sessionID
			}
			data, err := doPostJSON("/api/chat", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	chatCmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID (generated when omitted)")
	chatCmd.Flags().BoolVar(&stream, "stream", false, "Stream lifecycle events as they happen")
	rootCmd.AddCommand(chatCmd)
}

// runStreamedChat consumes the SSE endpoint and prints one event per line.
func runStreamedChat(query, sessionID string) error {
	req := newClient().R().
		SetDoNotParseResponse(true).
		SetQueryParam("query", query)
	if sessionID != "" {
		req.SetQueryParam("session_id", sessionID)
	}
	resp, err := req.Get("/api/chat/stream")
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()
	if resp.StatusCode() != 200 {
		return fmt.Errorf("http %d", resp.StatusCode())
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var e map[string]interface{}
		raw := strings.TrimPrefix(line, "data: ")
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		_, _ = fmt.Fprintln(os.Stdout, raw)
	}
	return scanner.Err()
}
