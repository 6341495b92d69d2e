package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/papergen/internal/store"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List recently generated papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryPaperEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No papers generated yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-20s  %-24s  %-5s  %-9s  %s\n",
			"ID", "Timestamp", "Subject", "Institution", "Level", "Questions", "OK")
		fmt.Println(strings.Repeat("─", 100))

		var failed int
		for _, e := range events {
			ok := "✓"
			if e.Sentinel {
				ok = "✗"
				failed++
			}
			fmt.Printf("%-5d  %-19s  %-20s  %-24s  %-5s  %-9s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(orDash(e.Subject), 20),
				truncate(orDash(e.Institution), 24),
				e.Level,
				fmt.Sprintf("%d/%d", e.Produced, e.Requested),
				ok,
			)
		}

		fmt.Println(strings.Repeat("─", 100))
		fmt.Printf("%d papers, %d failed\n", len(events), failed)
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	papersCmd.Flags().IntP("limit", "n", 20, "Number of papers to show")
}
