package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		out := newPrinter(cmd.OutOrStdout())
		events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			out.line("No LLM events found.")
			return nil
		}

		// Header.
		out.line("%-5s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		out.line("%s", strings.Repeat("\u2500", 100))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			model := truncate(e.Model, 28)
			out.line("%-5d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				model,
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		out := newPrinter(cmd.OutOrStdout())
		e, err := s.EventRepo().GetLLMEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		sep := strings.Repeat("\u2500", 60)

		out.line("ID:        %d", e.ID)
		out.line("Time:      %s", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		out.line("Provider:  %s", e.Provider)
		out.line("Model:     %s", e.Model)
		out.line("Purpose:   %s", e.Purpose)
		out.line("Tokens:    %d in / %d out", e.InputTokens, e.OutputTokens)
		out.line("Latency:   %dms", e.LatencyMs)
		out.line("Success:   %v", e.Success)
		if e.ErrorMessage != "" {
			out.line("Error:     %s", e.ErrorMessage)
		}

		out.line("")
		out.line("%s", sep)
		out.line("REQUEST")
		out.line("%s", sep)
		if e.RequestBody != "" {
			out.line("%s", e.RequestBody)
		} else {
			out.line("(not captured)")
		}

		out.line("%s", sep)
		out.line("RESPONSE")
		out.line("%s", sep)
		if e.ResponseBody != "" {
			out.line("%s", e.ResponseBody)
		} else {
			out.line("(not captured)")
		}

		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		out := newPrinter(cmd.OutOrStdout())
		stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			out.line("No LLM usage recorded yet.")
			return nil
		}

		// Usage by purpose.
		out.line("Usage by Purpose")
		out.line("%s", strings.Repeat("\u2500", 72))
		out.line("%-16s  %6s  %10s  %10s  %10s  %8s",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		out.line("%s", strings.Repeat("\u2500", 72))

		var totalCalls, totalIn, totalOut int
		for _, st := range stats {
			total := st.InputTokens + st.OutputTokens
			out.line("%-16s  %6d  %10d  %10d  %10d  %8d",
				st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, total, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		out.line("%s", strings.Repeat("\u2500", 72))
		out.line("%-16s  %6d  %10d  %10d  %10d",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		// Cost by model.
		modelUsage, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		if len(modelUsage) > 0 {
			out.line("")
			out.line("Estimated Cost (USD)")
			out.line("%s", strings.Repeat("\u2500", 72))
			out.line("%-32s  %6s  %10s  %10s  %10s",
				"Model", "Calls", "Input", "Output", "Cost")
			out.line("%s", strings.Repeat("\u2500", 72))

			var totalCost float64
			var unknownModels []string
			for _, mu := range modelUsage {
				cost := llm.LookupCost(mu.Model)
				if cost == nil {
					unknownModels = append(unknownModels, mu.Model)
					out.line("%-32s  %6d  %10d  %10d  %10s",
						truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
					continue
				}
				c := cost.Cost(mu.InputTokens, mu.OutputTokens)
				totalCost += c
				out.line("%-32s  %6d  %10d  %10d  %9s",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
			}

			out.line("%s", strings.Repeat("\u2500", 72))
			label := "TOTAL"
			if len(unknownModels) > 0 {
				label = "TOTAL (partial)"
			}
			out.line("%-32s  %6s  %10s  %10s  %9s",
				label, "", "", "", formatCost(totalCost))

			if len(unknownModels) > 0 {
				out.line("\nPricing unavailable for: %s", strings.Join(unknownModels, ", "))
			}
		}

		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (mcq, binary)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
