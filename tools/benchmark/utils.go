// Package main provides helper functions for the benchmark CLI
package main

import (
	"fmt"
	"time"
)

// formatRate formats a rate (items per second)
func formatRate(count int, duration time.Duration) string {
	if duration.Seconds() == 0 {
		return "N/A"
	}
	rate := float64(count) / duration.Seconds()
	return fmt.Sprintf("%.2f/s", rate)
}

// percentageString calculates and formats a percentage
func percentageString(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}

// outcomeEmoji returns an emoji for a submission outcome
func outcomeEmoji(outcome string) string {
	switch outcome {
	case outcomeAdmit:
		return "✅"
	case "too_fast", "rate_limited", "too_many_requests":
		return "🟡"
	case outcomeNetwork:
		return "⛔"
	default:
		return "❌"
	}
}
