// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/senti-tui/internal/util"
)

// =============================================================================
// HISTORY LIST FORMATTING
// =============================================================================

const previewWidth = 40

// FormatHistoryList formats entries as a plain-text table: short ID,
// time, result and a one-line preview of the text.
func FormatHistoryList(entries []Entry) string {
	if len(entries) == 0 {
		return "No history found."
	}

	var sb strings.Builder
	rule := strings.Repeat("-", 8+1+16+1+10+1+previewWidth) + "\n"
	sb.WriteString(rule)
	sb.WriteString(util.PadRight("ID", 8) + " " +
		util.PadRight("Time", 16) + " " +
		util.PadRight("Result", 10) + " Text\n")
	sb.WriteString(rule)

	for _, e := range entries {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		result := e.Sentiment
		if !e.Succeeded() {
			result = "error"
		}
		preview := util.TruncateWidth(util.SingleLine(e.Text), previewWidth)

		sb.WriteString(util.PadRight(id, 8) + " " +
			util.PadRight(e.CreatedAt.Format("2006-01-02 15:04"), 16) + " " +
			util.PadRight(result, 10) + " " +
			preview + "\n")
	}
	return sb.String()
}

// FormatStats formats aggregate statistics, labels sorted by count.
func FormatStats(s *Stats) string {
	if s == nil || s.Total == 0 {
		return "No history recorded."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyses:   %d\n", s.Total)
	fmt.Fprintf(&sb, "Succeeded:  %d\n", s.Succeeded)
	fmt.Fprintf(&sb, "Failed:     %d\n", s.Failed)
	fmt.Fprintf(&sb, "Avg time:   %.0fms\n", s.AvgDurationMs)
	if s.First != nil && s.Last != nil {
		fmt.Fprintf(&sb, "Range:      %s .. %s\n",
			s.First.Format("2006-01-02 15:04"), s.Last.Format("2006-01-02 15:04"))
	}

	if len(s.ByLabel) > 0 {
		labels := make([]string, 0, len(s.ByLabel))
		for label := range s.ByLabel {
			labels = append(labels, label)
		}
		sort.Slice(labels, func(i, j int) bool {
			if s.ByLabel[labels[i]] != s.ByLabel[labels[j]] {
				return s.ByLabel[labels[i]] > s.ByLabel[labels[j]]
			}
			return labels[i] < labels[j]
		})

		sb.WriteString("\nBy sentiment:\n")
		for _, label := range labels {
			fmt.Fprintf(&sb, "  %s %d\n", util.PadRight(label, 10), s.ByLabel[label])
		}
	}
	return sb.String()
}
