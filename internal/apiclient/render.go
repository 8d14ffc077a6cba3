package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Badge styles for run statuses.
const (
	BadgeSuccess = "success"
	BadgeDanger  = "danger"
	BadgeWarning = "warning"
	BadgeNeutral = "neutral"
)

// StatusBadge maps a run status onto its badge style. The mapping is
// total: unknown statuses fall back to the neutral style.
func StatusBadge(status string) string {
	switch status {
	case "completed":
		return BadgeSuccess
	case "failed":
		return BadgeDanger
	case "running":
		return BadgeWarning
	default:
		return BadgeNeutral
	}
}

// FormatScore renders a nullable score, using "N/A" for absent values.
func FormatScore(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", *score)
}

// FormatExecutionTime renders a nullable duration in seconds, using
// "N/A" for absent values.
func FormatExecutionTime(t *float64) string {
	if t == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2fs", *t)
}

// RenderResult pretty-prints a run result, including the raw actual
// output document.
func RenderResult(w io.Writer, result *TestResult) {
	fmt.Fprintf(w, "Result #%d  model=%s  status=%s [%s]\n", result.ID, result.ModelName, result.Status, StatusBadge(result.Status))
	fmt.Fprintf(w, "  score:          %s\n", FormatScore(result.Score))
	fmt.Fprintf(w, "  execution time: %s\n", FormatExecutionTime(result.ExecutionTime))
	if result.ErrorMessage != nil && *result.ErrorMessage != "" {
		fmt.Fprintf(w, "  error:          %s\n", *result.ErrorMessage)
	}
	if len(result.ActualOutput) > 0 {
		fmt.Fprintf(w, "  actual output:\n%s\n", indentJSON(result.ActualOutput, "    "))
	}
	if len(result.Metrics) > 0 {
		fmt.Fprintf(w, "  metrics:\n%s\n", indentJSON(result.Metrics, "    "))
	}
}

// RenderOverview prints the dashboard's headline numbers.
func RenderOverview(w io.Writer, overview *Overview) {
	totalCases := 0
	for _, n := range overview.TaskStatistics {
		totalCases += n
	}
	totalResults := 0
	for _, n := range overview.ResultStatistics {
		totalResults += n
	}

	fmt.Fprintln(w, "Platform overview")
	fmt.Fprintf(w, "  test cases:        %d\n", totalCases)
	for taskType, count := range overview.TaskStatistics {
		fmt.Fprintf(w, "    %-16s %d\n", taskType, count)
	}
	fmt.Fprintf(w, "  test results:      %d\n", totalResults)
	for status, count := range overview.ResultStatistics {
		fmt.Fprintf(w, "    %-16s %d\n", status, count)
	}
	fmt.Fprintf(w, "  tests last 7 days: %d\n", overview.RecentTestsCount)
	fmt.Fprintf(w, "  average score:     %.4f\n", overview.AverageScore)
	fmt.Fprintf(w, "  average time:      %.2fs\n", overview.AverageExecutionTime)
}

// RenderModelPerformance prints the per-model statistics table.
func RenderModelPerformance(w io.Writer, rows []ModelPerformance) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tTESTS\tAVG SCORE\tAVG TIME\tSUCCESS RATE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.2fs\t%.0f%%\n",
			row.ModelName, row.TotalTests, clamp01(row.AverageScore), row.AverageExecutionTime, clamp01(row.SuccessRate)*100)
	}
	tw.Flush()
}

// RenderRecentTests prints the recent-tests table.
func RenderRecentTests(w io.Writer, rows []RecentTest) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEST CASE\tTASK\tMODEL\tSCORE\tTIME\tSTATUS")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s [%s]\n",
			row.TestResultID, row.TestCaseName, row.TaskType, row.ModelName,
			FormatScore(row.Score), FormatExecutionTime(row.ExecutionTime),
			row.Status, StatusBadge(row.Status))
	}
	tw.Flush()
}

// RenderTestCases prints a test case listing.
func RenderTestCases(w io.Writer, cases []TestCase) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTASK\tCREATED")
	for _, tc := range cases {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", tc.ID, tc.Name, tc.TaskType, tc.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

// clamp01 bounds a score into [0, 1] for display.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func indentJSON(raw json.RawMessage, prefix string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, prefix, "  "); err != nil {
		return prefix + string(raw)
	}
	return prefix + buf.String()
}
