package harness

import (
	"fmt"
	"strings"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

// FormatReport renders the final textual report
func FormatReport(report common.Report) string {
	builder := strings.Builder{}
	_, _ = fmt.Fprintf(&builder, "rounds: %d\n", report.NumRounds)
	_, _ = fmt.Fprintf(&builder, "successes: %d\n", report.Successes)
	_, _ = fmt.Fprintf(&builder, "failures: %d\n", report.Failures)
	if len(report.FailedMetrics) > 0 {
		_, _ = fmt.Fprintf(&builder, "failed metrics: %s\n", strings.Join(report.FailedMetrics, ", "))
	}
	for _, roundError := range report.RoundErrors {
		_, _ = fmt.Fprintf(&builder, "%s\n", roundError)
	}

	return builder.String()
}
