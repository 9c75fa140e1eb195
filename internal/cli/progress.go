package cli

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mvp-joe/componentize/internal/extract"
	"github.com/schollz/progressbar/v3"
)

var phaseDescriptions = map[extract.Phase]string{
	extract.PhaseCollect:   "Collecting candidates",
	extract.PhaseAnalyze:   "Analyzing variants",
	extract.PhaseTransform: "Replacing instances",
	extract.PhaseFinalize:  "Snapshotting components",
}

// CLIProgressReporter implements extract.ProgressReporter with one progress
// bar per phase.
type CLIProgressReporter struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
	done  int
	start time.Time
}

// NewCLIProgressReporter creates a reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   out,
		start: time.Now(),
	}
}

func (c *CLIProgressReporter) OnPhaseStart(phase extract.Phase, total int) {
	if c.quiet {
		return
	}
	c.done = 0
	if total <= 0 {
		log.Printf("%s...", phaseDescriptions[phase])
		return
	}
	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription(phaseDescriptions[phase]),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnPhaseProgress(phase extract.Phase, done int) {
	if c.quiet || c.bar == nil {
		return
	}
	if delta := done - c.done; delta > 0 {
		c.bar.Add(delta)
		c.done = done
	}
}

func (c *CLIProgressReporter) OnPhaseComplete(phase extract.Phase, duration time.Duration) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}

func (c *CLIProgressReporter) OnComplete(stats *extract.Stats) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "✓ Extraction complete: %s components in %.1fs\n",
		formatNumber(stats.Groups-stats.Dropped), time.Since(c.start).Seconds())
	fmt.Fprintf(c.out, "  Instances replaced: %s\n", formatNumber(stats.References))
	fmt.Fprintf(c.out, "  Variant groups:     %s (%s looks)\n", formatNumber(stats.VariantGroups), formatNumber(stats.Looks))
	if stats.Dropped > 0 {
		fmt.Fprintf(c.out, "  Dropped:            %s\n", formatNumber(stats.Dropped))
	}
}

// formatNumber groups thousands with commas.
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 && n > -1000 {
		return str
	}

	var result string
	digits := str
	if n < 0 {
		result, digits = "-", str[1:]
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
