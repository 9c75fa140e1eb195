package extract

import "time"

// Phase names one of the four extraction phases.
type Phase string

const (
	PhaseCollect   Phase = "collect"
	PhaseAnalyze   Phase = "analyze"
	PhaseTransform Phase = "transform"
	PhaseFinalize  Phase = "finalize"
)

// ProgressReporter provides callbacks for reporting extraction progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnPhaseStart is called when a phase begins. total is the number of
	// units the phase will report, or 0 if unknown.
	OnPhaseStart(phase Phase, total int)

	// OnPhaseProgress is called after each unit of work.
	OnPhaseProgress(phase Phase, done int)

	// OnPhaseComplete is called when a phase finishes.
	OnPhaseComplete(phase Phase, duration time.Duration)

	// OnComplete is called when extraction completes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnPhaseStart(phase Phase, total int)                 {}
func (n *NoOpProgressReporter) OnPhaseProgress(phase Phase, done int)               {}
func (n *NoOpProgressReporter) OnPhaseComplete(phase Phase, duration time.Duration) {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                             {}
