// Package cli is the outer-surface glue cmd/wispcheck uses for
// progress logging and diagnostic coloring. It is never imported by
// C1–C6: the pipeline itself stays synchronous and silent per
// spec.md §5 ("No operation internally suspends"), returning
// structured diag.Report values rather than logging anything itself.
//
// Grounded on open-platform-model-cli's internal/output/log.go
// (leveled, io.Writer-based logger setup) and the teacher's own
// cmd/ailang/main.go (green/red/yellow/cyan/bold color.SprintFuncs).
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/wisplang/wisp/internal/diag"
)

var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Logger is the shared progress logger; SetupLogging replaces it once
// the root command has parsed --verbose.
var Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

// SetupLogging configures Logger's level and whether it reports
// timestamps/callers, mirroring open-platform-model-cli's
// output.SetupLogging verbose/quiet split.
func SetupLogging(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		ReportCaller:    verbose,
	})
}

// SeverityColor picks the color a diagnostic's phase renders in: solver
// and inference failures are hard errors (red), coverage/infection
// findings are softer warnings (yellow), everything else (the loader
// and presenter phases) renders cyan.
func SeverityColor(phase diag.Phase) func(...interface{}) string {
	switch phase {
	case diag.PhaseInfer, diag.PhaseSolve:
		return Red
	case diag.PhaseCoverage, diag.PhaseInfection:
		return Yellow
	default:
		return Cyan
	}
}
