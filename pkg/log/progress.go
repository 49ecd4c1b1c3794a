package log

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ProgressBar renders a single-line counter bar, e.g. files retrieved out of
// the files matched in a week directory.
type ProgressBar struct {
	title     string
	total     int
	current   int
	width     int
	startTime time.Time
	completed bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(title string, total int) *ProgressBar {
	return &ProgressBar{
		title:     title,
		total:     total,
		width:     20,
		startTime: time.Now(),
	}
}

// Update sets the current position and redraws the bar
func (pb *ProgressBar) Update(current int) {
	if current > pb.total {
		current = pb.total
	}
	pb.current = current
	pb.render()
}

// Increment increments the progress by 1
func (pb *ProgressBar) Increment() {
	pb.Update(pb.current + 1)
}

// Current returns the current position
func (pb *ProgressBar) Current() int {
	return pb.current
}

// Complete marks the progress as completed
func (pb *ProgressBar) Complete() {
	if pb.completed {
		return
	}
	pb.current = pb.total
	pb.completed = true
	pb.render()
	if !quiet {
		fmt.Fprintln(os.Stdout)
	}
}

func (pb *ProgressBar) render() {
	if quiet || pb.total <= 0 {
		return
	}

	filled := pb.width * pb.current / pb.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)

	status := fmt.Sprintf("%d/%d", pb.current, pb.total)
	if pb.completed {
		status += fmt.Sprintf(" (%s)", formatDuration(time.Since(pb.startTime)))
	}

	fmt.Fprintf(os.Stdout, "\r%s [%s] %s", pb.title, bar, status)
}

// formatDuration formats duration to human readable string
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

// ProgressInfof shows formatted progress information (only in non-quiet mode)
func ProgressInfof(format string, args ...any) {
	if !quiet {
		Infof(format, args...)
	}
}
