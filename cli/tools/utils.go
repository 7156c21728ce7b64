package tools

// utils.go contains the event list and unzip invocations.

import (
	"al.essio.dev/pkg/shellescape"
)

// DefaultEventLog is the log written by the event recorder during simulation.
const DefaultEventLog = "EventRecorder.log"

// BuildEventListArgs extracts the events recorded in log.
func (t Toolset) BuildEventListArgs(log string) []string {
	if log == "" {
		log = DefaultEventLog
	}
	return []string{t.EventList, "-s", log}
}

// BuildUnzipArgs extracts an archive into the working directory through the
// shell.
func (t Toolset) BuildUnzipArgs(archive string) []string {
	return []string{"bash", "-c", shellescape.Quote(t.Unzip) + " " + shellescape.Quote(archive)}
}
