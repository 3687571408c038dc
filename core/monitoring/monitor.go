// Package monitoring defines the error reporter used for failed runs.
package monitoring

import "time"

// Monitor reports errors to an external service.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}
