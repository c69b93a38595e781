package adapter

import (
	"time"

	"github.com/sirupsen/logrus"
)

// NmapOption is a functional option for configuring NmapSource
type NmapOption func(*NmapSource)

// WithTimeout sets the timeout for the entire sweep
func WithTimeout(d time.Duration) NmapOption {
	return func(n *NmapSource) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithPrivileged runs nmap with --privileged so that it uses ARP discovery
// and reports MAC addresses. Requires root or the matching capabilities.
func WithPrivileged(enabled bool) NmapOption {
	return func(n *NmapSource) {
		n.privileged = enabled
	}
}

// WithNmapLogger sets the logger
func WithNmapLogger(l logrus.FieldLogger) NmapOption {
	return func(n *NmapSource) {
		n.log = l
	}
}

// withRunner replaces the nmap invocation, for tests
func withRunner(run runFunc) NmapOption {
	return func(n *NmapSource) {
		n.run = run
	}
}
