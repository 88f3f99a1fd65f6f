// Package lifecycle implements the pod naming policy, the GPU
// selection policy and the lifecycle manager that orchestrates
// deploy/start/stop/restart/status/terminate against a provider.
package lifecycle

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PodName derives the unique instance name for a pod. Pure and
// deterministic. Invalid characters in project or podType are not
// sanitized here; that is the caller's responsibility.
func PodName(project, podType string, timestamp int64) string {
	return fmt.Sprintf("%s-%s-%d", project, podType, timestamp)
}

// PodNamePrefix returns the listing prefix shared by every pod of the
// given project and type.
func PodNamePrefix(project, podType string) string {
	return project + "-" + podType + "-"
}

// Stamper issues strictly increasing epoch-second timestamps, so
// repeated deploys of the same pod type within one process never
// produce colliding names.
type Stamper struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewStamper creates a Stamper backed by the wall clock.
func NewStamper() *Stamper {
	return &Stamper{now: time.Now}
}

// Next returns the next timestamp.
func (s *Stamper) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().Unix()
	if ts <= s.last {
		ts = s.last + 1
	}
	s.last = ts
	return ts
}

// timestampFromName extracts the trailing timestamp of a pod name
// carrying the given prefix. Used to resolve the most recent pod when
// several share a project and type.
func timestampFromName(name, prefix string) (int64, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	ts, err := strconv.ParseInt(name[len(prefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}
