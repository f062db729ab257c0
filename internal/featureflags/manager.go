// Package featureflags evaluates runtime switches configured through FEATURE_FLAGS.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	// IndexCache caches the first index page in Redis.
	IndexCache = "index_cache"
	// ImageUploads accepts image attachments on posts.
	ImageUploads = "image_uploads"
)

type rule struct {
	raw string
	// pct is the rollout percentage: 0 off, 100 on, anything between is per-user.
	pct int
}

// Manager evaluates feature flags defined in a simple key=value list,
// e.g. "index_cache=on,image_uploads=25%".
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed pairs are skipped; unknown values evaluate as off.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		rules[key] = rule{raw: value, pct: parsePercent(value)}
	}
	return &Manager{rules: rules}
}

func parsePercent(value string) int {
	switch value {
	case "on", "true", "1":
		return 100
	case "off", "false", "0":
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if err != nil || !strings.HasSuffix(value, "%") {
		return 0
	}
	return min(max(n, 0), 100)
}

// On reports whether a flag is globally enabled; partial rollouts count as off.
func (m *Manager) On(name string) bool {
	return m.Enabled(name, 0)
}

// Enabled reports whether a flag is enabled for userID. Partial rollouts bucket
// users deterministically; anonymous users (0) only see fully enabled flags.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch {
	case r.pct <= 0:
		return false
	case r.pct >= 100:
		return true
	case userID == 0:
		return false
	}
	return rolloutBucket(name, userID) < r.pct
}

// Names returns the configured flag names, sorted.
func (m *Manager) Names() []string {
	out := make([]string, 0, len(m.rules))
	for k := range m.rules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
