// Package featureflags evaluates per-user rollouts configured through
// FEATURE_FLAGS, e.g. "webp_thumbnails=25%,avatar_webp=off".
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
	WebPThumbnails = "webp_thumbnails"
	WebPAvatars    = "webp_avatars"
)

// rollout is the share of users, 0..100, that see a flag.
type rollout int

// Flags holds parsed rollouts. The zero value and a nil *Flags disable everything.
type Flags struct {
	rollouts map[string]rollout
}

// Parse reads a comma separated name=value list. Values are on/true/1,
// off/false/0 or a percentage like 25%. Malformed entries are skipped.
func Parse(raw string) *Flags {
	f := &Flags{rollouts: make(map[string]rollout)}
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name = normalize(name)
		r, ok := parseRollout(normalize(value))
		if name == "" || !ok {
			continue
		}
		f.rollouts[name] = r
	}
	return f
}

func parseRollout(value string) (rollout, bool) {
	switch value {
	case "on", "true", "1":
		return 100, true
	case "off", "false", "0":
		return 0, true
	}
	pct, found := strings.CutSuffix(value, "%")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil {
		return 0, false
	}
	return rollout(min(max(n, 0), 100)), true
}

// Enabled reports whether name is on for userID. Partial rollouts hash the
// user into a stable bucket and are always off for anonymous callers.
func (f *Flags) Enabled(name string, userID uint) bool {
	if f == nil {
		return false
	}
	r, ok := f.rollouts[normalize(name)]
	switch {
	case !ok || r <= 0:
		return false
	case r >= 100:
		return true
	case userID == 0:
		return false
	}
	return bucket(name, userID) < int(r)
}

// Names returns the configured flag names in sorted order.
func (f *Flags) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.rollouts))
	for n := range f.rollouts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Percent returns the configured rollout for name, or 0 if unset.
func (f *Flags) Percent(name string) int {
	if f == nil {
		return 0
	}
	return int(f.rollouts[normalize(name)])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
