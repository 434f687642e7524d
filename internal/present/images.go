package present

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	HeroImageKey = "hero-banner"

	heroImageURL     = "https://loremflickr.com/1200/400/roadtrip,mountains,landscape"
	dayImageBase     = "https://loremflickr.com/1200/600/"
	scienceImageBase = "https://loremflickr.com/400/200/"

	heroGradient = "from-arcteryx-blue/20 to-arcteryx-cyan/20"
)

// dayGradients cycle across day cards by position.
var dayGradients = []string{
	"from-arcteryx-blue to-arcteryx-cyan",
	"from-forest-green to-forest-green-light",
	"from-arcteryx-cyan to-forest-green",
}

func DayImageKey(dayNumber int) string { return fmt.Sprintf("day-%d", dayNumber) }

func ScienceImageKey(index int) string { return fmt.Sprintf("science-%d", index) }

// maxImageIndexDigits bounds the number in day-N and science-N keys; days
// never exceed 30 and science cards are capped well below that.
const maxImageIndexDigits = 3

// ValidImageKey reports whether key names an image slot the result page can
// show.
func ValidImageKey(key string) bool {
	if key == HeroImageKey {
		return true
	}
	for _, prefix := range []string{"day-", "science-"} {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		if rest == "" || len(rest) > maxImageIndexDigits {
			return false
		}
		for _, r := range rest {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// encodeComponent escapes s for use as a single path segment or query value,
// with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func dayImageURL(keyword string) string {
	if keyword == "" {
		keyword = "landscape"
	}
	return dayImageBase + encodeComponent(keyword)
}

func scienceImageURL(name string) string {
	if name == "" {
		name = "nature,landscape"
	}
	return scienceImageBase + encodeComponent(name) + ",geology"
}

// FailedImages answers whether an image slot has already failed to load.
type FailedImages interface {
	Has(key string) bool
}

type noFailures struct{}

func (noFailures) Has(string) bool { return false }

// ImageSet is a plain set of failed image keys.
type ImageSet map[string]struct{}

func (s ImageSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

type trackedImages struct {
	keys    ImageSet
	touched time.Time
}

// ImageTracker remembers failed image keys per session. A failure stays
// until Reset drops the session's set for a new itinerary, or until the
// set has gone untouched for ttl. A zero ttl keeps sets forever.
type ImageTracker struct {
	mu     sync.RWMutex
	ttl    time.Duration
	now    func() time.Time
	failed map[string]*trackedImages
}

func NewImageTracker(ttl time.Duration) *ImageTracker {
	return &ImageTracker{
		ttl:    ttl,
		now:    time.Now,
		failed: make(map[string]*trackedImages),
	}
}

// Mark records key as failed for the session and reports whether it was new.
func (t *ImageTracker) Mark(sessionID, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.failed[sessionID]
	if !ok || t.expired(set) {
		set = &trackedImages{keys: make(ImageSet)}
		t.failed[sessionID] = set
	}
	set.touched = t.now()
	if _, seen := set.keys[key]; seen {
		return false
	}
	set.keys[key] = struct{}{}
	return true
}

func (t *ImageTracker) Reset(sessionID string) {
	t.mu.Lock()
	delete(t.failed, sessionID)
	t.mu.Unlock()
}

// For returns a snapshot of the session's failed keys.
func (t *ImageTracker) For(sessionID string) ImageSet {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set, ok := t.failed[sessionID]
	if !ok || t.expired(set) {
		return ImageSet{}
	}
	out := make(ImageSet, len(set.keys))
	for k := range set.keys {
		out[k] = struct{}{}
	}
	return out
}

// Sessions reports how many sessions currently hold failures.
func (t *ImageTracker) Sessions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.failed)
}

// Sweep drops every expired session set and returns how many were removed.
func (t *ImageTracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for id, set := range t.failed {
		if t.expired(set) {
			delete(t.failed, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (t *ImageTracker) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

func (t *ImageTracker) expired(set *trackedImages) bool {
	return t.ttl > 0 && t.now().Sub(set.touched) >= t.ttl
}

func image(failed FailedImages, key, src, alt, gradient string) Image {
	if failed.Has(key) {
		return Image{Key: key, Alt: alt, Fallback: true, Gradient: gradient}
	}
	return Image{Key: key, URL: src, Alt: alt, Gradient: gradient}
}
