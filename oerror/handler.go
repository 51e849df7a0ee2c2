package oerror

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/peek/utils"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Handler handles errors raised by plugin code such as server data providers. Every source is only logged and
// reported once, so a provider failing on every request does not flood the log.
type Handler struct {
	log *logrus.Logger

	mu   deadlock.Mutex
	seen map[string]struct{}
}

// NewHandler returns a Handler logging to the logger passed.
func NewHandler(log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{log: log, seen: make(map[string]struct{})}
}

// Handle handles an error raised by the source passed. It returns true if this is the first error of the source.
func (h *Handler) Handle(err error, source string, extra *orderedmap.OrderedMap[string, any]) bool {
	if err == nil {
		return false
	}

	h.mu.Lock()
	_, seen := h.seen[source]
	h.seen[source] = struct{}{}
	h.mu.Unlock()
	if seen {
		return false
	}

	h.log.Errorf("caught error in %s: %v %s", source, err, utils.OrderedMapToString(extra))

	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("source", source)
		if extra != nil {
			for el := extra.Front(); el != nil; el = el.Next() {
				scope.SetExtra(el.Key, el.Value)
			}
		}
		hub.CaptureException(err)
	})
	return true
}

// Recovered converts a value recovered from a panic into an error.
func Recovered(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return New("panic: %v", v)
}

// Reset forgets every source that failed so far.
func (h *Handler) Reset() {
	h.mu.Lock()
	clear(h.seen)
	h.mu.Unlock()
}
