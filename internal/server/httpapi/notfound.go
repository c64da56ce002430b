package httpapi

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"
)

const notFoundDetail = "Not Found"

// notFoundResponder writes the one not-found response used for unknown
// routes, wrong methods, masked resources and gate denials. The response is
// held until floor plus a random share of jitter has passed since the
// request arrived.
type notFoundResponder struct {
	floor  time.Duration
	jitter time.Duration
	// randN returns a value in [0, n).
	randN func(n int64) int64
	sleep func(ctx context.Context, d time.Duration)
}

func newNotFoundResponder(floor, jitter time.Duration) *notFoundResponder {
	return &notFoundResponder{
		floor:  floor,
		jitter: jitter,
		randN:  rand.Int64N,
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// delay is how long to wait before writing, given the time already spent.
func (n *notFoundResponder) delay(elapsed time.Duration) time.Duration {
	target := n.floor
	if n.jitter > 0 {
		target += time.Duration(n.randN(int64(n.jitter) + 1))
	}
	if wait := target - elapsed; wait > 0 {
		return wait
	}
	return 0
}

func (n *notFoundResponder) write(w http.ResponseWriter, r *http.Request) {
	if d := n.delay(time.Since(requestStart(r))); d > 0 {
		n.sleep(r.Context(), d)
	}
	writeJSON(w, http.StatusNotFound, errorBody{Detail: notFoundDetail})
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request) {
	s.notFound.write(w, r)
}
