package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundResponder_Delay(t *testing.T) {
	tests := []struct {
		name    string
		floor   time.Duration
		jitter  time.Duration
		draw    int64
		elapsed time.Duration
		want    time.Duration
	}{
		{name: "floor only", floor: 100 * time.Millisecond, elapsed: 30 * time.Millisecond, want: 70 * time.Millisecond},
		{name: "with jitter", floor: 100 * time.Millisecond, jitter: 50 * time.Millisecond, draw: int64(20 * time.Millisecond), elapsed: 30 * time.Millisecond, want: 90 * time.Millisecond},
		{name: "already late", floor: 100 * time.Millisecond, elapsed: time.Second, want: 0},
		{name: "disabled", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNotFoundResponder(tt.floor, tt.jitter)
			n.randN = func(max int64) int64 {
				assert.Equal(t, int64(tt.jitter)+1, max)
				return tt.draw
			}
			assert.Equal(t, tt.want, n.delay(tt.elapsed))
		})
	}
}

func TestNotFoundResponder_WaitsFromRequestStart(t *testing.T) {
	n := newNotFoundResponder(200*time.Millisecond, 0)
	var slept time.Duration
	n.sleep = func(ctx context.Context, d time.Duration) { slept = d }

	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	start := time.Now().Add(-150 * time.Millisecond)
	r = r.WithContext(context.WithValue(r.Context(), ctxStart, start))
	w := httptest.NewRecorder()
	n.write(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, notFoundBody, w.Body.String())
	assert.Greater(t, slept, time.Duration(0))
	assert.LessOrEqual(t, slept, 50*time.Millisecond)
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc ": "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, bearerToken(r), header)
	}
}
