package profiler

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestTickLogsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(log.New(&buf))
	p.SetInterval(time.Hour)

	p.Observe(2*time.Millisecond, 3)
	if p.Tick() {
		t.Fatal("Tick() logged before the interval elapsed")
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}

	p.lastTime = time.Now().Add(-2 * time.Hour)
	if !p.Tick() {
		t.Fatal("Tick() did not log after the interval elapsed")
	}
	out := buf.String()
	for _, key := range []string{"tps=", "animations=3", "update_max=2ms", "heap_mb="} {
		if !strings.Contains(out, key) {
			t.Errorf("output %q missing %q", out, key)
		}
	}
	if p.frameCount != 0 || p.updateMax != 0 {
		t.Errorf("counters not reset: frames=%d max=%v", p.frameCount, p.updateMax)
	}
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(nil)
	p.SetInterval(0)
	if p.updateInterval != time.Second {
		t.Errorf("interval = %v, expected 1s", p.updateInterval)
	}
}
