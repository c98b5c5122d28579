package sheet

import "time"

// velocityWindow bounds how far back release velocity looks. Samples older
// than this no longer describe the finger's intent at release.
const velocityWindow = 100 * time.Millisecond

// velocitySamples is the ring capacity; at 60 input events/second a full
// window is six samples, so eight leaves headroom for bursts.
const velocitySamples = 8

type velocitySample struct {
	at  time.Time
	pos float64
}

// velocityTracker derives release velocity from recent position samples.
type velocityTracker struct {
	ring [velocitySamples]velocitySample
	head int
	n    int
}

func (t *velocityTracker) add(at time.Time, pos float64) {
	t.ring[t.head] = velocitySample{at: at, pos: pos}
	t.head = (t.head + 1) % velocitySamples
	if t.n < velocitySamples {
		t.n++
	}
}

// velocity returns units per millisecond over the sample window ending at
// now. Fewer than two fresh samples means the finger was effectively still.
func (t *velocityTracker) velocity(now time.Time) float64 {
	var newest, oldest velocitySample
	found := 0
	for i := 0; i < t.n; i++ {
		idx := (t.head - 1 - i + velocitySamples*2) % velocitySamples
		s := t.ring[idx]
		if now.Sub(s.at) > velocityWindow {
			break
		}
		if found == 0 {
			newest = s
		}
		oldest = s
		found++
	}
	if found < 2 {
		return 0
	}
	ms := float64(newest.at.Sub(oldest.at)) / float64(time.Millisecond)
	if ms <= 0 {
		return 0
	}
	return (newest.pos - oldest.pos) / ms
}
