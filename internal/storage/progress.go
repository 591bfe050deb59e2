package storage

import "io"

// ProgressTracker converts byte counts into the [0,100] progress scale the
// upload surfaces. Reported values never decrease, even if the underlying
// size estimate was off.
type ProgressTracker struct {
	total    int64
	read     int64
	lastPct  float64
	callback func(pct float64)
}

// NewProgressTracker creates a tracker for a transfer of the given total
// size. A nil callback or unknown size (<= 0) disables intermediate
// reports; Finish still reports 100.
func NewProgressTracker(total int64, callback func(pct float64)) *ProgressTracker {
	return &ProgressTracker{total: total, callback: callback}
}

// Advance records n more transferred bytes and reports progress.
func (t *ProgressTracker) Advance(n int64) {
	t.read += n
	if t.callback == nil || t.total <= 0 {
		return
	}
	pct := float64(t.read) / float64(t.total) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < t.lastPct {
		return
	}
	t.lastPct = pct
	t.callback(pct)
}

// Finish reports completion regardless of how the byte counts added up.
func (t *ProgressTracker) Finish() {
	if t.callback == nil {
		return
	}
	if t.lastPct < 100 {
		t.lastPct = 100
		t.callback(100)
	}
}

// Wrap returns a reader that advances the tracker as r is consumed.
func (t *ProgressTracker) Wrap(r io.Reader) io.Reader {
	return &progressReader{r: r, tracker: t}
}

type progressReader struct {
	r       io.Reader
	tracker *ProgressTracker
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.tracker.Advance(int64(n))
	}
	return n, err
}
