package sntp

// Anchor pairs a monotonic reading with the server time estimated at that
// instant. It is only ever replaced as a whole.
type Anchor struct {
	synced      bool
	monotonicMs uint64
	serverTime  float64
}

func (a *Anchor) Record(result SyncResult) {
	*a = Anchor{
		synced:      true,
		monotonicMs: result.AnchorMonotonicMs,
		serverTime:  result.AnchorServerTime,
	}
}

func (a *Anchor) Synced() bool {
	return a.synced
}

// ServerTime projects the anchored server time forward by the monotonic time
// elapsed since the anchor was recorded.
func (a *Anchor) ServerTime(clock Clock) (float64, error) {
	if !a.synced {
		return 0, ErrNotSynced
	}
	return a.serverTime + a.elapsed(clock), nil
}

func (a *Anchor) SinceLastSync(clock Clock) float64 {
	if !a.synced {
		return 0
	}
	return a.elapsed(clock)
}

func (a *Anchor) NeedsResync(clock Clock, maxInterval float64) bool {
	return !a.synced || a.SinceLastSync(clock) > maxInterval
}

func (a *Anchor) elapsed(clock Clock) float64 {
	return float64(int64(clock.ElapsedMillis())-int64(a.monotonicMs)) / 1000
}
