// Package peers ranks remote hubs by how quickly and reliably they answer sync calls.
package peers

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/hubsync/go-hub/common/types"
)

type record struct {
	id       types.PeerID
	success  int
	failures int
	failRate float64
	// moving average of the time to transfer 1KiB
	latency float64
}

func (r *record) updateFailRate() {
	r.failRate = float64(r.failures) / float64(r.success+r.failures)
}

// score is lower for better peers. An untried peer is ranked slightly ahead of
// the average so it gets a chance, a peer that never succeeded slightly behind.
func (r *record) score(global float64) float64 {
	switch {
	case r.success+r.failures == 0:
		return 0.9 * global
	case r.success == 0:
		return 1.1 * global
	}
	return r.latency + r.failRate*global
}

func (r *record) compare(other *record, global float64) int {
	if c := cmp.Compare(r.score(global), other.score(global)); c != 0 {
		return c
	}
	return cmp.Compare(r.id, other.id)
}

// Peers is safe for concurrent use.
type Peers struct {
	mu      sync.Mutex
	records map[types.PeerID]*record

	// global is the average latency over every successful response. New peers
	// are scored against it and failures are penalized in its units.
	global float64
}

func New() *Peers {
	return &Peers{records: map[types.PeerID]*record{}}
}

// Add starts tracking a peer. It returns false if the peer is already known.
func (p *Peers) Add(id types.PeerID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.records[id]; ok {
		return false
	}
	p.records[id] = &record{id: id}
	return true
}

func (p *Peers) Delete(id types.PeerID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.records, id)
}

// OnFailure records a failed sync call.
func (p *Peers) OnFailure(id types.PeerID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.records[id]; ok {
		r.failures++
		r.updateFailRate()
	}
}

// OnLatency records a successful call that moved size bytes in the given time.
func (p *Peers) OnLatency(id types.PeerID, size int, latency time.Duration) {
	if size == 0 {
		return
	}
	// small responses are counted as 1KiB to absorb per call overhead
	perKiB := float64(latency / time.Duration(max(size/1024, 1)))
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[id]
	if !ok {
		return
	}
	r.success++
	r.updateFailRate()
	r.latency = movingAverage(r.latency, perKiB, 10)
	p.global = movingAverage(p.global, perKiB, 25)
}

func movingAverage(avg, sample, window float64) float64 {
	if avg == 0 {
		return sample
	}
	return avg + (sample-avg)/window
}

// SelectBestFrom returns the best ranked peer among candidates, or NoPeer if none is tracked.
func (p *Peers) SelectBestFrom(candidates []types.PeerID) types.PeerID {
	p.mu.Lock()
	defer p.mu.Unlock()
	var best *record
	for _, id := range candidates {
		r, ok := p.records[id]
		if !ok {
			continue
		}
		if best == nil || r.compare(best, p.global) < 0 {
			best = r
		}
	}
	if best == nil {
		return types.NoPeer
	}
	return best.id
}

// SelectBest returns at most n peers, best first.
func (p *Peers) SelectBest(n int) []types.PeerID {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n <= 0 || len(p.records) == 0 {
		return nil
	}
	all := make([]*record, 0, len(p.records))
	for _, r := range p.records {
		all = append(all, r)
	}
	slices.SortFunc(all, func(a, b *record) int { return a.compare(b, p.global) })
	all = all[:min(n, len(all))]
	ids := make([]types.PeerID, len(all))
	for i, r := range all {
		ids[i] = r.id
	}
	return ids
}

func (p *Peers) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// Stats reports the global latency and the five best peers.
func (p *Peers) Stats() Stats {
	best := p.SelectBest(5)
	p.mu.Lock()
	defer p.mu.Unlock()
	stats := Stats{
		Total:                len(p.records),
		GlobalAverageLatency: p.global,
	}
	for _, id := range best {
		r, ok := p.records[id]
		if !ok {
			continue
		}
		stats.BestPeers = append(stats.BestPeers, PeerStats{
			ID:       r.id,
			Success:  r.success,
			Failures: r.failures,
			Latency:  r.latency,
		})
	}
	return stats
}

type Stats struct {
	Total                int
	GlobalAverageLatency float64
	BestPeers            []PeerStats
}

func (s *Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("total", s.Total)
	enc.AddFloat64("global_latency", s.GlobalAverageLatency)
	return enc.AddArray("best", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for i := range s.BestPeers {
			if err := arr.AppendObject(&s.BestPeers[i]); err != nil {
				return err
			}
		}
		return nil
	}))
}

type PeerStats struct {
	ID       types.PeerID
	Success  int
	Failures int
	Latency  float64
}

func (p *PeerStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", p.ID.String())
	enc.AddInt("success", p.Success)
	enc.AddInt("failures", p.Failures)
	enc.AddFloat64("latency_per_kib", p.Latency)
	return nil
}
