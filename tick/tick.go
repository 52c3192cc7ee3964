// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tick provides the monotonic time reference used for all staking
// duration math.
package tick

import (
	"sync"
	"time"
)

// Source supplies the current time reference. It never decreases.
type Source interface {
	Now() uint32
}

type blockSource struct {
	launch   time.Time
	interval uint64
}

// NewBlockSource returns a source deriving the time reference from wall clock:
// one unit per interval seconds elapsed since launch.
func NewBlockSource(launch time.Time, interval uint64) Source {
	return &blockSource{launch, interval}
}

func (s *blockSource) Now() uint32 {
	elapsed := time.Since(s.launch)
	if elapsed < 0 {
		return 0
	}
	return uint32(uint64(elapsed/time.Second) / s.interval)
}

// Manual is a hand-driven source for tests and on-demand mode.
type Manual struct {
	mu sync.Mutex
	n  uint32
}

// NewManual creates a manual source at the given start reference.
func NewManual(start uint32) *Manual {
	return &Manual{n: start}
}

func (m *Manual) Now() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

// Advance moves the reference forward by d units.
func (m *Manual) Advance(d uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n += d
}
