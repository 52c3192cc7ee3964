// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "math/big"

// Record is the per-account stake record. An account has a record iff it
// currently has an open stake, and at most one.
type Record struct {
	Amount         *big.Int // staked quantity, bounded [MinStake, MaxStake] at creation
	StartTime      uint32   // time reference at which the stake was opened
	Period         uint32   // declared duration in time units
	ClaimedRewards *big.Int // cumulative reward already paid out, monotonically non-decreasing
}

// Elapsed returns time units since the record was opened. The time reference
// never decreases, so a reference older than StartTime reads as zero.
func (r *Record) Elapsed(now uint32) uint32 {
	if now < r.StartTime {
		return 0
	}
	return now - r.StartTime
}

// IsEarly reports whether the declared period has not fully elapsed yet.
func (r *Record) IsEarly(now uint32) bool {
	return r.Elapsed(now) < r.Period
}
