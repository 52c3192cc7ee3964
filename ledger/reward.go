// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"
)

var percentDivisor = big.NewInt(100)

// AccruedReward returns the total reward accrued by the record at the given
// time reference:
//
//	floor(amount * ratePercent * min(elapsed, period) / 100)
//
// Accrual stops once the declared period has fully elapsed, even if the
// position stays open.
func AccruedReward(rec *Record, now uint32, ratePercent uint32) *big.Int {
	elapsed := rec.Elapsed(now)
	if elapsed > rec.Period {
		elapsed = rec.Period
	}
	reward := new(big.Int).Mul(rec.Amount, new(big.Int).SetUint64(uint64(ratePercent)))
	reward.Mul(reward, new(big.Int).SetUint64(uint64(elapsed)))
	return reward.Div(reward, percentDivisor)
}

// PendingReward returns the accrued reward not yet paid out. A negative result
// means the reward calculation broke an invariant; it is reported as
// ErrRewardCalculation, never clamped.
func PendingReward(rec *Record, now uint32, ratePercent uint32) (*big.Int, error) {
	pending := AccruedReward(rec, now, ratePercent)
	pending.Sub(pending, rec.ClaimedRewards)
	if pending.Sign() < 0 {
		return nil, errors.WithMessage(ErrRewardCalculation, "negative pending reward")
	}
	return pending, nil
}

// ClosePayout computes the early-exit penalty and the principal payout at
// close time. The penalty applies only when the declared period has not fully
// elapsed.
func ClosePayout(rec *Record, now uint32, penaltyPercent uint32) (penalty, principal *big.Int) {
	pct := uint64(0)
	if rec.IsEarly(now) {
		pct = uint64(penaltyPercent)
	}
	penalty = new(big.Int).Mul(rec.Amount, new(big.Int).SetUint64(pct))
	penalty.Div(penalty, percentDivisor)
	principal = new(big.Int).Sub(rec.Amount, penalty)
	return
}
