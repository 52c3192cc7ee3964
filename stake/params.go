// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import "math/big"

// Constants of the staking protocol.
const (
	// BlockInterval time interval between two consecutive time-reference ticks, in seconds.
	BlockInterval uint64 = 10

	// MaxStakingPeriod upper bound of the declared staking period, in time units.
	MaxStakingPeriod uint32 = 52560

	// RewardRatePercent reward accrued per time unit, as percent of the staked amount.
	RewardRatePercent uint32 = 5

	// EarlyExitPenaltyPercent principal penalty applied when closing before the
	// declared period has fully elapsed.
	EarlyExitPenaltyPercent uint32 = 10
)

// Bounds of stake amounts. The reward-pool deposit bound reuses MaxStake.
var (
	MinStake = big.NewInt(100)
	MaxStake = new(big.Int).Mul(big.NewInt(1e6), big.NewInt(1e6)) // 1e12 token units
)
