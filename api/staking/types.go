// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/openstake/openstake/ledger"
	"github.com/openstake/openstake/stake"
)

// StakeDetail is the JSON view of an open stake record.
type StakeDetail struct {
	Account        stake.Address        `json:"account"`
	Amount         math.HexOrDecimal256 `json:"amount"`
	StartTime      uint32               `json:"startTime"`
	Period         uint32               `json:"period"`
	ClaimedRewards math.HexOrDecimal256 `json:"claimedRewards"`
	PendingReward  math.HexOrDecimal256 `json:"pendingReward"`
	TimeReference  uint32               `json:"timeReference"`
}

func convertStakeDetail(account stake.Address, rec *ledger.Record, pending *big.Int, now uint32) *StakeDetail {
	return &StakeDetail{
		Account:        account,
		Amount:         math.HexOrDecimal256(*rec.Amount),
		StartTime:      rec.StartTime,
		Period:         rec.Period,
		ClaimedRewards: math.HexOrDecimal256(*rec.ClaimedRewards),
		PendingReward:  math.HexOrDecimal256(*pending),
		TimeReference:  now,
	}
}

// OpenStakeRequest is the body of POST /staking/stakes.
type OpenStakeRequest struct {
	Account stake.Address         `json:"account"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
	Period  uint32                `json:"period"`
}

// ClaimResult reports the reward paid out by a claim.
type ClaimResult struct {
	Account stake.Address        `json:"account"`
	Paid    math.HexOrDecimal256 `json:"paid"`
}

// CloseResult reports the principal payout of a close.
type CloseResult struct {
	Account stake.Address        `json:"account"`
	Payout  math.HexOrDecimal256 `json:"payout"`
}

// PoolStatus aggregates the pool-level counters.
type PoolStatus struct {
	TotalStaked       math.HexOrDecimal256 `json:"totalStaked"`
	RewardPool        math.HexOrDecimal256 `json:"rewardPool"`
	RewardRatePercent uint32               `json:"rewardRatePercent"`
	TimeReference     uint32               `json:"timeReference"`
}

// DepositRequest is the body of POST /staking/pool/deposits.
type DepositRequest struct {
	From   stake.Address         `json:"from"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// DepositResult reports the tracked pool balance after a deposit.
type DepositResult struct {
	PoolBalance math.HexOrDecimal256 `json:"poolBalance"`
}

// RateUpdateRequest is the body of PUT /staking/rate.
type RateUpdateRequest struct {
	Caller      stake.Address `json:"caller"`
	RatePercent uint32        `json:"ratePercent"`
}
