// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements the single-position token staking ledger: it owns
// the account → stake record map and the pool counters, and moves value
// through an external token gateway.
package ledger

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/openstake/openstake/gateway"
	"github.com/openstake/openstake/kv"
	"github.com/openstake/openstake/log"
	"github.com/openstake/openstake/metrics"
	"github.com/openstake/openstake/stake"
)

var (
	logger = log.WithContext("pkg", "ledger")

	opsMeter = metrics.CounterVec("ledger_ops_total", []string{"op", "status"})

	// RewardRatePercent is configurable only through the admin path, which is
	// currently a stub, so the default always takes effect.
	rewardRate = newConfigVar("reward-rate-percent", stake.RewardRatePercent)
)

// Ledger owns all staking state. Operations are serialized under one mutex to
// get the atomicity a transactional host would give for free.
type Ledger struct {
	mu   sync.Mutex
	stor *storage

	owner   stake.Address
	custody stake.Address
}

// New creates a ledger over the given store. The owner identity is immutable
// and compared on every admin call; custody is the account holding staked
// principal and the reward pool.
func New(store kv.Store, owner, custody stake.Address) *Ledger {
	return &Ledger{
		stor:    newStorage(store),
		owner:   owner,
		custody: custody,
	}
}

// Owner returns the contract-owner identity fixed at construction.
func (l *Ledger) Owner() stake.Address {
	return l.owner
}

// Custody returns the account holding staked principal and the reward pool.
func (l *Ledger) Custody() stake.Address {
	return l.custody
}

// RewardRate returns the effective reward rate in percent per time unit.
func (l *Ledger) RewardRate() uint32 {
	return rewardRate.Get()
}

func markOp(op string, err error) {
	status := "succeeded"
	if err != nil {
		status = "failed"
	}
	opsMeter.AddWithLabel(1, map[string]string{"op": op, "status": status})
}

//
// Getters - no state change
//

// GetStakeInfo returns the stake record of the account, or nil if the account
// has no open stake.
func (l *Ledger) GetStakeInfo(account stake.Address) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stor.getRecord(account)
}

// TotalStaked returns the sum of staked amounts over all open records.
func (l *Ledger) TotalStaked() (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stor.getTotalStaked()
}

// RewardPoolBalance returns the tracked reward pool balance.
func (l *Ledger) RewardPoolBalance() (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stor.getRewardPool()
}

//
// Setters - state change
//

// Open locks amount for the declared period, creating the account's stake
// record. The balance check and the inbound transfer happen before any state
// is written, so a failed gateway call leaves no partial state.
func (l *Ledger) Open(tok gateway.Token, account stake.Address, amount *big.Int, period uint32, now uint32) (err error) {
	defer func() { markOp("open_stake", err) }()
	logger.Debug("opening stake", "account", account, "amount", amount, "period", period, "now", now)

	if err := gateway.Validate(tok); err != nil {
		return errors.WithMessage(ErrInvalidTokenContract, err.Error())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.stor.getRecord(account)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyStaked
	}

	if amount == nil || amount.Sign() <= 0 || amount.Cmp(stake.MinStake) < 0 || amount.Cmp(stake.MaxStake) > 0 {
		return errors.WithMessage(ErrInvalidAmount, "amount out of bounds")
	}
	if period == 0 || period > stake.MaxStakingPeriod {
		return errors.WithMessage(ErrInvalidAmount, "period out of bounds")
	}

	balance, err := tok.BalanceOf(account)
	if err != nil {
		return errors.WithMessage(ErrTransferFailed, err.Error())
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := tok.Transfer(amount, account, l.custody); err != nil {
		return errors.WithMessage(ErrTransferFailed, err.Error())
	}

	total, err := l.stor.getTotalStaked()
	if err != nil {
		return err
	}

	rec := &Record{
		Amount:         amount,
		StartTime:      now,
		Period:         period,
		ClaimedRewards: new(big.Int),
	}
	batch := l.stor.store.NewBatch()
	if err := l.stor.saveRecord(batch, account, rec); err != nil {
		return err
	}
	if err := l.stor.saveTotalStaked(batch, total.Add(total, amount)); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}

	logger.Info("opened stake", "account", account, "amount", amount, "period", period)
	return nil
}

// Claim pays out the pending reward of the account's stake and returns the
// amount paid. Zero pending reward is an error condition, not a no-op.
func (l *Ledger) Claim(tok gateway.Token, account stake.Address, now uint32) (paid *big.Int, err error) {
	defer func() { markOp("claim_rewards", err) }()
	logger.Debug("claiming rewards", "account", account, "now", now)

	if err := gateway.Validate(tok); err != nil {
		return nil, errors.WithMessage(ErrInvalidTokenContract, err.Error())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.stor.getRecord(account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrStakeNotFound
	}

	pending, err := PendingReward(rec, now, rewardRate.Get())
	if err != nil {
		return nil, err
	}
	if pending.Sign() == 0 {
		return nil, errors.WithMessage(ErrRewardCalculation, "zero pending reward")
	}

	if err := l.payReward(tok, account, rec, pending); err != nil {
		return nil, err
	}

	logger.Info("claimed rewards", "account", account, "paid", pending)
	return pending, nil
}

// payReward transfers the reward and persists the claimed counter. The record
// write happens only after the transfer succeeded.
func (l *Ledger) payReward(tok gateway.Token, account stake.Address, rec *Record, pending *big.Int) error {
	if err := tok.Transfer(pending, l.custody, account); err != nil {
		return errors.WithMessage(ErrTransferFailed, err.Error())
	}
	rec.ClaimedRewards.Add(rec.ClaimedRewards, pending)
	return l.stor.saveRecord(l.stor.store, account, rec)
}

// Close flushes any pending reward, pays out the principal minus the
// early-exit penalty, and removes the stake record. Closing before half the
// declared period has elapsed is forbidden. Zero pending reward does not
// abort the close; only genuine gateway failures do.
func (l *Ledger) Close(tok gateway.Token, account stake.Address, now uint32) (payout *big.Int, err error) {
	defer func() { markOp("close_stake", err) }()
	logger.Debug("closing stake", "account", account, "now", now)

	if err := gateway.Validate(tok); err != nil {
		return nil, errors.WithMessage(ErrInvalidTokenContract, err.Error())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.stor.getRecord(account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrStakeNotFound
	}

	if rec.Elapsed(now) < rec.Period/2 {
		return nil, ErrUnstakeForbidden
	}

	pending, err := PendingReward(rec, now, rewardRate.Get())
	if err != nil {
		return nil, err
	}
	if pending.Sign() > 0 {
		if err := l.payReward(tok, account, rec, pending); err != nil {
			return nil, err
		}
	}

	// the penalty applies to the full pre-claim amount
	penalty, principal := ClosePayout(rec, now, stake.EarlyExitPenaltyPercent)
	if err := tok.Transfer(principal, l.custody, account); err != nil {
		return nil, errors.WithMessage(ErrTransferFailed, err.Error())
	}

	total, err := l.stor.getTotalStaked()
	if err != nil {
		return nil, err
	}

	// total decreases by the original amount, not the post-penalty payout
	batch := l.stor.store.NewBatch()
	if err := l.stor.deleteRecord(batch, account); err != nil {
		return nil, err
	}
	if err := l.stor.saveTotalStaked(batch, total.Sub(total, rec.Amount)); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}

	logger.Info("closed stake", "account", account, "principal", principal, "penalty", penalty, "reward", pending)
	return principal, nil
}

// DepositRewardPool moves amount from the caller into custody and resyncs the
// tracked pool balance to the custody account's full token balance. The
// resync deliberately reproduces the original deposit semantics: the tracked
// value includes staked principal, not just deposits.
func (l *Ledger) DepositRewardPool(tok gateway.Token, from stake.Address, amount *big.Int) (balance *big.Int, err error) {
	defer func() { markOp("deposit_reward_pool", err) }()
	logger.Debug("depositing to reward pool", "from", from, "amount", amount)

	if err := gateway.Validate(tok); err != nil {
		return nil, errors.WithMessage(ErrInvalidTokenContract, err.Error())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 || amount.Cmp(stake.MaxStake) > 0 {
		return nil, errors.WithMessage(ErrInvalidAmount, "deposit out of bounds")
	}

	if err := tok.Transfer(amount, from, l.custody); err != nil {
		return nil, errors.WithMessage(ErrTransferFailed, err.Error())
	}
	balance, err = tok.BalanceOf(l.custody)
	if err != nil {
		return nil, errors.WithMessage(ErrTransferFailed, err.Error())
	}

	if err := l.stor.saveRewardPool(l.stor.store, balance); err != nil {
		return nil, err
	}

	logger.Info("deposited to reward pool", "from", from, "amount", amount, "poolBalance", balance)
	return balance, nil
}

// UpdateRewardRate is the admin extension point for rate governance. The rate
// is not applied yet; only the owner check is live.
func (l *Ledger) UpdateRewardRate(caller stake.Address, newRate uint32) (err error) {
	defer func() { markOp("update_reward_rate", err) }()

	if caller != l.owner {
		return ErrUnauthorized
	}

	logger.Info("reward rate update accepted", "caller", caller, "newRate", newRate, "effectiveRate", rewardRate.Get())
	return nil
}

type configVar struct {
	slot  stake.Bytes32
	value uint32
}

func newConfigVar(name string, defaultValue uint32) *configVar {
	return &configVar{
		slot:  stake.Blake2b([]byte(name)),
		value: defaultValue,
	}
}

func (c *configVar) Get() uint32 {
	return c.value
}
