// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking exposes the staking ledger over REST.
package staking

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/openstake/openstake/api/restutil"
	"github.com/openstake/openstake/gateway"
	"github.com/openstake/openstake/ledger"
	"github.com/openstake/openstake/stake"
	"github.com/openstake/openstake/tick"
)

type Staking struct {
	ledger *ledger.Ledger
	token  gateway.Token
	ticks  tick.Source
}

func New(ledger *ledger.Ledger, token gateway.Token, ticks tick.Source) *Staking {
	return &Staking{
		ledger,
		token,
		ticks,
	}
}

// convertLedgerError maps ledger sentinels onto http statuses. Unrecognized
// errors pass through and respond 500.
func convertLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrStakeNotFound):
		return restutil.NotFound(err)
	case errors.Is(err, ledger.ErrUnauthorized),
		errors.Is(err, ledger.ErrUnstakeForbidden):
		return restutil.Forbidden(err)
	case errors.Is(err, ledger.ErrAlreadyStaked):
		return restutil.Conflict(err)
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrRewardCalculation),
		errors.Is(err, ledger.ErrInvalidTokenContract),
		errors.Is(err, ledger.ErrInsufficientBalance):
		return restutil.BadRequest(err)
	case errors.Is(err, ledger.ErrTransferFailed):
		return restutil.HTTPError(err, http.StatusBadGateway)
	}
	return err
}

func (s *Staking) handleOpenStake(w http.ResponseWriter, req *http.Request) error {
	var body OpenStakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: missing"))
	}

	now := s.ticks.Now()
	if err := s.ledger.Open(s.token, body.Account, (*big.Int)(body.Amount), body.Period, now); err != nil {
		return convertLedgerError(err)
	}

	rec, err := s.ledger.GetStakeInfo(body.Account)
	if err != nil {
		return err
	}
	pending, err := ledger.PendingReward(rec, now, s.ledger.RewardRate())
	if err != nil {
		return convertLedgerError(err)
	}
	return restutil.WriteJSON(w, convertStakeDetail(body.Account, rec, pending, now))
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	account, err := stake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}

	rec, err := s.ledger.GetStakeInfo(account)
	if err != nil {
		return err
	}
	if rec == nil {
		return restutil.NotFound(ledger.ErrStakeNotFound)
	}

	now := s.ticks.Now()
	pending, err := ledger.PendingReward(rec, now, s.ledger.RewardRate())
	if err != nil {
		return convertLedgerError(err)
	}
	return restutil.WriteJSON(w, convertStakeDetail(account, rec, pending, now))
}

func (s *Staking) handleClaimRewards(w http.ResponseWriter, req *http.Request) error {
	account, err := stake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}

	paid, err := s.ledger.Claim(s.token, account, s.ticks.Now())
	if err != nil {
		return convertLedgerError(err)
	}
	return restutil.WriteJSON(w, &ClaimResult{
		Account: account,
		Paid:    math.HexOrDecimal256(*paid),
	})
}

func (s *Staking) handleCloseStake(w http.ResponseWriter, req *http.Request) error {
	account, err := stake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}

	payout, err := s.ledger.Close(s.token, account, s.ticks.Now())
	if err != nil {
		return convertLedgerError(err)
	}
	return restutil.WriteJSON(w, &CloseResult{
		Account: account,
		Payout:  math.HexOrDecimal256(*payout),
	})
}

func (s *Staking) handleGetPoolStatus(w http.ResponseWriter, _ *http.Request) error {
	total, err := s.ledger.TotalStaked()
	if err != nil {
		return err
	}
	pool, err := s.ledger.RewardPoolBalance()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &PoolStatus{
		TotalStaked:       math.HexOrDecimal256(*total),
		RewardPool:        math.HexOrDecimal256(*pool),
		RewardRatePercent: s.ledger.RewardRate(),
		TimeReference:     s.ticks.Now(),
	})
}

func (s *Staking) handleGetTotal(w http.ResponseWriter, _ *http.Request) error {
	total, err := s.ledger.TotalStaked()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{
		"totalStaked": (*math.HexOrDecimal256)(total),
	})
}

func (s *Staking) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body DepositRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: missing"))
	}

	balance, err := s.ledger.DepositRewardPool(s.token, body.From, (*big.Int)(body.Amount))
	if err != nil {
		return convertLedgerError(err)
	}
	return restutil.WriteJSON(w, &DepositResult{
		PoolBalance: math.HexOrDecimal256(*balance),
	})
}

func (s *Staking) handleUpdateRate(w http.ResponseWriter, req *http.Request) error {
	var body RateUpdateRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}

	if err := s.ledger.UpdateRewardRate(body.Caller, body.RatePercent); err != nil {
		return convertLedgerError(err)
	}
	return restutil.WriteJSON(w, restutil.M{
		"ratePercent": s.ledger.RewardRate(),
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stakes").
		Methods(http.MethodPost).
		Name("staking_open_stake").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleOpenStake))
	sub.Path("/stakes/{address}").
		Methods(http.MethodGet).
		Name("staking_get_stake").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/stakes/{address}/claims").
		Methods(http.MethodPost).
		Name("staking_claim_rewards").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleClaimRewards))
	sub.Path("/stakes/{address}").
		Methods(http.MethodDelete).
		Name("staking_close_stake").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleCloseStake))
	sub.Path("/total").
		Methods(http.MethodGet).
		Name("staking_get_total_staked").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetTotal))
	sub.Path("/pool").
		Methods(http.MethodGet).
		Name("staking_get_pool_status").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPoolStatus))
	sub.Path("/pool/deposits").
		Methods(http.MethodPost).
		Name("staking_deposit_reward_pool").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleDeposit))
	sub.Path("/rate").
		Methods(http.MethodPut).
		Name("staking_update_reward_rate").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleUpdateRate))
}
