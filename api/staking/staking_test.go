// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstake/openstake/api/staking"
	"github.com/openstake/openstake/kv"
	"github.com/openstake/openstake/ledger"
	"github.com/openstake/openstake/stake"
	"github.com/openstake/openstake/tick"
	"github.com/openstake/openstake/token"
)

var (
	owner   = stake.BytesToAddress([]byte("owner"))
	custody = stake.BytesToAddress([]byte("custody"))
	staker  = stake.BytesToAddress([]byte("staker"))
)

type testServer struct {
	ts    *httptest.Server
	ticks *tick.Manual
	ldgr  *ledger.Ledger
}

func initStakingServer(t *testing.T) *testServer {
	t.Helper()

	tok := token.New(kv.NewMem(), token.Metadata{Name: "Test Token", Symbol: "TST", Decimals: 18})
	require.NoError(t, tok.Mint(staker, new(big.Int).Set(stake.MaxStake)))
	require.NoError(t, tok.Mint(custody, new(big.Int).Mul(stake.MaxStake, big.NewInt(10))))

	ldgr := ledger.New(kv.NewMem(), owner, custody)
	ticks := tick.NewManual(0)

	router := mux.NewRouter()
	staking.New(ldgr, tok, ticks).Mount(router, "/staking")

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &testServer{ts: ts, ticks: ticks, ldgr: ldgr}
}

func httpDo(t *testing.T, method, url string, body interface{}) ([]byte, int) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func amount(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

func TestStakeLifecycle(t *testing.T) {
	srv := initStakingServer(t)

	// open
	res, status := httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes", &staking.OpenStakeRequest{
		Account: staker,
		Amount:  amount(1000),
		Period:  26280,
	})
	require.Equal(t, http.StatusOK, status, string(res))

	var detail staking.StakeDetail
	require.NoError(t, json.Unmarshal(res, &detail))
	assert.Equal(t, staker, detail.Account)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(&detail.Amount))
	assert.Equal(t, uint32(26280), detail.Period)

	// get
	res, status = httpDo(t, http.MethodGet, srv.ts.URL+"/staking/stakes/"+staker.String(), nil)
	require.Equal(t, http.StatusOK, status, string(res))
	require.NoError(t, json.Unmarshal(res, &detail))
	assert.Zero(t, (*big.Int)(&detail.ClaimedRewards).Sign())

	// claim half way through
	srv.ticks.Advance(13140)
	res, status = httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes/"+staker.String()+"/claims", nil)
	require.Equal(t, http.StatusOK, status, string(res))

	var claim staking.ClaimResult
	require.NoError(t, json.Unmarshal(res, &claim))
	assert.Equal(t, big.NewInt(657000), (*big.Int)(&claim.Paid))

	// close past the declared period
	srv.ticks.Advance(13140)
	res, status = httpDo(t, http.MethodDelete, srv.ts.URL+"/staking/stakes/"+staker.String(), nil)
	require.Equal(t, http.StatusOK, status, string(res))

	var closed staking.CloseResult
	require.NoError(t, json.Unmarshal(res, &closed))
	assert.Equal(t, big.NewInt(1000), (*big.Int)(&closed.Payout))

	// the record is gone
	_, status = httpDo(t, http.MethodGet, srv.ts.URL+"/staking/stakes/"+staker.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOpenStakeErrors(t *testing.T) {
	srv := initStakingServer(t)

	// malformed body
	req, err := http.NewRequest(http.MethodPost, srv.ts.URL+"/staking/stakes", bytes.NewReader([]byte(`{"bogus":1}`)))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// amount out of bounds
	_, status := httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes", &staking.OpenStakeRequest{
		Account: staker,
		Amount:  amount(1),
		Period:  100,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// duplicate stake conflicts
	body := &staking.OpenStakeRequest{Account: staker, Amount: amount(1000), Period: 100}
	_, status = httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes", body)
	require.Equal(t, http.StatusOK, status)
	_, status = httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes", body)
	assert.Equal(t, http.StatusConflict, status)
}

func TestGetStakeErrors(t *testing.T) {
	srv := initStakingServer(t)

	_, status := httpDo(t, http.MethodGet, srv.ts.URL+"/staking/stakes/invalid-address", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpDo(t, http.MethodGet, srv.ts.URL+"/staking/stakes/"+staker.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCloseStakeForbidden(t *testing.T) {
	srv := initStakingServer(t)

	_, status := httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes", &staking.OpenStakeRequest{
		Account: staker,
		Amount:  amount(1000),
		Period:  26280,
	})
	require.Equal(t, http.StatusOK, status)

	// half the period has not elapsed yet
	srv.ticks.Advance(13139)
	res, status := httpDo(t, http.MethodDelete, srv.ts.URL+"/staking/stakes/"+staker.String(), nil)
	assert.Equal(t, http.StatusForbidden, status, string(res))
}

func TestClaimZeroPending(t *testing.T) {
	srv := initStakingServer(t)

	_, status := httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes", &staking.OpenStakeRequest{
		Account: staker,
		Amount:  amount(1000),
		Period:  26280,
	})
	require.Equal(t, http.StatusOK, status)

	// no time has passed, nothing to claim
	_, status = httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes/"+staker.String()+"/claims", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPoolStatusAndDeposit(t *testing.T) {
	srv := initStakingServer(t)

	_, status := httpDo(t, http.MethodPost, srv.ts.URL+"/staking/stakes", &staking.OpenStakeRequest{
		Account: staker,
		Amount:  amount(1000),
		Period:  100,
	})
	require.Equal(t, http.StatusOK, status)

	res, status := httpDo(t, http.MethodGet, srv.ts.URL+"/staking/pool", nil)
	require.Equal(t, http.StatusOK, status, string(res))

	var pool staking.PoolStatus
	require.NoError(t, json.Unmarshal(res, &pool))
	assert.Equal(t, big.NewInt(1000), (*big.Int)(&pool.TotalStaked))
	assert.Equal(t, stake.RewardRatePercent, pool.RewardRatePercent)

	res, status = httpDo(t, http.MethodPost, srv.ts.URL+"/staking/pool/deposits", &staking.DepositRequest{
		From:   staker,
		Amount: amount(500),
	})
	require.Equal(t, http.StatusOK, status, string(res))

	var dep staking.DepositResult
	require.NoError(t, json.Unmarshal(res, &dep))
	assert.True(t, (*big.Int)(&dep.PoolBalance).Sign() > 0)
}

func TestUpdateRate(t *testing.T) {
	srv := initStakingServer(t)

	_, status := httpDo(t, http.MethodPut, srv.ts.URL+"/staking/rate", &staking.RateUpdateRequest{
		Caller:      staker,
		RatePercent: 7,
	})
	assert.Equal(t, http.StatusForbidden, status)

	res, status := httpDo(t, http.MethodPut, srv.ts.URL+"/staking/rate", &staking.RateUpdateRequest{
		Caller:      owner,
		RatePercent: 7,
	})
	require.Equal(t, http.StatusOK, status, string(res))

	var rate map[string]uint32
	require.NoError(t, json.Unmarshal(res, &rate))
	assert.Equal(t, stake.RewardRatePercent, rate["ratePercent"])
}
