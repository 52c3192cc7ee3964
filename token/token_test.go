// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstake/openstake/kv"
	"github.com/openstake/openstake/stake"
)

func newTestLedger() *Ledger {
	return New(kv.NewMem(), Metadata{Name: "Test Token", Symbol: "TST", Decimals: 18})
}

func M(a ...any) []any {
	return a
}

func TestMetadata(t *testing.T) {
	l := newTestLedger()

	tests := []struct {
		ret      any
		expected any
	}{
		{M(l.Name()), M("Test Token", nil)},
		{M(l.Symbol()), M("TST", nil)},
		{M(l.Decimals()), M(uint8(18), nil)},
		{M(l.URI()), M("", nil)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}
}

func TestMintAndBalance(t *testing.T) {
	l := newTestLedger()
	acc := stake.BytesToAddress([]byte("acc1"))

	bal, err := l.BalanceOf(acc)
	require.NoError(t, err)
	assert.Zero(t, bal.Sign())

	require.NoError(t, l.Mint(acc, big.NewInt(1000)))
	require.NoError(t, l.Mint(acc, big.NewInt(500)))

	bal, err = l.BalanceOf(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), bal)

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), supply)

	assert.Error(t, l.Mint(acc, big.NewInt(0)))
	assert.Error(t, l.Mint(acc, nil))
}

func TestTransfer(t *testing.T) {
	l := newTestLedger()
	alice := stake.BytesToAddress([]byte("alice"))
	bob := stake.BytesToAddress([]byte("bob"))

	require.NoError(t, l.Mint(alice, big.NewInt(1000)))

	require.NoError(t, l.Transfer(big.NewInt(400), alice, bob))

	aliceBal, _ := l.BalanceOf(alice)
	bobBal, _ := l.BalanceOf(bob)
	assert.Equal(t, big.NewInt(600), aliceBal)
	assert.Equal(t, big.NewInt(400), bobBal)

	// more than balance
	err := l.Transfer(big.NewInt(601), alice, bob)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// balances unchanged after rejection
	aliceBal, _ = l.BalanceOf(alice)
	assert.Equal(t, big.NewInt(600), aliceBal)

	// zero amount and self transfer are no-ops
	assert.NoError(t, l.Transfer(big.NewInt(0), alice, bob))
	assert.NoError(t, l.Transfer(big.NewInt(100), alice, alice))
	aliceBal, _ = l.BalanceOf(alice)
	assert.Equal(t, big.NewInt(600), aliceBal)

	assert.Error(t, l.Transfer(big.NewInt(-1), alice, bob))
}
