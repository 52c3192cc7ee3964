// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a kv-backed fungible-token ledger. It satisfies the
// gateway.Token capability and backs the dev runtime and tests, standing in
// for an external token contract.
package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/openstake/openstake/kv"
	"github.com/openstake/openstake/stake"
)

var (
	balanceSpace = kv.Bucket("b/")

	totalSupplyKey = []byte("total-supply")

	// ErrInsufficientFunds rejected transfer due to sender balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Metadata describes the token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
	URI      string
}

// Ledger a fungible-token ledger over keyed state.
type Ledger struct {
	store    kv.Store
	balances kv.Store
	meta     Metadata
}

// New creates the token ledger on the given store.
func New(store kv.Store, meta Metadata) *Ledger {
	return &Ledger{
		store:    store,
		balances: balanceSpace.NewStore(store),
		meta:     meta,
	}
}

func (l *Ledger) Name() (string, error) { return l.meta.Name, nil }

func (l *Ledger) Symbol() (string, error) { return l.meta.Symbol, nil }

func (l *Ledger) Decimals() (uint8, error) { return l.meta.Decimals, nil }

func (l *Ledger) URI() (string, error) { return l.meta.URI, nil }

func (l *Ledger) getAmount(g kv.Getter, key []byte) (*big.Int, error) {
	data, err := g.Get(key)
	if err != nil {
		if g.IsNotFound(err) {
			return new(big.Int), nil
		}
		return nil, err
	}
	var amount big.Int
	if err := rlp.DecodeBytes(data, &amount); err != nil {
		return nil, errors.Wrap(err, "decode amount")
	}
	return &amount, nil
}

func saveAmount(p kv.Putter, key []byte, amount *big.Int) error {
	data, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return errors.Wrap(err, "encode amount")
	}
	return p.Put(key, data)
}

// BalanceOf returns the token balance of an account.
func (l *Ledger) BalanceOf(account stake.Address) (*big.Int, error) {
	return l.getAmount(l.balances, account.Bytes())
}

// TotalSupply returns total minted supply.
func (l *Ledger) TotalSupply() (*big.Int, error) {
	return l.getAmount(l.store, totalSupplyKey)
}

// Mint credits the account with new tokens and grows the total supply.
func (l *Ledger) Mint(to stake.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("mint amount must be positive")
	}
	bal, err := l.BalanceOf(to)
	if err != nil {
		return err
	}
	supply, err := l.TotalSupply()
	if err != nil {
		return err
	}

	batch := l.store.NewBatch()
	if err := saveAmount(balanceSpace.NewPutter(batch), to.Bytes(), bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := saveAmount(batch, totalSupplyKey, supply.Add(supply, amount)); err != nil {
		return err
	}
	return batch.Write()
}

// Transfer moves amount between accounts, all-or-nothing.
func (l *Ledger) Transfer(amount *big.Int, from, to stake.Address) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("negative transfer amount")
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}

	fromBal, err := l.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	toBal, err := l.BalanceOf(to)
	if err != nil {
		return err
	}

	batch := l.store.NewBatch()
	balances := balanceSpace.NewPutter(batch)
	if err := saveAmount(balances, from.Bytes(), fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	if err := saveAmount(balances, to.Bytes(), toBal.Add(toBal, amount)); err != nil {
		return err
	}
	return batch.Write()
}
