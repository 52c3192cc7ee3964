// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gateway defines the fungible-token capability the staking ledger
// depends on but does not implement.
package gateway

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/openstake/openstake/stake"
)

// Token is a handle to a fungible-token contract. Every method may fail.
type Token interface {
	// Metadata probes.
	Name() (string, error)
	Symbol() (string, error)
	Decimals() (uint8, error)
	URI() (string, error)

	// BalanceOf returns the token balance of the given account.
	BalanceOf(account stake.Address) (*big.Int, error)

	// Transfer moves amount from one account to another.
	Transfer(amount *big.Int, from, to stake.Address) error
}

// Validate probes the handle's metadata to check that it answers like a token
// contract. A handle is accepted if the name probe answers at all; the value
// returned does not matter.
func Validate(tok Token) error {
	if tok == nil {
		return errors.New("nil token handle")
	}
	if _, err := tok.Name(); err != nil {
		return errors.Wrap(err, "token metadata probe")
	}
	return nil
}
