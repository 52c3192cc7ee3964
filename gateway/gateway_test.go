// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gateway

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/openstake/openstake/stake"
)

type probeToken struct {
	nameErr error
}

func (p *probeToken) Name() (string, error)    { return "", p.nameErr }
func (p *probeToken) Symbol() (string, error)  { return "", errors.New("not implemented") }
func (p *probeToken) Decimals() (uint8, error) { return 0, errors.New("not implemented") }
func (p *probeToken) URI() (string, error)     { return "", errors.New("not implemented") }

func (p *probeToken) BalanceOf(stake.Address) (*big.Int, error) {
	return nil, errors.New("not implemented")
}

func (p *probeToken) Transfer(*big.Int, stake.Address, stake.Address) error {
	return errors.New("not implemented")
}

func TestValidate(t *testing.T) {
	// a handle is valid as soon as the name probe answers, even with an empty
	// value and even if every other method fails
	assert.NoError(t, Validate(&probeToken{}))

	assert.Error(t, Validate(&probeToken{nameErr: errors.New("no such contract")}))
	assert.Error(t, Validate(nil))
}
