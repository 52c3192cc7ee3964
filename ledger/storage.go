// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/openstake/openstake/kv"
	"github.com/openstake/openstake/stake"
)

var (
	stakeSpace = kv.Bucket("s/")

	totalStakedKey = []byte("total-staked")
	rewardPoolKey  = []byte("reward-pool")
)

// storage persists stake records and pool scalars, RLP-encoded.
type storage struct {
	store  kv.Store
	stakes kv.Store
}

func newStorage(store kv.Store) *storage {
	return &storage{
		store:  store,
		stakes: stakeSpace.NewStore(store),
	}
}

// getRecord returns nil when the account has no open stake.
func (s *storage) getRecord(account stake.Address) (*Record, error) {
	data, err := s.stakes.Get(account.Bytes())
	if err != nil {
		if s.stakes.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get stake record")
	}
	var rec Record
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decode stake record")
	}
	return &rec, nil
}

// saveRecord writes the record through the given putter, so callers can batch
// it with other mutations.
func (s *storage) saveRecord(p kv.Putter, account stake.Address, rec *Record) error {
	data, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return errors.Wrap(err, "encode stake record")
	}
	return stakeSpace.NewPutter(p).Put(account.Bytes(), data)
}

func (s *storage) deleteRecord(p kv.Putter, account stake.Address) error {
	return stakeSpace.NewPutter(p).Delete(account.Bytes())
}

func (s *storage) getAmount(key []byte) (*big.Int, error) {
	data, err := s.store.Get(key)
	if err != nil {
		if s.store.IsNotFound(err) {
			return new(big.Int), nil
		}
		return nil, errors.Wrap(err, "get amount")
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

func (s *storage) getTotalStaked() (*big.Int, error) {
	return s.getAmount(totalStakedKey)
}

func (s *storage) saveTotalStaked(p kv.Putter, v *big.Int) error {
	return saveAmount(p, totalStakedKey, v)
}

func (s *storage) getRewardPool() (*big.Int, error) {
	return s.getAmount(rewardPoolKey)
}

func (s *storage) saveRewardPool(p kv.Putter, v *big.Int) error {
	return saveAmount(p, rewardPoolKey, v)
}
