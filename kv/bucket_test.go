// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket(t *testing.T) {
	db := NewMem()
	defer db.Close()

	b1 := Bucket("b1/").NewStore(db)
	b2 := Bucket("b2/").NewStore(db)

	require.NoError(t, b1.Put([]byte("key"), []byte("v1")))
	require.NoError(t, b2.Put([]byte("key"), []byte("v2")))

	v, err := b1.Get([]byte("key"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	v, err = b2.Get([]byte("key"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	// raw keys carry the prefix
	v, err = db.Get([]byte("b1/key"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	require.NoError(t, b1.Delete([]byte("key")))
	_, err = b1.Get([]byte("key"))
	assert.True(t, b1.IsNotFound(err))

	// b2 untouched
	has, err := b2.Has([]byte("key"))
	assert.NoError(t, err)
	assert.True(t, has)
}

func TestBucketIterator(t *testing.T) {
	db := NewMem()
	defer db.Close()

	bkt := Bucket("s/").NewStore(db)
	require.NoError(t, bkt.Put([]byte("k1"), []byte("1")))
	require.NoError(t, bkt.Put([]byte("k2"), []byte("2")))
	require.NoError(t, db.Put([]byte("t/k3"), []byte("3")))

	iter := bkt.NewIterator(Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, []string{"k1", "k2"}, keys)
}

func TestBucketBatch(t *testing.T) {
	db := NewMem()
	defer db.Close()

	bkt := Bucket("s/").NewStore(db)
	batch := bkt.NewBatch()
	require.NoError(t, batch.Put([]byte("k"), []byte("v")))
	require.NoError(t, batch.Write())

	v, err := db.Get([]byte("s/k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
