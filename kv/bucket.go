// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Bucket provides logical bucket for a kv store, by prefixing all keys.
type Bucket string

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{string(b), src}
}

// NewPutter creates a bucket putter from the source putter.
// Handy to scope a batch to the bucket.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{string(b), src}
}

type bucketPutter struct {
	prefix string
	src    Putter
}

func (bp *bucketPutter) makeKey(key []byte) []byte {
	return append([]byte(bp.prefix), key...)
}

func (bp *bucketPutter) Put(key, value []byte) error {
	return bp.src.Put(bp.makeKey(key), value)
}

func (bp *bucketPutter) Delete(key []byte) error {
	return bp.src.Delete(bp.makeKey(key))
}

type bucketStore struct {
	prefix string
	src    Store
}

func (bs *bucketStore) makeKey(key []byte) []byte {
	return append([]byte(bs.prefix), key...)
}

func (bs *bucketStore) Get(key []byte) ([]byte, error) {
	return bs.src.Get(bs.makeKey(key))
}

func (bs *bucketStore) Has(key []byte) (bool, error) {
	return bs.src.Has(bs.makeKey(key))
}

func (bs *bucketStore) IsNotFound(err error) bool {
	return bs.src.IsNotFound(err)
}

func (bs *bucketStore) Put(key, value []byte) error {
	return bs.src.Put(bs.makeKey(key), value)
}

func (bs *bucketStore) Delete(key []byte) error {
	return bs.src.Delete(bs.makeKey(key))
}

func (bs *bucketStore) NewBatch() Batch {
	return &bucketBatch{bs.prefix, bs.src.NewBatch()}
}

func (bs *bucketStore) NewIterator(r Range) Iterator {
	start := append([]byte(bs.prefix), r.Start...)
	var limit []byte
	if len(r.Limit) == 0 {
		limit = util.BytesPrefix([]byte(bs.prefix)).Limit
	} else {
		limit = append([]byte(bs.prefix), r.Limit...)
	}
	return &bucketIterator{len(bs.prefix), bs.src.NewIterator(Range{Start: start, Limit: limit})}
}

type bucketBatch struct {
	prefix string
	src    Batch
}

func (bb *bucketBatch) makeKey(key []byte) []byte {
	return append([]byte(bb.prefix), key...)
}

func (bb *bucketBatch) Put(key, value []byte) error {
	return bb.src.Put(bb.makeKey(key), value)
}

func (bb *bucketBatch) Delete(key []byte) error {
	return bb.src.Delete(bb.makeKey(key))
}

func (bb *bucketBatch) Len() int {
	return bb.src.Len()
}

func (bb *bucketBatch) Write() error {
	return bb.src.Write()
}

type bucketIterator struct {
	prefixLen int
	src       Iterator
}

func (bi *bucketIterator) Next() bool {
	return bi.src.Next()
}

func (bi *bucketIterator) Release() {
	bi.src.Release()
}

func (bi *bucketIterator) Error() error {
	return bi.src.Error()
}

// Key returns the key with the bucket prefix stripped.
func (bi *bucketIterator) Key() []byte {
	return bi.src.Key()[bi.prefixLen:]
}

func (bi *bucketIterator) Value() []byte {
	return bi.src.Value()
}
