package wrapper

import (
	"errors"

	"github.com/findy-network/findy-common-go/crypto/db"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var errNotSupported = errors.New("not supported by wallet storage")

type bucket struct {
	bucketID byte
	owner    *StorageProvider
}

func newBucket(owner *StorageProvider, bucketID byte) *bucket {
	return &bucket{
		owner:    owner,
		bucketID: bucketID,
	}
}

// Put stores the key + value pair. Tags aren't supported.
func (b *bucket) Put(key string, value []byte, tags ...storage.Tag) (err error) {
	glog.V(level7).Infoln("bucket::Put", key, tags)

	if key == "" || value == nil {
		return errors.New("key and value are mandatory")
	}
	if len(tags) > 0 {
		return errNotSupported
	}

	return b.owner.addData(b.bucketID, []byte(key), value)
}

// Get fetches the value associated with the given key. If key cannot be
// found, then an error wrapping ErrDataNotFound will be returned.
func (b *bucket) Get(key string) (data []byte, err error) {
	defer err2.Handle(&err)

	glog.V(level7).Infoln("bucket::Get", key)

	data = try.To1(b.owner.getData(b.bucketID, []byte(key)))
	if len(data) == 0 {
		return nil, storage.ErrDataNotFound
	}
	return data, nil
}

// Delete deletes the key + value pair associated with key.
func (b *bucket) Delete(key string) error {
	glog.V(level7).Infoln("bucket::Delete", key)

	return b.owner.deleteData(b.bucketID, key)
}

// GetAll calls transform for every value of the bucket.
func (b *bucket) GetAll(transform db.Filter) ([][]byte, error) {
	glog.V(level7).Infoln("bucket::GetAll")

	return b.owner.getAll(b.bucketID, transform)
}

// Close is a no-op, the StorageProvider owns the bolt handle.
func (b *bucket) Close() error {
	glog.V(level7).Infoln("bucket::Close")
	return nil
}

func (b *bucket) GetTags(key string) ([]storage.Tag, error) {
	glog.V(level7).Infoln("bucket::GetTags", key)
	return nil, errNotSupported
}

func (b *bucket) GetBulk(keys ...string) (values [][]byte, err error) {
	defer err2.Handle(&err, "get bulk")

	glog.V(level7).Infoln("bucket::GetBulk", keys)

	values = make([][]byte, len(keys))
	for i, key := range keys {
		v, err := b.Get(key)
		if errors.Is(err, storage.ErrDataNotFound) {
			continue
		}
		values[i] = try.To1(v, err)
	}
	return values, nil
}

func (b *bucket) Query(expression string, _ ...storage.QueryOption) (storage.Iterator, error) {
	glog.V(level7).Infoln("bucket::Query", expression)
	return nil, errNotSupported
}

func (b *bucket) Batch(operations []storage.Operation) (err error) {
	defer err2.Handle(&err, "batch")

	glog.V(level7).Infoln("bucket::Batch", len(operations))

	for _, op := range operations {
		if op.Value == nil {
			try.To(b.Delete(op.Key))
			continue
		}
		try.To(b.Put(op.Key, op.Value))
	}
	return nil
}

func (b *bucket) Flush() error {
	return nil
}
