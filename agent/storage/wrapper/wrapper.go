// Package wrapper implements an encrypted bolt key-value store that fulfills
// the storage provider interface the aries KMS needs. Every named store is one
// bolt bucket. Keys are hashed and values are encrypted with the wallet key.
package wrapper

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/findy-network/findy-common-go/crypto"
	"github.com/findy-network/findy-common-go/crypto/db"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const level7 = 7

var ErrClosed = errors.New("wallet storage is closed")

type Store interface {
	storage.Store
	GetAll(transform db.Filter) ([][]byte, error)
}

type Config struct {
	Key       string
	FileName  string
	FilePath  string
	BucketIDs []string
}

// Filename returns the full path of the bolt file.
func (c Config) Filename() string {
	path := "."
	if c.FilePath != "" {
		path = c.FilePath
	}
	return filepath.Join(path, c.FileName+".bolt")
}

type StorageProvider struct {
	l sync.RWMutex

	conf    Config
	db      db.Handle
	buckets map[string]*bucket
	configs map[string]storage.StoreConfiguration
	cipher  *crypto.Cipher
}

func New(config Config) *StorageProvider {
	s := &StorageProvider{
		conf:    config,
		buckets: make(map[string]*bucket, len(config.BucketIDs)),
		configs: make(map[string]storage.StoreConfiguration),
	}

	for i, name := range s.conf.BucketIDs {
		s.buckets[name] = newBucket(s, byte(i))
	}

	return s
}

func (s *StorageProvider) Init() (err error) {
	defer err2.Handle(&err, "wallet storage open")

	s.l.Lock()
	defer s.l.Unlock()

	if s.db != nil {
		glog.V(3).Infof("skipping storage initialization for %s, already open", s.conf.FileName)
		return nil
	}
	if len(s.conf.BucketIDs) == 0 {
		return fmt.Errorf("no buckets specified")
	}

	k := try.To1(hex.DecodeString(s.conf.Key))

	mgdBuckets := make([][]byte, 0, len(s.conf.BucketIDs))
	for i := range s.conf.BucketIDs {
		mgdBuckets = append(mgdBuckets, []byte{byte(i)})
	}

	filename := s.conf.Filename()

	// this will not open the file handle to db, just initializes it
	s.db = db.New(db.Cfg{
		Filename:   filename,
		Buckets:    mgdBuckets,
		BackupName: filename + "_backup",
	})
	s.cipher = crypto.NewCipher(k)

	return nil
}

func (s *StorageProvider) ID() string {
	return s.conf.FileName
}

func (s *StorageProvider) Key() string {
	return s.conf.Key
}

// OpenStore returns the bucket by its name. Only the buckets given in Config
// are available.
func (s *StorageProvider) OpenStore(name string) (storage.Store, error) {
	glog.V(level7).Infoln("StorageProvider::OpenStore", s.ID(), name)

	if b, ok := s.buckets[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("store %s not found", name)
}

// OpenWrapperStore is OpenStore for our own packages that need GetAll.
func (s *StorageProvider) OpenWrapperStore(name string) (Store, error) {
	if b, ok := s.buckets[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("store %s not found", name)
}

func (s *StorageProvider) Close() (err error) {
	defer err2.Handle(&err, "wallet storage close")

	s.l.Lock()
	defer s.l.Unlock()

	if s.db == nil {
		glog.V(3).Infof("skipping storage close for %s, already closed", s.conf.FileName)
		return nil
	}

	try.To(s.db.Close())
	s.db = nil
	return nil
}

// view runs f with the open db under the read lock. The write lock is only
// taken for opening and closing the db.
func (s *StorageProvider) view(f func(mgd db.Handle) error) error {
	s.l.RLock()
	defer s.l.RUnlock()

	if s.db == nil {
		return ErrClosed
	}
	return f(s.db)
}

// keyOf is the bolt key of the record key: the MD5 of it when the wallet is
// encrypted.
func (s *StorageProvider) keyOf(key []byte) *db.Data {
	return &db.Data{Data: key, Read: s.hash}
}

func (s *StorageProvider) addData(bucketID byte, key, value []byte) error {
	return s.view(func(mgd db.Handle) error {
		return mgd.AddKeyValueToBucket([]byte{bucketID},
			&db.Data{Data: value, Read: s.encrypt},
			s.keyOf(key))
	})
}

func (s *StorageProvider) getData(bucketID byte, key []byte) (value []byte, err error) {
	err = s.view(func(mgd db.Handle) error {
		_, err := mgd.GetKeyValueFromBucket([]byte{bucketID}, s.keyOf(key),
			&db.Data{
				Write: s.decrypt,
				Use: func(d []byte) interface{} {
					value = d
					return nil
				},
			})
		return err
	})
	return value, err
}

func (s *StorageProvider) deleteData(bucketID byte, key string) error {
	return s.view(func(mgd db.Handle) error {
		return mgd.RmKeyValueFromBucket([]byte{bucketID}, s.keyOf([]byte(key)))
	})
}

func (s *StorageProvider) getAll(bucketID byte, transform db.Filter) (res [][]byte, err error) {
	err = s.view(func(mgd db.Handle) (err error) {
		res, err = mgd.GetAllValuesFromBucket([]byte{bucketID}, s.decrypt, transform)
		return err
	})
	return res, err
}

// The codec below is a plain copy when the wallet has no cipher, i.e. in
// tests of the bucket layer.

func (s *StorageProvider) hash(key []byte) []byte {
	if s.cipher == nil {
		return clone(key)
	}
	h := md5.Sum(key)
	return h[:]
}

func (s *StorageProvider) encrypt(value []byte) []byte {
	if s.cipher == nil {
		return clone(value)
	}
	return s.cipher.TryEncrypt(value)
}

func (s *StorageProvider) decrypt(value []byte) []byte {
	if s.cipher == nil {
		return clone(value)
	}
	return s.cipher.TryDecrypt(value)
}

func clone(b []byte) []byte {
	return append(b[:0:0], b...)
}

// SetStoreConfig only remembers the config. Tags aren't indexed, the record
// layer does its own filtering.
func (s *StorageProvider) SetStoreConfig(name string, config storage.StoreConfiguration) error {
	glog.V(level7).Infoln("StorageProvider::SetStoreConfig", name)

	if _, ok := s.buckets[name]; !ok {
		return fmt.Errorf("store %s: %w", name, storage.ErrStoreNotFound)
	}
	s.l.Lock()
	defer s.l.Unlock()
	s.configs[name] = config
	return nil
}

func (s *StorageProvider) GetStoreConfig(name string) (storage.StoreConfiguration, error) {
	glog.V(level7).Infoln("StorageProvider::GetStoreConfig", name)

	s.l.RLock()
	defer s.l.RUnlock()
	if c, ok := s.configs[name]; ok {
		return c, nil
	}
	return storage.StoreConfiguration{}, fmt.Errorf("store %s: %w", name, storage.ErrStoreNotFound)
}

func (s *StorageProvider) GetOpenStores() []storage.Store {
	glog.V(level7).Infoln("StorageProvider::GetOpenStores")

	stores := make([]storage.Store, 0, len(s.buckets))
	for _, name := range s.conf.BucketIDs {
		stores = append(stores, s.buckets[name])
	}
	return stores
}
