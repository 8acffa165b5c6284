// Package mgddb is the edge agent's wallet. It stores keys and protocol
// records in an encrypted bolt file, one bucket per record type.
package mgddb

import (
	"sort"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/storage/wrapper"
	"github.com/hyperledger/aries-framework-go/pkg/kms"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const (
	NameKey          = "kmsdb"
	NameDID          = "did"
	NameConnection   = "connection"
	NameCredential   = "credential"
	NameProof        = "proof"
	NameCloudAgent   = "cloudagent"
	NameProvisioning = "provisioning"
	NamePeer         = "peer"
)

// provisioningKey is the only key in the provisioning bucket.
const provisioningKey = "provisioning"

var bucketIDs = []string{
	NameKey,
	NameDID,
	NameConnection,
	NameCredential,
	NameProof,
	NameCloudAgent,
	NameProvisioning,
	NamePeer, // new buckets are added last, the index is the bucket ID
}

type Storage struct {
	*wrapper.StorageProvider
	keyStorage *kmsStorage

	didStore   wrapper.Store
	connStore  wrapper.Store
	credStore  wrapper.Store
	proofStore wrapper.Store
	caStore    wrapper.Store
	provStore  wrapper.Store
}

func New(config api.AgentStorageConfig) (a *Storage, err error) {
	defer err2.Handle(&err, "wallet storage new")

	me := &Storage{
		StorageProvider: wrapper.New(wrapper.Config{
			Key:       config.AgentKey,
			FileName:  config.AgentID,
			FilePath:  config.FilePath,
			BucketIDs: bucketIDs,
		}),
	}

	try.To(me.Init())

	me.keyStorage = try.To1(newKmsStorage(me))

	me.didStore = try.To1(me.OpenWrapperStore(NameDID))
	me.connStore = try.To1(me.OpenWrapperStore(NameConnection))
	me.credStore = try.To1(me.OpenWrapperStore(NameCredential))
	me.proofStore = try.To1(me.OpenWrapperStore(NameProof))
	me.caStore = try.To1(me.OpenWrapperStore(NameCloudAgent))
	me.provStore = try.To1(me.OpenWrapperStore(NameProvisioning))

	return me, nil
}

// agent storage
func (s *Storage) Open() error {
	return s.Init()
}

func (s *Storage) KMS() kms.KeyManager {
	return s.keyStorage.KMS()
}

func (s *Storage) DIDStorage() api.DIDStorage {
	return s
}

func (s *Storage) ConnectionStorage() api.ConnectionStorage {
	return s
}

func (s *Storage) CredentialStorage() api.CredentialStorage {
	return s
}

func (s *Storage) ProofStorage() api.ProofStorage {
	return s
}

func (s *Storage) CloudAgentStorage() api.CloudAgentStorage {
	return s
}

func (s *Storage) ProvisioningStorage() api.ProvisioningStorage {
	return s
}

// get reads the GOB value of key to v.
func get[T any](store wrapper.Store, key string) (v *T, err error) {
	bytes := try.To1(store.Get(key))
	v = new(T)
	dto.FromGOB(bytes, v)
	return v, nil
}

// list decodes every value of the store. Records are returned in creation
// order when the less function is given.
func list[T any](store wrapper.Store, less func(a, b *T) bool) (res []T, err error) {
	res = make([]T, 0)
	try.To1(store.GetAll(func(bytes []byte) []byte {
		var v T
		dto.FromGOB(bytes, &v)
		res = append(res, v)
		return bytes
	}))
	if less != nil {
		sort.SliceStable(res, func(i, j int) bool { return less(&res[i], &res[j]) })
	}
	return res, nil
}

// DIDStorage
func (s *Storage) AddDID(did api.DID) (err error) {
	return s.didStore.Put(did.ID, dto.ToGOB(did))
}

func (s *Storage) GetDID(id string) (did *api.DID, err error) {
	defer err2.Handle(&err, "did storage get did")
	return get[api.DID](s.didStore, id)
}

// ConnectionStorage
func (s *Storage) AddConnection(conn api.ConnectionRecord) error {
	return s.connStore.Put(conn.ID, dto.ToGOB(conn))
}

func (s *Storage) GetConnection(id string) (conn *api.ConnectionRecord, err error) {
	defer err2.Handle(&err, "conn storage get conn")
	return get[api.ConnectionRecord](s.connStore, id)
}

func (s *Storage) ListConnections() (res []api.ConnectionRecord, err error) {
	defer err2.Handle(&err, "conn storage list conn")
	return list(s.connStore, func(a, b *api.ConnectionRecord) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func (s *Storage) DeleteConnection(id string) (err error) {
	defer err2.Handle(&err, "conn storage delete conn")

	_ = try.To1(s.GetConnection(id))
	return s.connStore.Delete(id)
}

// CredentialStorage
func (s *Storage) AddCredential(cred api.CredentialRecord) error {
	return s.credStore.Put(cred.ID, dto.ToGOB(cred))
}

func (s *Storage) GetCredential(id string) (cred *api.CredentialRecord, err error) {
	defer err2.Handle(&err, "cred storage get cred")
	return get[api.CredentialRecord](s.credStore, id)
}

func (s *Storage) ListCredentials() (res []api.CredentialRecord, err error) {
	defer err2.Handle(&err, "cred storage list cred")
	return list(s.credStore, func(a, b *api.CredentialRecord) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// ProofStorage
func (s *Storage) AddProof(proof api.ProofRecord) error {
	return s.proofStore.Put(proof.ID, dto.ToGOB(proof))
}

func (s *Storage) GetProof(id string) (proof *api.ProofRecord, err error) {
	defer err2.Handle(&err, "proof storage get proof")
	return get[api.ProofRecord](s.proofStore, id)
}

func (s *Storage) ListProofs() (res []api.ProofRecord, err error) {
	defer err2.Handle(&err, "proof storage list proof")
	return list(s.proofStore, func(a, b *api.ProofRecord) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// CloudAgentStorage
func (s *Storage) AddCloudAgent(rec api.CloudAgentRecord) error {
	return s.caStore.Put(rec.ID, dto.ToGOB(rec))
}

func (s *Storage) GetCloudAgent(id string) (rec *api.CloudAgentRecord, err error) {
	defer err2.Handle(&err, "cloud agent storage get")
	return get[api.CloudAgentRecord](s.caStore, id)
}

func (s *Storage) ListCloudAgents() (res []api.CloudAgentRecord, err error) {
	defer err2.Handle(&err, "cloud agent storage list")
	return list(s.caStore, func(a, b *api.CloudAgentRecord) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func (s *Storage) DeleteCloudAgent(id string) (err error) {
	defer err2.Handle(&err, "cloud agent storage delete")

	_ = try.To1(s.GetCloudAgent(id))
	return s.caStore.Delete(id)
}

// ProvisioningStorage
func (s *Storage) SaveProvisioning(rec api.ProvisioningRecord) error {
	return s.provStore.Put(provisioningKey, dto.ToGOB(rec))
}

func (s *Storage) GetProvisioning() (rec *api.ProvisioningRecord, err error) {
	defer err2.Handle(&err, "provisioning storage get")
	return get[api.ProvisioningRecord](s.provStore, provisioningKey)
}
