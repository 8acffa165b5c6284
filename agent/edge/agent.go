// Package edge is the wallet side agent framework. It keeps the protocol
// records in the encrypted wallet, builds the outbound protocol messages and
// processes the inbound ones. Negotiators use it through
// framework.Framework.
package edge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/packager"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/storage/mgddb"
	"github.com/findy-network/findy-edge-agent/agent/vdr"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/pkg/crypto/tinkcrypto"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type Agent struct {
	walletID string
	store    api.AgentStorage
	http     *comm.Client
	crypto   *tinkcrypto.Crypto
	vdr      *vdr.VDR
	packager *packager.Packager

	lk sync.Mutex
	ac *framework.AgentContext
}

var _ framework.Framework = (*Agent)(nil)

type Option func(a *Agent)

// WithClient sets the HTTP client of the outbound messages.
func WithClient(c *comm.Client) Option {
	return func(a *Agent) { a.http = c }
}

// WithWalletID names the wallet in the agent context.
func WithWalletID(id string) Option {
	return func(a *Agent) { a.walletID = id }
}

// Open opens or creates the wallet file and returns an agent using it.
func Open(cfg api.AgentStorageConfig, opts ...Option) (a *Agent, err error) {
	defer err2.Handle(&err, "open edge agent %s", cfg.AgentID)

	store := try.To1(mgddb.New(cfg))
	opts = append([]Option{WithWalletID(cfg.AgentID)}, opts...)
	return New(store, opts...)
}

func New(store api.AgentStorage, opts ...Option) (a *Agent, err error) {
	defer err2.Handle(&err, "new edge agent")

	a = &Agent{
		store:  store,
		http:   comm.DefaultClient,
		crypto: try.To1(tinkcrypto.New()),
	}
	a.vdr = try.To1(vdr.New(store))
	a.packager = try.To1(packager.New(store, a.vdr.Registry()))
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Agent) Close() error {
	return a.store.Close()
}

func (a *Agent) Storage() api.AgentStorage {
	return a.store
}

// GetContext returns the agent context. The master DID and the provisioning
// record are created on the first call.
func (a *Agent) GetContext(_ context.Context) (ac *framework.AgentContext, err error) {
	defer err2.Handle(&err, "get agent context")

	a.lk.Lock()
	defer a.lk.Unlock()

	if a.ac != nil {
		c := *a.ac
		return &c, nil
	}

	prov, err := a.store.ProvisioningStorage().GetProvisioning()
	if errors.Is(err, api.ErrNotFound) {
		master := try.To1(a.newDID(""))
		prov = &api.ProvisioningRecord{
			MasterVerkey: master.Verkey,
			CreatedAt:    time.Now(),
		}
		try.To(a.store.ProvisioningStorage().SaveProvisioning(*prov))
		glog.V(1).Infoln("wallet provisioned, master key:", master.Verkey)
	} else {
		try.To(err)
	}
	master := try.To1(a.store.DIDStorage().GetDID(prov.MasterVerkey))

	a.ac = &framework.AgentContext{
		WalletID: a.walletID,
		DID:      master.DID,
		Verkey:   master.Verkey,
	}
	c := *a.ac
	return &c, nil
}

// Provision sets the label and the public endpoint of the agent.
func (a *Agent) Provision(ctx context.Context, label, endpoint string) (rec *api.ProvisioningRecord, err error) {
	defer err2.Handle(&err, "provision")

	ac := try.To1(a.GetContext(ctx))
	rec = try.To1(a.Provisioning(ctx, ac))
	rec.Label = label
	rec.Endpoint.URI = endpoint
	rec.Endpoint.Verkey = ac.Verkey
	try.To(a.store.ProvisioningStorage().SaveProvisioning(*rec))
	return rec, nil
}

func (a *Agent) Provisioning(_ context.Context, _ *framework.AgentContext) (*api.ProvisioningRecord, error) {
	return a.store.ProvisioningStorage().GetProvisioning()
}
