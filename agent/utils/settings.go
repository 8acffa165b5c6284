package utils

import (
	"time"

	"github.com/golang/glog"
)

const (
	HTTPReqTimeout = 1 * time.Minute

	// PollInterval is the observed relay poll period of edge wallets.
	PollInterval = 5 * time.Second

	AuthTimeout = 5 * time.Minute

	RelayBatchSize = 10
)

var Settings = &Hub{}

type Hub struct {
	walletPath string // directory where the wallet bolt files live
	walletName string // wallet file name without the extension
	walletKey  string // hex encoded 32 byte wallet encryption key

	serviceName string        // name of the this service which is used in URLs, etc.
	hostAddr    string        // host address seen from the internet, used in endpoints
	versionInfo string        // Version number etc. in free format as a string
	timeout     time.Duration // timeout setting for http requests

	pollInterval   time.Duration // relay poll period
	relayBatchSize int           // how many messages a single relay fetch asks for

	authTimeout    time.Duration // how long the passcode challenge may take
	authTimeoutSet bool          // tells if authTimeout is set explicitly, 0 is allowed
}

func (h *Hub) WalletPath() string {
	if h.walletPath == "" {
		return "."
	}
	return h.walletPath
}

func (h *Hub) SetWalletPath(path string) {
	h.walletPath = path
}

func (h *Hub) WalletName() string {
	return h.walletName
}

func (h *Hub) SetWalletName(name string) {
	h.walletName = name
}

func (h *Hub) WalletKey() string {
	return h.walletKey
}

func (h *Hub) SetWalletKey(key string) {
	h.walletKey = key
}

// SetTimeout sets the default timeout for HTTP requests.
func (h *Hub) SetTimeout(to time.Duration) {
	h.timeout = to
}

func (h *Hub) Timeout() time.Duration {
	if h.timeout == 0 {
		return HTTPReqTimeout
	}
	return h.timeout
}

// SetServiceName sets the service name of this edge agent. Service name is
// used in the inbound URLs and endpoint addresses.
func (h *Hub) SetServiceName(n string) {
	h.serviceName = n
}

func (h *Hub) ServiceName() string {
	if h.serviceName == "" && glog.V(3) {
		glog.Info("warning service name is empty")
	}
	return h.serviceName
}

// SetHostAddr sets current host name of this edge agent. The host name is
// used in the URLs and endpoints.
func (h *Hub) SetHostAddr(ipName string) {
	h.hostAddr = ipName
}

func (h *Hub) HostAddr() string {
	return h.hostAddr
}

// SetVersionInfo sets current version info. The info is shown in the
// /version response.
func (h *Hub) SetVersionInfo(info string) {
	h.versionInfo = info
}

func (h *Hub) VersionInfo() string {
	if h.versionInfo == "" {
		return Version
	}
	return h.versionInfo
}

func (h *Hub) SetPollInterval(d time.Duration) {
	h.pollInterval = d
}

func (h *Hub) PollInterval() time.Duration {
	if h.pollInterval <= 0 {
		return PollInterval
	}
	return h.pollInterval
}

func (h *Hub) SetRelayBatchSize(n int) {
	h.relayBatchSize = n
}

func (h *Hub) RelayBatchSize() int {
	if h.relayBatchSize <= 0 {
		return RelayBatchSize
	}
	return h.relayBatchSize
}

// SetAuthTimeout sets the maximum wait for an interactive passcode challenge.
// Zero means the challenge waits until the user answers or the context ends.
func (h *Hub) SetAuthTimeout(d time.Duration) {
	h.authTimeout = d
	h.authTimeoutSet = true
}

func (h *Hub) AuthTimeout() time.Duration {
	if !h.authTimeoutSet {
		return AuthTimeout
	}
	return h.authTimeout
}
