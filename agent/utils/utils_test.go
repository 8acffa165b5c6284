package utils

import (
	"testing"
	"time"

	"github.com/lainio/err2/assert"
)

func TestDecodeB64(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"url padded", "eyJhIjoxfQ==", `{"a":1}`},
		{"url raw", "eyJhIjoxfQ", `{"a":1}`},
		{"std with plus", "Pz8/", "???"},
		{"url with minus", "Pz8_", "???"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			got, err := DecodeB64(tt.in)
			assert.NoError(err)
			assert.Equal(string(got), tt.want)
		})
	}
	_, err := DecodeB64("!!not base64!!")
	assert.Error(err)
}

func TestEncodeB64(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	data := []byte(`{"label":"äö?"}`)
	got, err := DecodeB64(EncodeB64(data))
	assert.NoError(err)
	assert.DeepEqual(got, data)
}

func TestHubDefaults(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	h := &Hub{}
	assert.Equal(h.PollInterval(), PollInterval)
	assert.Equal(h.Timeout(), HTTPReqTimeout)
	assert.Equal(h.AuthTimeout(), AuthTimeout)
	assert.Equal(h.RelayBatchSize(), RelayBatchSize)
	assert.Equal(h.WalletPath(), ".")

	h.SetAuthTimeout(0)
	assert.Equal(h.AuthTimeout(), time.Duration(0))
	h.SetPollInterval(time.Second)
	assert.Equal(h.PollInterval(), time.Second)
}

func TestUUID(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	a, b := UUID(), UUID()
	assert.NotEqual(a, b)
	assert.Equal(len(a), 36)
}
