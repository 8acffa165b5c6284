package auth

import (
	"context"
	"errors"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

type memStore struct {
	rec *api.ProvisioningRecord
}

func (m *memStore) SaveProvisioning(rec api.ProvisioningRecord) error {
	m.rec = &rec
	return nil
}

func (m *memStore) GetProvisioning() (*api.ProvisioningRecord, error) {
	if m.rec == nil {
		return nil, api.ErrNotFound
	}
	r := *m.rec
	return &r, nil
}

type bio struct {
	available bool
	err       error
}

func (b bio) Available() bool { return b.available }

func (b bio) Authenticate(context.Context, string) error { return b.err }

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("stderrthreshold", "WARNING"))
	flag.Parse()
	os.Exit(m.Run())
}

// answerer replies every question with the answer.
func answerer(t *testing.T, qs *bus.Questions, answer bus.Answer) func() {
	ch, cancel := qs.AddAnswerer()
	go func() {
		for q := range ch {
			if q.Type != bus.QuestionPasscode {
				t.Errorf("wrong question type %v", q.Type)
			}
			q.Reply(answer)
		}
	}()
	return cancel
}

func TestSetPasscode(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	store := &memStore{}
	assert.Error(SetPasscode(store, ""))
	assert.NoError(SetPasscode(store, "1234"))
	assert.NotEqual(string(store.rec.PasscodeHash), "1234")

	assert.NoError(VerifyPasscode(store, "1234"))
	assert.That(errors.Is(VerifyPasscode(store, "4321"), ErrAuthenticationFailed))
	assert.That(errors.Is(VerifyPasscode(&memStore{}, "1234"), ErrAuthenticationFailed))
}

func TestAuthenticate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	store := &memStore{}
	assert.NoError(SetPasscode(store, "1234"))

	tests := []struct {
		name    string
		bio     Biometric
		answer  bus.Answer
		wantErr error
	}{
		{"right passcode", nil, bus.Answer{Passcode: "1234"}, nil},
		{"wrong passcode", nil, bus.Answer{Passcode: "0000"}, ErrAuthenticationFailed},
		{"cancelled", nil, bus.Answer{Cancelled: true}, ErrCancelled},
		{"biometric ok", bio{available: true}, bus.Answer{Cancelled: true}, nil},
		{"biometric fails", bio{available: true, err: errors.New("no match")}, bus.Answer{}, ErrAuthenticationFailed},
		{"biometric not available", bio{}, bus.Answer{Passcode: "1234"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			qs := bus.NewQuestions()
			cancel := answerer(t, qs, tt.answer)
			defer cancel()

			a := &Authenticator{
				Biometric:  tt.bio,
				Challenger: QuestionChallenger{Questions: qs},
				Store:      store,
			}
			err := a.Authenticate(context.Background(), "Accept?")
			if tt.wantErr == nil {
				assert.NoError(err)
			} else {
				assert.That(errors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestAuthenticate_Timeout(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	qs := bus.NewQuestions()
	_, cancel := qs.AddAnswerer() // never answers
	defer cancel()

	a := &Authenticator{
		Challenger: QuestionChallenger{Questions: qs},
		Store:      &memStore{},
		Timeout:    50 * time.Millisecond,
	}
	err := a.Authenticate(context.Background(), "Accept?")
	assert.That(errors.Is(err, ErrCancelled))
}

func TestAuthenticate_NoAnswerer(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	a := &Authenticator{Challenger: QuestionChallenger{Questions: bus.NewQuestions()}}
	assert.That(errors.Is(a.Authenticate(context.Background(), "x"), ErrCancelled))

	a = &Authenticator{}
	assert.That(errors.Is(a.Authenticate(context.Background(), "x"), ErrCancelled))
}

func TestAlwaysAllow(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	var g Gate = AlwaysAllow{}
	assert.NoError(g.Authenticate(context.Background(), ""))
}
