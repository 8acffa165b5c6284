package edge

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/messagepickup"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

func (a *Agent) RegisterCloudAgent(
	_ context.Context,
	_ *framework.AgentContext,
	reg *invitation.CloudAgentRegistration,
) (
	rec *api.CloudAgentRecord,
	err error,
) {
	defer err2.Handle(&err, "register cloud agent %s", reg.Label)

	consumerID := reg.ConsumerID
	if consumerID == "" {
		consumerID = utils.UUID()
	}
	rec = &api.CloudAgentRecord{
		ID:           utils.UUID(),
		Label:        reg.Label,
		TheirVerkey:  reg.TheirVerkey,
		MyConsumerID: consumerID,
		Endpoint: api.CloudAgentEndpoint{
			URI:              reg.Endpoint.URI,
			ResponseEndpoint: reg.Endpoint.ResponseEndpoint,
			TriggerEndpoint:  reg.Endpoint.TriggerEndpoint,
		},
		CreatedAt: time.Now(),
	}
	if rec.Endpoint.ResponseEndpoint == "" {
		rec.Endpoint.ResponseEndpoint = rec.Endpoint.URI
	}
	try.To(a.store.CloudAgentStorage().AddCloudAgent(*rec))
	return rec, nil
}

func (a *Agent) ListCloudAgents(_ context.Context, _ *framework.AgentContext) ([]api.CloudAgentRecord, error) {
	return a.store.CloudAgentStorage().ListCloudAgents()
}

func (a *Agent) RemoveCloudAgent(_ context.Context, _ *framework.AgentContext, id string) error {
	return a.store.CloudAgentStorage().DeleteCloudAgent(id)
}

// ConsumeRelayMessages picks up the messages the relay holds for us. The
// relay drops what it returns, so the caller must keep them until they are
// processed. Messages that can't be opened with our keys are logged and
// skipped.
func (a *Agent) ConsumeRelayMessages(
	ctx context.Context,
	_ *framework.AgentContext,
	ca api.CloudAgentRecord,
) (
	msgs []*framework.Message,
	err error,
) {
	defer err2.Handle(&err, "consume relay %s", ca.Label)

	pickup := try.To1(json.Marshal(messagepickup.BatchPickup{
		Type:      messagepickup.BatchPickupMsgType,
		ID:        utils.UUID(),
		BatchSize: utils.Settings.RelayBatchSize(),
	}))
	data := try.To1(a.http.Post(ctx, PickupURL(ca), pickup))

	var batch messagepickup.Batch
	try.To(json.Unmarshal(data, &batch))

	msgs = make([]*framework.Message, 0, len(batch.Messages))
	for _, m := range batch.Messages {
		if m == nil {
			continue
		}
		msg, err := a.Unpack(m.Message)
		if err != nil {
			glog.Warningf("relay %s message %s skipped: %v", ca.Label, m.ID, err)
			continue
		}
		msgs = append(msgs, msg)
	}
	glog.V(3).Infof("relay %s: %d messages", ca.Label, len(msgs))
	return msgs, nil
}

// PickupURL is where our messages are picked up from the relay.
func PickupURL(ca api.CloudAgentRecord) string {
	return strings.TrimSuffix(ca.Endpoint.URI, "/") + "/" + ca.MyConsumerID
}
