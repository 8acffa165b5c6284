package cloudagent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/protocol"
	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Poller moves the messages from the relays to the agent framework. Every
// tick first dispatches what was fetched earlier, and only then fetches new
// messages, which are dispatched on the next tick. Slow dispatch never
// delays the fetch of the registered relays and vice versa.
type Poller struct {
	protocol.Deps
	Queue *Queue

	// Interval is utils.Settings.PollInterval if zero.
	Interval time.Duration

	lk    sync.Mutex
	sched *gocron.Scheduler
	done  chan struct{}
}

func NewPoller(deps protocol.Deps, q *Queue) *Poller {
	if q == nil {
		q = NewQueue(DefaultQueue)
	}
	return &Poller{Deps: deps, Queue: q}
}

func (p *Poller) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return utils.Settings.PollInterval()
}

// Enqueue adds messages received by other means, e.g. the inbound HTTP
// endpoint, to the same dispatch queue.
func (p *Poller) Enqueue(msgs ...*framework.Message) {
	p.Queue.Push(msgs...)
}

// Start runs Tick on every interval until Stop is called or the ctx is done.
// Ticks never overlap.
func (p *Poller) Start(ctx context.Context) (err error) {
	defer err2.Handle(&err, "start poller")

	p.lk.Lock()
	defer p.lk.Unlock()
	if p.sched != nil {
		return fmt.Errorf("already started")
	}

	s := gocron.NewScheduler(time.Now().Location())
	s.SingletonModeAll()
	_ = try.To1(s.Every(p.interval()).Do(func() { p.Tick(ctx) }))
	s.StartAsync()
	p.sched = s
	p.done = make(chan struct{})
	glog.V(1).Infoln("poller started, interval:", p.interval())

	go func(done <-chan struct{}) {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-done:
		}
	}(p.done)
	return nil
}

func (p *Poller) Stop() {
	p.lk.Lock()
	defer p.lk.Unlock()
	if p.sched == nil {
		return
	}
	p.sched.Stop()
	p.sched = nil
	close(p.done)
	glog.V(1).Infoln("poller stopped")
}

// Tick is a single poll round. It returns the number of dispatched and the
// number of fetched messages.
func (p *Poller) Tick(ctx context.Context) (dispatchedCount, fetchedCount int) {
	ac, err := p.FW.GetContext(ctx)
	if err != nil {
		glog.Errorln("poller: agent context:", err)
		return 0, 0
	}

	dispatchedCount = p.Queue.Drain(func(m *framework.Message) {
		p.dispatch(ctx, ac, m)
	})

	relays, err := p.FW.ListCloudAgents(ctx, ac)
	if err != nil {
		glog.Errorln("poller: list cloud agents:", err)
		return dispatchedCount, 0
	}
	for _, ca := range relays {
		if ctx.Err() != nil {
			break
		}
		msgs, err := p.FW.ConsumeRelayMessages(ctx, ac, ca)
		if err != nil {
			glog.Warningf("poller: fetch from %s: %v", ca.Label, err)
			continue
		}
		if len(msgs) > 0 {
			glog.V(3).Infof("poller: %d messages from %s", len(msgs), ca.Label)
		}
		fetched.Add(float64(len(msgs)))
		fetchedCount += len(msgs)
		p.Queue.Push(msgs...)
	}
	return dispatchedCount, fetchedCount
}

// Flush dispatches the queued messages without fetching new ones. It's used
// before a one-shot poller exits.
func (p *Poller) Flush(ctx context.Context) int {
	ac, err := p.FW.GetContext(ctx)
	if err != nil {
		glog.Errorln("poller: agent context:", err)
		return 0
	}
	return p.Queue.Drain(func(m *framework.Message) {
		p.dispatch(ctx, ac, m)
	})
}

// dispatch processes a single message. Errors and panics are logged and the
// message is dropped, so that one bad message doesn't stop the ones behind it.
func (p *Poller) dispatch(ctx context.Context, ac *framework.AgentContext, m *framework.Message) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("poller: panic in processing %s: %v", m, r)
			dispatched.WithLabelValues("error").Inc()
		}
	}()

	if err := p.FW.Process(ctx, ac, m); err != nil {
		glog.Errorf("poller: processing %s: %v", m, err)
		dispatched.WithLabelValues("error").Inc()
		return
	}
	dispatched.WithLabelValues("ok").Inc()
	if k, ok := kindOf(m.Type); ok {
		p.Publish(k, m.ThreadID)
	}
}

// kindOf maps the protocol of the processed message to the notification.
func kindOf(msgType string) (bus.Kind, bool) {
	switch {
	case strings.Contains(msgType, "/connections/"):
		return bus.ConnectionsUpdated, true
	case strings.Contains(msgType, "/issue-credential/"):
		return bus.CredentialUpdated, true
	case strings.Contains(msgType, "/present-proof/"):
		return bus.ProofRequestUpdated, true
	}
	return 0, false
}
