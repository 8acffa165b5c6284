// Package bus delivers wallet state change notifications from the protocol
// negotiators to the presentation layer, and passes interactive questions
// (e.g. passcode prompts) from the agent to whoever answers them.
//
// A Station is owned by a single wallet session. There is no package level
// state, every component gets the station it publishes to.
package bus

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
)

type Kind int

const (
	ConnectionsUpdated Kind = iota
	CloudAgentsUpdated
	CredentialUpdated
	ProofRequestUpdated
	// ProofRequestAttributeUpdated is sent while a proof request is
	// negotiated, the proof record itself isn't changed yet.
	ProofRequestAttributeUpdated
)

func (k Kind) String() string {
	switch k {
	case ConnectionsUpdated:
		return "ConnectionsUpdated"
	case CloudAgentsUpdated:
		return "CloudAgentsUpdated"
	case CredentialUpdated:
		return "CredentialUpdated"
	case ProofRequestUpdated:
		return "ProofRequestUpdated"
	case ProofRequestAttributeUpdated:
		return "ProofRequestAttributeUpdated"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Notification struct {
	Kind      Kind
	RecordID  string
	Timestamp int64
}

type NotificationChan <-chan Notification

// Station fans notifications out to subscribers. Every subscriber has its
// own unbounded buffer, so a slow reader never blocks the publisher.
type Station struct {
	lk        sync.Mutex
	listeners map[uint64]*listener
	nextID    uint64
}

type listener struct {
	kinds map[Kind]struct{}
	out   chan Notification
	wake  chan struct{}
	done  chan struct{}

	sync.Mutex
	buf *list.List
}

func New() *Station {
	return &Station{listeners: make(map[uint64]*listener)}
}

// Subscribe returns a channel for the notifications of the given kinds, or
// all kinds if none is given. The returned function unsubscribes and closes
// the channel.
func (s *Station) Subscribe(kinds ...Kind) (NotificationChan, func()) {
	l := &listener{
		kinds: make(map[Kind]struct{}, len(kinds)),
		out:   make(chan Notification),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		buf:   list.New(),
	}
	for _, k := range kinds {
		l.kinds[k] = struct{}{}
	}

	s.lk.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.lk.Unlock()

	glog.V(4).Infoln("bus: subscribe", id, kinds)
	go l.pump()

	var once sync.Once
	return l.out, func() {
		once.Do(func() {
			s.lk.Lock()
			delete(s.listeners, id)
			s.lk.Unlock()
			close(l.done)
			glog.V(4).Infoln("bus: unsubscribe", id)
		})
	}
}

// Publish sends the notification to every subscriber interested in its
// kind. It never blocks.
func (s *Station) Publish(n Notification) {
	if n.Timestamp == 0 {
		n.Timestamp = time.Now().UnixMilli()
	}

	s.lk.Lock()
	defer s.lk.Unlock()

	if len(s.listeners) == 0 {
		glog.V(5).Infoln("bus: there are no one to listen", n.Kind)
	}
	for _, l := range s.listeners {
		if l.wants(n.Kind) {
			l.push(n)
		}
	}
}

// PublishKind is a shorthand for Publish(Notification{Kind: k, RecordID: id}).
func (s *Station) PublishKind(k Kind, id string) {
	s.Publish(Notification{Kind: k, RecordID: id})
}

func (l *listener) wants(k Kind) bool {
	if len(l.kinds) == 0 {
		return true
	}
	_, ok := l.kinds[k]
	return ok
}

func (l *listener) push(n Notification) {
	l.Lock()
	l.buf.PushBack(n)
	l.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *listener) pop() (n Notification, ok bool) {
	l.Lock()
	defer l.Unlock()

	e := l.buf.Front()
	if e == nil {
		return n, false
	}
	l.buf.Remove(e)
	return e.Value.(Notification), true
}

func (l *listener) pump() {
	defer close(l.out)
	for {
		n, ok := l.pop()
		if !ok {
			select {
			case <-l.wake:
				continue
			case <-l.done:
				return
			}
		}
		select {
		case l.out <- n:
		case <-l.done:
			return
		}
	}
}
