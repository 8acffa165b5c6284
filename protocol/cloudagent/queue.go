package cloudagent

import (
	"container/list"
	"sync"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultQueue names the queue a Poller makes for itself.
const DefaultQueue = "default"

// Queue is the FIFO hand-off between relay fetch and message dispatch. It's
// safe for concurrent use.
type Queue struct {
	name   string
	length prometheus.Gauge

	lk sync.Mutex
	l  *list.List
}

// NewQueue returns an empty queue. The name labels the queue length metric,
// queues sharing a name share the gauge.
func NewQueue(name string) *Queue {
	return &Queue{
		name:   name,
		length: queueLength.WithLabelValues(name),
		l:      list.New(),
	}
}

func (q *Queue) Name() string {
	return q.name
}

func (q *Queue) Push(msgs ...*framework.Message) {
	q.lk.Lock()
	defer q.lk.Unlock()
	for _, m := range msgs {
		if m != nil {
			q.l.PushBack(m)
		}
	}
	q.length.Set(float64(q.l.Len()))
}

// Pop returns the oldest message, or false if the queue is empty.
func (q *Queue) Pop() (*framework.Message, bool) {
	q.lk.Lock()
	defer q.lk.Unlock()
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	q.l.Remove(e)
	q.length.Set(float64(q.l.Len()))
	return e.Value.(*framework.Message), true
}

func (q *Queue) Len() int {
	q.lk.Lock()
	defer q.lk.Unlock()
	return q.l.Len()
}

// Drain calls f for the messages which are in the queue when Drain starts,
// oldest first. Messages pushed during the drain wait for the next one. The
// lock isn't held while f runs.
func (q *Queue) Drain(f func(m *framework.Message)) int {
	n := q.Len()
	for i := 0; i < n; i++ {
		m, ok := q.Pop()
		if !ok {
			return i
		}
		f(m)
	}
	return n
}
