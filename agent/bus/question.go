package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"
)

// ErrNoAnswerer is returned by Ask when no one listens questions.
var ErrNoAnswerer = errors.New("no answerer for the question")

type QuestionType int

const (
	QuestionPasscode QuestionType = iota
)

type Question struct {
	ID     string
	Type   QuestionType
	Prompt string

	answer chan Answer
}

type Answer struct {
	ID        string
	Passcode  string
	Cancelled bool
}

// Reply sends the answer back to the asker. Only the first reply counts.
func (q Question) Reply(a Answer) {
	a.ID = q.ID
	select {
	case q.answer <- a:
	default:
		glog.V(3).Infoln("question already answered:", q.ID)
	}
}

type QuestionChan <-chan Question

// Questions routes interactive questions to a registered answerer, e.g. a
// passcode dialog.
type Questions struct {
	lk        sync.Mutex
	answerers []chan Question
}

func NewQuestions() *Questions {
	return &Questions{}
}

// AddAnswerer adds the answerer and returns the question channel to listen
// for.
func (qs *Questions) AddAnswerer() (QuestionChan, func()) {
	ch := make(chan Question, 1)

	qs.lk.Lock()
	qs.answerers = append(qs.answerers, ch)
	qs.lk.Unlock()
	glog.V(3).Infoln("answerer ADD, count:", len(qs.answerers))

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			qs.lk.Lock()
			defer qs.lk.Unlock()
			for i, c := range qs.answerers {
				if c == ch {
					qs.answerers = append(qs.answerers[:i], qs.answerers[i+1:]...)
					break
				}
			}
			glog.V(3).Infoln("answerer REMOVE, count:", len(qs.answerers))
		})
	}
}

// Ask sends the question to the latest answerer and returns the channel for
// the answer.
func (qs *Questions) Ask(ctx context.Context, q Question) (<-chan Answer, error) {
	qs.lk.Lock()
	if len(qs.answerers) == 0 {
		qs.lk.Unlock()
		return nil, ErrNoAnswerer
	}
	ch := qs.answerers[len(qs.answerers)-1]
	qs.lk.Unlock() // don't keep the lock when blocking channel send below

	q.answer = make(chan Answer, 1)
	glog.V(3).Infoln("agent QUESTION ID:", q.ID)
	select {
	case ch <- q:
		return q.answer, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
