// Package lifecycle tracks the progress of a single dispatch and notifies
// subscribers of every transition.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"
)

type Kind int

const (
	Idle Kind = iota
	Started
	InFlight
	Completed
	Failed
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Started:
		return "started"
	case InFlight:
		return "in-flight"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Terminal reports whether no further transitions are possible.
func (k Kind) Terminal() bool {
	return k == Completed || k == Failed
}

// State is a snapshot of a dispatch. Message is set while Started or
// InFlight, Signature once submitted, Reason once Failed.
type State struct {
	Kind      Kind
	Message   string
	Signature string
	Reason    string
}

// Callbacks are optional observers of a dispatch. They run synchronously on
// the dispatching goroutine.
type Callbacks struct {
	OnStart      func()
	OnUpdate     func(signature, message string)
	OnComplete   func()
	OnError      func(err error)
	OnTransition func(State)
}

var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// Tracker owns the state of one dispatch call.
type Tracker struct {
	mu    sync.Mutex
	state State
	cb    Callbacks
}

func NewTracker(cb Callbacks) *Tracker {
	return &Tracker{cb: cb}
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start moves Idle to Started.
func (t *Tracker) Start(message string) error {
	next, err := t.transition(func(s State) (State, bool) {
		if s.Kind != Idle {
			return s, false
		}
		return State{Kind: Started, Message: message}, true
	})
	if err != nil {
		return err
	}

	if t.cb.OnStart != nil {
		t.cb.OnStart()
	}
	t.notify(next)
	return nil
}

// Update records a submitted signature. It is valid from Started and from
// InFlight.
func (t *Tracker) Update(signature, message string) error {
	next, err := t.transition(func(s State) (State, bool) {
		if s.Kind != Started && s.Kind != InFlight {
			return s, false
		}
		return State{Kind: InFlight, Message: message, Signature: signature}, true
	})
	if err != nil {
		return err
	}

	if t.cb.OnUpdate != nil {
		t.cb.OnUpdate(signature, message)
	}
	t.notify(next)
	return nil
}

// Complete moves InFlight to Completed.
func (t *Tracker) Complete() error {
	next, err := t.transition(func(s State) (State, bool) {
		if s.Kind != InFlight {
			return s, false
		}
		return State{Kind: Completed, Signature: s.Signature}, true
	})
	if err != nil {
		return err
	}

	if t.cb.OnComplete != nil {
		t.cb.OnComplete()
	}
	t.notify(next)
	return nil
}

// Fail moves any non-terminal state to Failed.
func (t *Tracker) Fail(cause error) error {
	if cause == nil {
		cause = errors.New("unknown error")
	}

	next, err := t.transition(func(s State) (State, bool) {
		if s.Kind.Terminal() {
			return s, false
		}
		return State{Kind: Failed, Signature: s.Signature, Reason: cause.Error()}, true
	})
	if err != nil {
		return err
	}

	if t.cb.OnError != nil {
		t.cb.OnError(cause)
	}
	t.notify(next)
	return nil
}

func (t *Tracker) transition(fn func(State) (State, bool)) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, ok := fn(t.state)
	if !ok {
		return t.state, fmt.Errorf("%w from %s", ErrInvalidTransition, t.state.Kind)
	}
	t.state = next
	return next, nil
}

func (t *Tracker) notify(s State) {
	if t.cb.OnTransition != nil {
		t.cb.OnTransition(s)
	}
}
