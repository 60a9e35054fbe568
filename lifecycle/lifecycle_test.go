package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	events      []string
	transitions []State
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnStart:      func() { r.events = append(r.events, "start") },
		OnUpdate:     func(sig, msg string) { r.events = append(r.events, "update:"+sig) },
		OnComplete:   func() { r.events = append(r.events, "complete") },
		OnError:      func(err error) { r.events = append(r.events, "error:"+err.Error()) },
		OnTransition: func(s State) { r.transitions = append(r.transitions, s) },
	}
}

func TestTracker_HappyPath(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tr := NewTracker(rec.callbacks())
	require.Equal(t, Idle, tr.State().Kind)

	require.NoError(t, tr.Start("Processing transaction..."))
	require.Equal(t, State{Kind: Started, Message: "Processing transaction..."}, tr.State())

	require.NoError(t, tr.Update("sig1", "submitted"))
	require.Equal(t, InFlight, tr.State().Kind)
	require.Equal(t, "sig1", tr.State().Signature)

	require.NoError(t, tr.Complete())
	require.Equal(t, Completed, tr.State().Kind)
	require.Equal(t, "sig1", tr.State().Signature)

	require.Equal(t, []string{"start", "update:sig1", "complete"}, rec.events)
	require.Len(t, rec.transitions, 3)
	require.Equal(t, Completed, rec.transitions[2].Kind)
}

func TestTracker_TerminalCallbacksFireOnce(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tr := NewTracker(rec.callbacks())
	require.NoError(t, tr.Start(""))
	require.NoError(t, tr.Update("s", "m"))
	require.NoError(t, tr.Complete())

	require.ErrorIs(t, tr.Complete(), ErrInvalidTransition)
	require.ErrorIs(t, tr.Fail(errors.New("late")), ErrInvalidTransition)
	require.ErrorIs(t, tr.Update("s2", "m"), ErrInvalidTransition)

	require.Equal(t, []string{"start", "update:s", "complete"}, rec.events)
}

func TestTracker_FailBeforeSubmission(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tr := NewTracker(rec.callbacks())
	require.NoError(t, tr.Start("Processing transaction..."))
	require.NoError(t, tr.Fail(errors.New("lookup failed")))

	s := tr.State()
	require.Equal(t, Failed, s.Kind)
	require.Equal(t, "lookup failed", s.Reason)
	require.Empty(t, s.Signature)
	require.Equal(t, []string{"start", "error:lookup failed"}, rec.events)

	require.ErrorIs(t, tr.Fail(errors.New("again")), ErrInvalidTransition)
	require.Len(t, rec.events, 2)
}

func TestTracker_FailAfterSubmissionKeepsSignature(t *testing.T) {
	t.Parallel()

	tr := NewTracker(Callbacks{})
	require.NoError(t, tr.Start(""))
	require.NoError(t, tr.Update("abc", "submitted"))
	require.NoError(t, tr.Fail(errors.New("confirmation timeout")))
	require.Equal(t, State{Kind: Failed, Signature: "abc", Reason: "confirmation timeout"}, tr.State())
}

func TestTracker_InvalidTransitions(t *testing.T) {
	t.Parallel()

	tr := NewTracker(Callbacks{})
	require.ErrorIs(t, tr.Update("s", "m"), ErrInvalidTransition)
	require.ErrorIs(t, tr.Complete(), ErrInvalidTransition)

	require.NoError(t, tr.Start(""))
	require.ErrorIs(t, tr.Start(""), ErrInvalidTransition)
	require.ErrorIs(t, tr.Complete(), ErrInvalidTransition)
}

func TestKind(t *testing.T) {
	t.Parallel()

	require.Equal(t, "in-flight", InFlight.String())
	require.True(t, Completed.Terminal())
	require.True(t, Failed.Terminal())
	require.False(t, InFlight.Terminal())
	require.Equal(t, "kind(9)", Kind(9).String())
}
