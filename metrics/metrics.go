package metrics

import "time"

// Event names recorded by the dispatcher.
const (
	EventDispatchStarted   = "dispatch_started"
	EventDispatchSubmitted = "dispatch_submitted"
	EventDispatchFailed    = "dispatch_failed"
	EventConfirmed         = "confirmed"
	EventConfirmFailed     = "confirm_failed"
	EventAccountCreated    = "account_created"

	OpDispatch = "dispatch"
	OpConfirm  = "confirm"
)

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
