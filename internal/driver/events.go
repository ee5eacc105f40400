package driver

// Status of one function inside a verification run.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress notification.
type Event struct {
	Function string
	Status   Status
}

// ProgressSink receives progress events. Implementations must not block the
// verification goroutines indefinitely.
type ProgressSink interface {
	Send(ev Event)
}

// ChannelSink forwards events into a channel, dropping them when the channel
// is full rather than stalling verification.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) Send(ev Event) {
	select {
	case s.Ch <- ev:
	default:
	}
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Send(Event) {}
