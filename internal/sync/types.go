package sync

// WatcherState is the Local Watcher's position in its send cycle.
type WatcherState int

const (
	WatcherIdle WatcherState = iota
	WatcherDetected
	WatcherSending
	WatcherRetrying
)

func (s WatcherState) String() string {
	switch s {
	case WatcherIdle:
		return "idle"
	case WatcherDetected:
		return "detected"
	case WatcherSending:
		return "sending"
	case WatcherRetrying:
		return "retrying"
	}
	return "unknown"
}

// PollerState is the Remote Poller's position in its fetch cycle.
type PollerState int

const (
	PollerIdle PollerState = iota
	PollerFetching
	PollerApplying
)

func (s PollerState) String() string {
	switch s {
	case PollerIdle:
		return "idle"
	case PollerFetching:
		return "fetching"
	case PollerApplying:
		return "applying"
	}
	return "unknown"
}
