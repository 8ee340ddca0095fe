package ports

// Event names emitted by the core. Payloads are the affected termbase or
// entry id.
const (
	EventEntrySaved       = "entry:saved"
	EventLanguagesChanged = "languages:changed"
	EventTermbaseChanged  = "termbase:changed"
)

type Event struct {
	Name    string
	Payload any
}

// EventEmitter broadcasts refresh signals to whoever subscribed.
type EventEmitter interface {
	Emit(name string, payload any)
}

// EventSource hands each consumer its own channel; unsubscribing is done by
// calling the returned cancel function.
type EventSource interface {
	Subscribe(names ...string) (<-chan Event, func())
}
