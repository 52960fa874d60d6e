package engine

// Status is the run state a progress event reports.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Event is one progress checkpoint. Within a single run events are
// emitted with non-decreasing percent values and end in exactly one
// terminal event.
type Event struct {
	Percent float64 `json:"percent"`
	Status  Status  `json:"status"`
	Message string  `json:"message"`
}

// Sink receives progress events. It is an explicit parameter rather
// than an ambient channel so the engine stays usable headlessly; pass
// nil to discard progress. Delivery to remote observers is the
// transport layer's problem, the engine only needs a synchronous emit.
type Sink func(Event)
