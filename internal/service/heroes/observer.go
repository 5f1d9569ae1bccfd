package heroes

import "time"

const (
	OpGetAll       = "get_all"
	OpGetByID      = "get_by_id"
	OpSearchByName = "search_by_name"
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
)

// Observer receives a report for every service call. Implementations must be
// safe for concurrent use.
type Observer interface {
	// OnOperation is called once per asynchronous operation, after its effect
	// has been applied and before its result is delivered.
	OnOperation(operation string, duration time.Duration, err error)

	// OnCollectionSize is called with the hero count after every mutation.
	OnCollectionSize(count int)

	// OnReset is called after the collection was reloaded from seed data.
	OnReset(duration time.Duration)
}

type NoopObserver struct{}

func (NoopObserver) OnOperation(string, time.Duration, error) {}
func (NoopObserver) OnCollectionSize(int)                     {}
func (NoopObserver) OnReset(time.Duration)                    {}
