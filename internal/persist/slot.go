package persist

import "encoding/json"

// Slot keys in the durable store.
const (
	KeyBills        = "bills"
	KeyServices     = "services"
	KeyExpenses     = "expenses"
	KeyPersonal     = "personalTransactions"
	KeySubscription = "subscription"
)

// Slot binds one independently addressed value in the store to its
// in-memory owner.
type Slot interface {
	Key() string
	// Encode snapshots the owner's current value.
	Encode() ([]byte, error)
	// Decode parses raw and, only on success, installs it in the owner.
	Decode(raw []byte) error
	// Reset installs the compiled-in default.
	Reset()
}

type jsonSlot[T any] struct {
	key   string
	get   func() T
	set   func(T)
	reset func()
}

// JSONSlot returns a Slot storing T as JSON.
func JSONSlot[T any](key string, get func() T, set func(T), reset func()) Slot {
	return &jsonSlot[T]{key: key, get: get, set: set, reset: reset}
}

func (s *jsonSlot[T]) Key() string { return s.key }

func (s *jsonSlot[T]) Encode() ([]byte, error) {
	return json.Marshal(s.get())
}

func (s *jsonSlot[T]) Decode(raw []byte) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	s.set(v)
	return nil
}

func (s *jsonSlot[T]) Reset() { s.reset() }
