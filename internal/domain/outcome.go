package domain

// PersistStatus tells a caller what a store write actually did, so a write
// rejected by validation cannot be mistaken for a success.
type PersistStatus int

const (
	// A new row was written and an identity assigned.
	PersistStatusPersisted PersistStatus = iota
	// The input already carried an identity; storage was not touched.
	PersistStatusNoop
	// Validation failed before any I/O; storage was not touched.
	PersistStatusRejected
)

func (s PersistStatus) String() string {
	switch s {
	case PersistStatusPersisted:
		return "persisted"
	case PersistStatusNoop:
		return "noop"
	case PersistStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
