package models

// DateLayout is the calendar date format used for every date attribute.
const DateLayout = "2006-01-02"

// Record is implemented by every stored entity so collections can manage ids generically.
type Record[T any] interface {
	EntityID() int64
	WithEntityID(id int64) T
}
