package models

// FeeStatus is the payment state of a fee.
type FeeStatus string

const (
	FeePaid   FeeStatus = "Paid"
	FeeUnpaid FeeStatus = "Unpaid"
)

// Fee is an amount due from a student. PaymentDate is only set once paid.
type Fee struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	Amount      float64   `db:"amount" json:"amount"`
	DueDate     string    `db:"due_date" json:"due_date"`
	Status      FeeStatus `db:"status" json:"status"`
	PaymentDate *string   `db:"payment_date" json:"payment_date,omitempty"`
}

func (f Fee) EntityID() int64 { return f.ID }

func (f Fee) WithEntityID(id int64) Fee {
	f.ID = id
	return f
}
