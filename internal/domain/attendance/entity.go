package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Method records how a transition was authorized.
type Method string

const (
	MethodCode   Method = "code"
	MethodGPS    Method = "gps"
	MethodManual Method = "manual"
)

// Attendance is the per-(worker, event) record. It is append-only: created on the first
// successful check-in, closed once at check-out and never deleted.
type Attendance struct {
	ID            string
	WorkerID      string
	EventID       string
	ApplicationID string

	CheckIn       *time.Time
	CheckOut      *time.Time
	WorkedMinutes *int
	PayAmount     *decimal.Decimal

	CheckInMethod     *Method
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutMethod    *Method
	CheckOutLatitude  *float64
	CheckOutLongitude *float64

	// TxHash is written by the external anchoring service. Read-only here.
	TxHash *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EventTitle *string
}
