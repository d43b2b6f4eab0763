package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/sse"
	"github.com/shopspring/decimal"
)

// ChangeEvent is the SSE payload for an attendance transition.
type ChangeEvent struct {
	AttendanceID  string           `json:"attendance_id"`
	WorkerID      string           `json:"worker_id"`
	EventID       string           `json:"event_id"`
	At            string           `json:"at"`
	WorkedMinutes *int             `json:"worked_minutes,omitempty"`
	PayAmount     *decimal.Decimal `json:"pay_amount,omitempty"`
}

// HubPublisher broadcasts transitions to admin streams subscribed to the event.
type HubPublisher struct {
	hub *sse.Hub
}

func NewHubPublisher(hub *sse.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

// PublishChange implements attendance.ChangePublisher.
func (p *HubPublisher) PublishChange(ctx context.Context, change attendance.Change) {
	p.hub.Publish(sse.Event{
		Topic: change.EventID,
		Name:  change.Kind,
		Data: ChangeEvent{
			AttendanceID:  change.AttendanceID,
			WorkerID:      change.WorkerID,
			EventID:       change.EventID,
			At:            change.At.UTC().Format(time.RFC3339),
			WorkedMinutes: change.WorkedMinutes,
			PayAmount:     change.PayAmount,
		},
	})
}
