package request

import (
	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id" binding:"required"`
}
