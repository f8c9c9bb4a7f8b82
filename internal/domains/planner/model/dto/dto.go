package dto

import (
	bookingDto "labplanner/internal/domains/booking/model/dto"
	equipmentDto "labplanner/internal/domains/equipment/model/dto"
	projectDto "labplanner/internal/domains/project/model/dto"
)

// DataResponse is everything the planner board renders in one payload.
type DataResponse struct {
	Equipment []equipmentDto.EquipmentResponse `json:"equipment"`
	Bookings  []bookingDto.BookingResponse     `json:"bookings"`
	Projects  []projectDto.ProjectResponse     `json:"projects"`
}
