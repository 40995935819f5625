package reservation

import (
	"strings"

	"silverarcade/models"
	"silverarcade/utils"
)

// validate enforces the per-kind required fields before any storage access.
func validate(res *models.Reservation) error {
	if res.GuestInfo.Name == "" {
		return utils.NewValidationError("guest name is required")
	}
	if res.GuestInfo.PhoneNumber == "" {
		return utils.NewValidationError("guest phone number is required")
	}

	switch res.Kind {
	case models.KindAccommodation:
		return validateAccommodation(res)
	case models.KindRestaurant:
		return validateRestaurant(res)
	case models.KindMeeting:
		return validateMeeting(res)
	}
	return utils.NewValidationError("unknown reservation kind %q", res.Kind)
}

func validateAccommodation(res *models.Reservation) error {
	if res.ArrivalDate == nil || res.DepartureDate == nil {
		return utils.NewValidationError("arrivalDate and departureDate are required")
	}
	if !res.DepartureDate.After(*res.ArrivalDate) {
		return utils.NewValidationError("departureDate must be after arrivalDate")
	}
	if len(res.Rooms) == 0 {
		return utils.NewValidationError("at least one room is required")
	}
	adults, children := 0, 0
	for i, room := range res.Rooms {
		if room.Adults < 1 {
			return utils.NewValidationError("room %d must have at least one adult", i+1)
		}
		adults += room.Adults
		children += room.Children
	}
	res.TotalAdults = adults
	res.TotalChildren = children
	return nil
}

func validateRestaurant(res *models.Reservation) error {
	if !strings.Contains(res.GuestInfo.Email, "@") {
		return utils.NewValidationError("a valid guest email is required")
	}
	if res.NoOfDiners < 1 {
		return utils.NewValidationError("noOfDiners must be at least 1")
	}
	if res.Date == nil {
		return utils.NewValidationError("date is required")
	}
	if !models.ValidTimeSlot(res.TimeSlot) {
		return utils.NewValidationError("timeSlot must be Breakfast, Lunch or Dinner")
	}
	return nil
}

func validateMeeting(res *models.Reservation) error {
	if !models.ValidMeetingEventType(res.EventType) {
		return utils.NewValidationError("unknown eventType %q", res.EventType)
	}
	if res.ReservationDate == nil || res.ReservationEndDate == nil {
		return utils.NewValidationError("reservationDate and reservationEndDate are required")
	}
	if res.ReservationEndDate.Before(*res.ReservationDate) {
		return utils.NewValidationError("reservationEndDate must not precede reservationDate")
	}
	if res.NumberOfGuests < 1 {
		return utils.NewValidationError("numberOfGuests must be at least 1")
	}
	return nil
}
