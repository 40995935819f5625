package models

import (
	"fmt"
	"time"
)

// Kind is the closed discriminator selecting which reservation variant a
// request concerns. Unknown kinds are rejected before any storage access.
type Kind string

const (
	KindAccommodation Kind = "accommodation"
	KindRestaurant    Kind = "restaurant"
	KindMeeting       Kind = "meeting"
)

// Kinds lists every supported reservation kind.
func Kinds() []Kind { return []Kind{KindAccommodation, KindRestaurant, KindMeeting} }

// ParseKind validates and normalises a kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAccommodation, KindRestaurant, KindMeeting:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown reservation kind %q", s)
}

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationSeated    ReservationStatus = "seated"
	ReservationNoShow    ReservationStatus = "no-show"
)

// ValidReservationStatus reports whether status is accepted for the given
// kind. Seated and no-show exist only for restaurant reservations.
func ValidReservationStatus(kind Kind, status ReservationStatus) bool {
	switch status {
	case ReservationPending, ReservationConfirmed, ReservationCancelled:
		return true
	case ReservationSeated, ReservationNoShow:
		return kind == KindRestaurant
	}
	return false
}

// GuestInfo identifies the guest behind a reservation.
type GuestInfo struct {
	Name        string `bson:"name" json:"name"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	Email       string `bson:"email" json:"email"`
}

// RoomOccupancy describes one requested room on an accommodation booking.
type RoomOccupancy struct {
	Adults   int `bson:"adults" json:"adults"`
	Children int `bson:"children" json:"children"`
}

// MeetingEventType is the sub-type of a meeting/wedding reservation.
type MeetingEventType string

var meetingEventTypes = map[MeetingEventType]bool{
	"Marriage": true, "Reception": true, "Birthday": true,
	"Office Meeting": true, "Other": true,
}

// ValidMeetingEventType reports whether t is a known event sub-type.
func ValidMeetingEventType(t MeetingEventType) bool { return meetingEventTypes[t] }

// TimeSlot is the dining service window of a restaurant reservation.
type TimeSlot string

var timeSlots = map[TimeSlot]bool{"Breakfast": true, "Lunch": true, "Dinner": true}

// ValidTimeSlot reports whether s is a known dining slot.
func ValidTimeSlot(s TimeSlot) bool { return timeSlots[s] }

// Reservation is a booking of any of the three kinds. Variant-specific fields
// are populated only for their kind and omitted from storage otherwise.
type Reservation struct {
	ID              string            `bson:"id" json:"id"`
	Kind            Kind              `bson:"typeOfReservation" json:"typeOfReservation"`
	GuestInfo       GuestInfo         `bson:"guestInfo" json:"guestInfo"`
	Status          ReservationStatus `bson:"status" json:"status"`
	SpecialRequests string            `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	AgreeToTnC      bool              `bson:"agreeToTnC" json:"agreeToTnC"`

	// Accommodation.
	ArrivalDate   *time.Time      `bson:"arrivalDate,omitempty" json:"arrivalDate,omitempty"`
	DepartureDate *time.Time      `bson:"departureDate,omitempty" json:"departureDate,omitempty"`
	Rooms         []RoomOccupancy `bson:"rooms,omitempty" json:"rooms,omitempty"`
	TotalAdults   int             `bson:"totalAdults,omitempty" json:"totalAdults,omitempty"`
	TotalChildren int             `bson:"totalChildren,omitempty" json:"totalChildren,omitempty"`

	// Restaurant.
	NoOfDiners int        `bson:"noOfDiners,omitempty" json:"noOfDiners,omitempty"`
	Date       *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	TimeSlot   TimeSlot   `bson:"timeSlot,omitempty" json:"timeSlot,omitempty"`

	// Meeting / wedding.
	EventType          MeetingEventType `bson:"eventType,omitempty" json:"eventType,omitempty"`
	ReservationDate    *time.Time       `bson:"reservationDate,omitempty" json:"reservationDate,omitempty"`
	ReservationEndDate *time.Time       `bson:"reservationEndDate,omitempty" json:"reservationEndDate,omitempty"`
	NumberOfRooms      int              `bson:"numberOfRooms,omitempty" json:"numberOfRooms,omitempty"`
	NumberOfGuests     int              `bson:"numberOfGuests,omitempty" json:"numberOfGuests,omitempty"`
	AdditionalDetails  string           `bson:"additionalDetails,omitempty" json:"additionalDetails,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PrimaryDate returns the reservation's main date field for its kind.
func (r *Reservation) PrimaryDate() *time.Time {
	switch r.Kind {
	case KindAccommodation:
		return r.ArrivalDate
	case KindRestaurant:
		return r.Date
	case KindMeeting:
		return r.ReservationDate
	}
	return nil
}

// ReservationFilter narrows reservation listings. Search matches guest name,
// email and phone number case-insensitively; the date range applies to the
// kind's primary date field.
type ReservationFilter struct {
	Status    ReservationStatus
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string // date_desc (default), date_asc, name
	Page      int
	Limit     int
}

// ReservationPage is one page of a filtered listing.
type ReservationPage struct {
	Items      []Reservation `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}
