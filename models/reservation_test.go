package models

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"accommodation", "restaurant", "meeting"} {
		if _, err := ParseKind(valid); err != nil {
			t.Errorf("ParseKind(%q) failed: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "spa", "Restaurant", "tables"} {
		if _, err := ParseKind(invalid); err == nil {
			t.Errorf("ParseKind(%q) accepted, want error", invalid)
		}
	}
}

func TestValidReservationStatusPerKind(t *testing.T) {
	cases := []struct {
		kind   Kind
		status ReservationStatus
		want   bool
	}{
		{KindAccommodation, ReservationPending, true},
		{KindAccommodation, ReservationConfirmed, true},
		{KindAccommodation, ReservationSeated, false},
		{KindAccommodation, ReservationNoShow, false},
		{KindMeeting, ReservationCancelled, true},
		{KindMeeting, ReservationSeated, false},
		{KindRestaurant, ReservationSeated, true},
		{KindRestaurant, ReservationNoShow, true},
		{KindRestaurant, ReservationStatus("waitlisted"), false},
	}
	for _, tc := range cases {
		if got := ValidReservationStatus(tc.kind, tc.status); got != tc.want {
			t.Errorf("ValidReservationStatus(%s, %s) = %v, want %v", tc.kind, tc.status, got, tc.want)
		}
	}
}

func TestPrimaryDate(t *testing.T) {
	arrival := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	dinner := time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)
	event := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		res  Reservation
		want *time.Time
	}{
		{"accommodation", Reservation{Kind: KindAccommodation, ArrivalDate: &arrival, Date: &dinner}, &arrival},
		{"restaurant", Reservation{Kind: KindRestaurant, Date: &dinner}, &dinner},
		{"meeting", Reservation{Kind: KindMeeting, ReservationDate: &event}, &event},
		{"unknown", Reservation{Kind: "spa", Date: &dinner}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.res.PrimaryDate()
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("PrimaryDate() = %v, want %v", got, tc.want)
			}
			if got != nil && !got.Equal(*tc.want) {
				t.Errorf("PrimaryDate() = %v, want %v", got, tc.want)
			}
		})
	}
}
