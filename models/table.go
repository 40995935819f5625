package models

import "time"

// TableStatus is the lifecycle state of a physical table.
type TableStatus string

const (
	TableAvailable    TableStatus = "available"
	TableReserved     TableStatus = "reserved"
	TableOccupied     TableStatus = "occupied"
	TableDirty        TableStatus = "dirty"
	TableMaintenance  TableStatus = "maintenance"
	TableOutOfService TableStatus = "out_of_service"
)

var tableStatuses = map[TableStatus]bool{
	TableAvailable:    true,
	TableReserved:     true,
	TableOccupied:     true,
	TableDirty:        true,
	TableMaintenance:  true,
	TableOutOfService: true,
}

// ValidTableStatus reports whether s is one of the six table states.
func ValidTableStatus(s TableStatus) bool { return tableStatuses[s] }

// TableSection is the area of the venue a table belongs to.
type TableSection string

const (
	SectionRestaurant TableSection = "restaurant"
	SectionBar        TableSection = "bar"
	SectionOutdoor    TableSection = "outdoor"
	SectionPrivate    TableSection = "private"
	SectionPatio      TableSection = "patio"
	SectionRooftop    TableSection = "rooftop"
	SectionVIP        TableSection = "vip"
)

var tableSections = map[TableSection]bool{
	SectionRestaurant: true,
	SectionBar:        true,
	SectionOutdoor:    true,
	SectionPrivate:    true,
	SectionPatio:      true,
	SectionRooftop:    true,
	SectionVIP:        true,
}

// ValidTableSection reports whether s is a known venue section.
func ValidTableSection(s TableSection) bool { return tableSections[s] }

// TableFeature is a physical attribute tag on a table.
type TableFeature string

var tableFeatures = map[TableFeature]bool{
	"wheelchair": true, "highchair": true, "window": true, "booth": true,
	"private": true, "tv": true, "fireplace": true, "corner": true,
	"near_kitchen": true, "romantic": true, "family_friendly": true,
}

// ValidTableFeature reports whether f is a known feature tag.
func ValidTableFeature(f TableFeature) bool { return tableFeatures[f] }

// Coordinates locates a table on the floor plan.
type Coordinates struct {
	X float64 `bson:"x" json:"x"`
	Y float64 `bson:"y" json:"y"`
}

// CurrentReservation is the weak reference a table holds to at most one
// active reservation. All fields are empty when the table is available.
type CurrentReservation struct {
	ReservationID   string `bson:"reservationId,omitempty" json:"reservationId,omitempty"`
	ReservationType Kind   `bson:"reservationType,omitempty" json:"reservationType,omitempty"`
	GuestName       string `bson:"guestName,omitempty" json:"guestName,omitempty"`
	AssignedBy      string `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
}

// Active reports whether the reference points at a reservation.
func (cr CurrentReservation) Active() bool { return cr.ReservationID != "" }

// AssignmentRecord is one append-only audit entry, created each time a table
// transitions away from an active assignment.
type AssignmentRecord struct {
	ReservationID   string     `bson:"reservationId,omitempty" json:"reservationId,omitempty"`
	ReservationType Kind       `bson:"reservationType,omitempty" json:"reservationType,omitempty"`
	GuestName       string     `bson:"guestName,omitempty" json:"guestName,omitempty"`
	AssignedAt      time.Time  `bson:"assignedAt" json:"assignedAt"`
	FreedAt         *time.Time `bson:"freedAt,omitempty" json:"freedAt,omitempty"`
	AssignedBy      string     `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Table is a physical seating unit tracked by section, capacity and a status
// state machine.
type Table struct {
	ID                  string             `bson:"id" json:"id"`
	TableNumber         string             `bson:"tableNumber" json:"tableNumber"`
	Section             TableSection       `bson:"section" json:"section"`
	Capacity            int                `bson:"capacity" json:"capacity"`
	Status              TableStatus        `bson:"status" json:"status"`
	Features            []TableFeature     `bson:"features,omitempty" json:"features,omitempty"`
	LocationDescription string             `bson:"locationDescription,omitempty" json:"locationDescription,omitempty"`
	Floor               int                `bson:"floor" json:"floor"`
	Coordinates         *Coordinates       `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Priority            int                `bson:"priority" json:"priority"`
	IsActive            bool               `bson:"isActive" json:"isActive"`
	SpecialNotes        string             `bson:"specialNotes,omitempty" json:"specialNotes,omitempty"`
	CurrentReservation  CurrentReservation `bson:"currentReservation" json:"currentReservation"`
	LastAssignedAt      *time.Time         `bson:"lastAssignedAt,omitempty" json:"lastAssignedAt,omitempty"`
	LastOccupiedAt      *time.Time         `bson:"lastOccupiedAt,omitempty" json:"lastOccupiedAt,omitempty"`
	LastFreedAt         *time.Time         `bson:"lastFreedAt,omitempty" json:"lastFreedAt,omitempty"`
	AssignmentHistory   []AssignmentRecord `bson:"assignmentHistory" json:"assignmentHistory"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasActiveAssignment reports whether the table currently serves a reservation.
func (t *Table) HasActiveAssignment() bool {
	return t.Status == TableReserved || t.Status == TableOccupied || t.CurrentReservation.Active()
}

// TableFilter narrows table listings.
type TableFilter struct {
	Section  TableSection
	Status   TableStatus
	Capacity *int
}

// TablePatch updates non-lifecycle metadata fields. Nil fields are left
// untouched. Status is accepted here only for the legacy generic update
// endpoint; a reserved target is still checked against the state machine.
type TablePatch struct {
	TableNumber         *string         `json:"tableNumber,omitempty"`
	Section             *TableSection   `json:"section,omitempty"`
	Capacity            *int            `json:"capacity,omitempty"`
	Status              *TableStatus    `json:"status,omitempty"`
	Features            *[]TableFeature `json:"features,omitempty"`
	LocationDescription *string         `json:"locationDescription,omitempty"`
	Floor               *int            `json:"floor,omitempty"`
	Coordinates         *Coordinates    `json:"coordinates,omitempty"`
	Priority            *int            `json:"priority,omitempty"`
	IsActive            *bool           `json:"isActive,omitempty"`
	SpecialNotes        *string         `json:"specialNotes,omitempty"`
}

// TransitionContext carries the assignment details that accompany a table
// status transition.
type TransitionContext struct {
	ReservationID   string     `json:"reservationId,omitempty"`
	ReservationType Kind       `json:"reservationType,omitempty"`
	GuestName       string     `json:"guestName,omitempty"`
	AssignedBy      string     `json:"assignedBy,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`
}
