package models

// Event names broadcast to real-time listeners. Delivery is best effort and
// never authoritative.
const (
	EventTableCreated             = "tableCreated"
	EventTableUpdated             = "tableUpdated"
	EventTableStatusChanged       = "tableStatusChanged"
	EventTableDeleted             = "tableDeleted"
	EventTableTransferred         = "tableTransferred"
	EventReservationCreated       = "reservationCreated"
	EventReservationStatusChanged = "reservationStatusChanged"
	EventReservationDeleted       = "reservationDeleted"
)

// TableStatusChangedEvent is published on every status-changing table
// operation, alongside the generic tableUpdated payload.
type TableStatusChangedEvent struct {
	TableID     string      `json:"tableId"`
	TableNumber string      `json:"tableNumber"`
	Status      TableStatus `json:"status"`
}

// TableDeletedEvent identifies a removed table.
type TableDeletedEvent struct {
	TableID string `json:"tableId"`
}

// TableTransferredEvent records an assignment moving between tables.
type TableTransferredEvent struct {
	FromTableID string `json:"fromTableId"`
	ToTableID   string `json:"toTableId"`
	Reason      string `json:"reason,omitempty"`
}

// ReservationStatusChangedEvent is published after a reservation status
// transition has been persisted.
type ReservationStatusChangedEvent struct {
	ID     string            `json:"id"`
	Status ReservationStatus `json:"status"`
}

// ReservationDeletedEvent identifies a removed reservation.
type ReservationDeletedEvent struct {
	ID   string `json:"id"`
	Kind Kind   `json:"typeOfReservation"`
}

// Actor is the resolved identity attached to each authenticated request.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"` // admin or user
}
