package handlers

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	Tables       *TableHandler
	Reservations *ReservationHandler
	Storage      *StorageHandler
	Health       *HealthHandler
}
