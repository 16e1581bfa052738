// Package domain contains the core data types for the laundry dispatch engine.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (routing, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceStatus is the lifecycle state of a laundry service.
// The route engine performs exactly two transitions:
// PENDING_PICKUP → ASSIGNED_TO_ROUTE and IN_PROCESS → READY_FOR_DELIVERY.
// Every other state makes a service ineligible for route generation.
type ServiceStatus string

const (
	StatusPendingPickup    ServiceStatus = "PENDING_PICKUP"
	StatusAssignedToRoute  ServiceStatus = "ASSIGNED_TO_ROUTE"
	StatusPickedUp         ServiceStatus = "PICKED_UP"
	StatusLabeled          ServiceStatus = "LABELED"
	StatusInProcess        ServiceStatus = "IN_PROCESS"
	StatusReadyForDelivery ServiceStatus = "READY_FOR_DELIVERY"
	StatusPartialDelivery  ServiceStatus = "PARTIAL_DELIVERY"
	StatusCompleted        ServiceStatus = "COMPLETED"
	StatusCancelled        ServiceStatus = "CANCELLED"
)

// ServicePriority is the priority tier of a service. HIGH priority services
// get individual route stops; MEDIUM and NORMAL are grouped per hotel.
type ServicePriority string

const (
	PriorityHigh   ServicePriority = "HIGH"
	PriorityMedium ServicePriority = "MEDIUM"
	PriorityNormal ServicePriority = "NORMAL"
)

// ServiceKind distinguishes what the courier does at the hotel for a service.
// It is derived from the service status, never stored.
type ServiceKind string

const (
	KindPickup   ServiceKind = "pickup"
	KindDelivery ServiceKind = "delivery"
)

// Service is one guest's unit of laundry work at one hotel.
// PickupCourierID / DeliveryCourierID are nil until a route claims the
// service; a non-nil reference means "currently claimed by a route".
type Service struct {
	ID                  uuid.UUID
	HotelID             uuid.UUID
	GuestName           string
	RoomNumber          string
	BagCount            int
	Priority            ServicePriority
	Status              ServiceStatus
	PickupCourierID     *uuid.UUID
	DeliveryCourierID   *uuid.UUID
	EstimatedPickupAt   time.Time
	EstimatedDeliveryAt time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Kind derives the service kind from its status: a service waiting for pickup
// is pickup work, a service in process is delivery work. Only services in one
// of these two states ever reach the engine.
func (s Service) Kind() ServiceKind {
	if s.Status == StatusPendingPickup {
		return KindPickup
	}
	return KindDelivery
}
