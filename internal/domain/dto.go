package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps paginated list results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// FreightMapDTO is the API representation of a freight map row
type FreightMapDTO struct {
	ID          uuid.UUID   `json:"id"`
	MapNumber   string      `json:"mapNumber"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	TotalKm     int         `json:"totalKm"`
	Weight      float64     `json:"weight"`
	TruckType   string      `json:"truckType,omitempty"`
	LoadingMode LoadingMode `json:"loadingMode"`
	LoadingDate time.Time   `json:"loadingDate"`
	RouteInfo   string      `json:"routeInfo,omitempty"`
	MapImage    string      `json:"mapImage,omitempty"`

	MapValue                  float64            `json:"mapValue"`
	SelectedCarrier           string             `json:"selectedCarrier"`
	CarrierProposals          CarrierProposalMap `json:"carrierProposals"`
	FinalValue                *float64           `json:"finalValue,omitempty"`
	UserCounterProposal       *float64           `json:"userCounterProposal,omitempty"`
	SelectedCarrierForCounter string             `json:"selectedCarrierForCounter,omitempty"`

	Status         FreightStatus `json:"status"`
	ContractedAt   *time.Time    `json:"contractedAt,omitempty"`
	RejectedReason string        `json:"rejectedReason,omitempty"`

	EditObservations        EditObservationList `json:"editObservations"`
	Justification           string              `json:"justification,omitempty"`
	FinalizationObservation string              `json:"finalizationObservation,omitempty"`

	InvoiceURLs InvoiceList           `json:"invoiceUrls"`
	Managers    ManagerAllocationList `json:"managers,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FreightMapGroupDTO is one map number group: the competing carrier rows for
// a single logical shipment
type FreightMapGroupDTO struct {
	MapNumber string          `json:"mapNumber"`
	Maps      []FreightMapDTO `json:"maps"`
	Latest    time.Time       `json:"latestCreatedAt"`
}

// LowestBidDTO identifies the lowest proposal within a map number group
type LowestBidDTO struct {
	Carrier string  `json:"carrier"`
	Value   float64 `json:"value"`
}

// ManagerAllocationInput mirrors ManagerAllocation for request payloads
type ManagerAllocationInput struct {
	Gerente string  `json:"gerente" validate:"required,max=200"`
	Valor   float64 `json:"valor" validate:"gte=0"`
}

// CreateFreightMapRequest creates one freight map row per listed carrier,
// all sharing the same map number
type CreateFreightMapRequest struct {
	MapNumber   string                   `json:"mapNumber" validate:"required,max=50"`
	Origin      string                   `json:"origin" validate:"required,max=200"`
	Destination string                   `json:"destination" validate:"required,max=200"`
	TotalKm     int                      `json:"totalKm" validate:"gte=0"`
	Weight      float64                  `json:"weight" validate:"required,gt=0"`
	TruckType   string                   `json:"truckType" validate:"max=100"`
	LoadingMode LoadingMode              `json:"loadingMode" validate:"required,oneof=paletizados bag granel bag_fracionado paletizados_fracionado"`
	LoadingDate time.Time                `json:"loadingDate" validate:"required"`
	RouteInfo   string                   `json:"routeInfo"`
	MapImage    string                   `json:"mapImage" validate:"omitempty,url"`
	MapValue    float64                  `json:"mapValue" validate:"required,gt=0"`
	Carriers    []string                 `json:"carriers" validate:"required,min=1,dive,required"`
	Managers    []ManagerAllocationInput `json:"managers" validate:"omitempty,dive"`
}

// UpdateFreightMapRequest edits a negotiating freight map. Changes to
// mapValue or selectedCarrier require a non-empty observation (edit guard).
type UpdateFreightMapRequest struct {
	Origin          *string                  `json:"origin" validate:"omitempty,max=200"`
	Destination     *string                  `json:"destination" validate:"omitempty,max=200"`
	TotalKm         *int                     `json:"totalKm" validate:"omitempty,gte=0"`
	Weight          *float64                 `json:"weight" validate:"omitempty,gt=0"`
	TruckType       *string                  `json:"truckType" validate:"omitempty,max=100"`
	LoadingMode     *LoadingMode             `json:"loadingMode" validate:"omitempty,oneof=paletizados bag granel bag_fracionado paletizados_fracionado"`
	LoadingDate     *time.Time               `json:"loadingDate"`
	RouteInfo       *string                  `json:"routeInfo"`
	MapImage        *string                  `json:"mapImage" validate:"omitempty,url"`
	MapValue        *float64                 `json:"mapValue" validate:"omitempty,gt=0"`
	SelectedCarrier *string                  `json:"selectedCarrier" validate:"omitempty,max=200"`
	Managers        []ManagerAllocationInput `json:"managers" validate:"omitempty,dive"`
	Observation     string                   `json:"observation"`
}

// UpdateContractedFreightRequest edits a contracted freight. Same contract as
// UpdateFreightMapRequest, with finalValue additionally guarded.
type UpdateContractedFreightRequest struct {
	RouteInfo       *string                  `json:"routeInfo"`
	MapValue        *float64                 `json:"mapValue" validate:"omitempty,gt=0"`
	FinalValue      *float64                 `json:"finalValue" validate:"omitempty,gt=0"`
	SelectedCarrier *string                  `json:"selectedCarrier" validate:"omitempty,max=200"`
	Managers        []ManagerAllocationInput `json:"managers" validate:"omitempty,dive"`
	Observation     string                   `json:"observation"`
}

// SubmitProposalRequest is a carrier's price proposal for a freight map
type SubmitProposalRequest struct {
	Value float64 `json:"value" validate:"required,gt=0"`
}

// FinalizeFreightRequest contracts the selected carrier at the given value.
// Justification is mandatory (min 10 chars) when the carrier is not the
// group's lowest bidder.
type FinalizeFreightRequest struct {
	Value                   float64 `json:"value" validate:"required,gt=0"`
	Justification           string  `json:"justification" validate:"omitempty,min=10"`
	FinalizationObservation string  `json:"finalizationObservation"`
}

// RejectFreightRequest rejects a negotiating freight map
type RejectFreightRequest struct {
	Reason string `json:"reason"`
}

// ReopenFreightRequest reverts a contracted freight to negotiating
type ReopenFreightRequest struct {
	Justification string `json:"justification" validate:"required,min=10"`
}

// CarrierDTO is the API representation of a carrier
type CarrierDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Modalities []string  `json:"modalities"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateCarrierRequest creates a carrier
type CreateCarrierRequest struct {
	Name       string   `json:"name" validate:"required,max=200"`
	Modalities []string `json:"modalities" validate:"required,min=1,dive,oneof=paletizados bag"`
	Active     *bool    `json:"active"`
}

// UpdateCarrierRequest updates a carrier
type UpdateCarrierRequest struct {
	Name       *string  `json:"name" validate:"omitempty,max=200"`
	Modalities []string `json:"modalities" validate:"omitempty,min=1,dive,oneof=paletizados bag"`
	Active     *bool    `json:"active"`
}

// TruckTypeDTO is the API representation of a truck type
type TruckTypeDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Capacity float64   `json:"capacity"`
	BaseRate float64   `json:"baseRate"`
	Modality string    `json:"modality,omitempty"`
}

// CreateTruckTypeRequest creates a truck type
type CreateTruckTypeRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Capacity float64 `json:"capacity" validate:"required,gt=0"`
	BaseRate float64 `json:"baseRate" validate:"gte=0"`
	Modality string  `json:"modality" validate:"omitempty,oneof=paletizados bag"`
}

// UpdateTruckTypeRequest updates a truck type
type UpdateTruckTypeRequest struct {
	Name     *string  `json:"name" validate:"omitempty,max=100"`
	Capacity *float64 `json:"capacity" validate:"omitempty,gt=0"`
	BaseRate *float64 `json:"baseRate" validate:"omitempty,gte=0"`
	Modality *string  `json:"modality" validate:"omitempty,oneof=paletizados bag"`
}

// UserDTO is the API representation of a user (never exposes the hash)
type UserDTO struct {
	ID                    uuid.UUID `json:"id"`
	FullName              string    `json:"fullName"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	UserType              UserType  `json:"userType"`
	CarrierName           string    `json:"carrierName,omitempty"`
	Active                bool      `json:"active"`
	RequirePasswordChange bool      `json:"requirePasswordChange"`
	CreatedAt             time.Time `json:"createdAt"`
}

// CreateUserRequest creates a user. CarrierName is required iff the user
// type is carrier; the service enforces that pairing.
type CreateUserRequest struct {
	FullName              string   `json:"fullName" validate:"required,max=200"`
	Username              string   `json:"username" validate:"required,max=100"`
	Email                 string   `json:"email" validate:"required,email"`
	Password              string   `json:"password" validate:"required,min=8"`
	UserType              UserType `json:"userType" validate:"required,oneof=admin user carrier"`
	CarrierName           string   `json:"carrierName" validate:"omitempty,max=200"`
	RequirePasswordChange bool     `json:"requirePasswordChange"`
}

// UpdateUserRequest updates a user
type UpdateUserRequest struct {
	FullName    *string   `json:"fullName" validate:"omitempty,max=200"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	UserType    *UserType `json:"userType" validate:"omitempty,oneof=admin user carrier"`
	CarrierName *string   `json:"carrierName" validate:"omitempty,max=200"`
	Active      *bool     `json:"active"`
}

// LoginRequest authenticates a user
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Token                 string  `json:"token"`
	User                  UserDTO `json:"user"`
	RequirePasswordChange bool    `json:"requirePasswordChange"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// NotificationDTO is the API representation of an in-app notification
type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// UnreadCountDTO carries the unread notification count for polling clients
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

// RouteLookupDTO is the routing collaborator's answer for a city pair
type RouteLookupDTO struct {
	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes float64 `json:"durationMinutes"`
}
