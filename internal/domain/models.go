package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller did not provide one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// FreightStatus represents the negotiation state of a freight map
type FreightStatus string

const (
	FreightStatusNegotiating FreightStatus = "negotiating"
	FreightStatusContracted  FreightStatus = "contracted"
	FreightStatusRejected    FreightStatus = "rejected"
)

// IsValid checks if the FreightStatus is a valid enum value
func (fs FreightStatus) IsValid() bool {
	switch fs {
	case FreightStatusNegotiating, FreightStatusContracted, FreightStatusRejected:
		return true
	}
	return false
}

// LoadingMode represents how cargo is loaded onto the truck
type LoadingMode string

const (
	LoadingModePaletizados           LoadingMode = "paletizados"
	LoadingModeBag                   LoadingMode = "bag"
	LoadingModeGranel                LoadingMode = "granel"
	LoadingModeBagFracionado         LoadingMode = "bag_fracionado"
	LoadingModePaletizadosFracionado LoadingMode = "paletizados_fracionado"
)

// IsValid checks if the LoadingMode is a valid enum value
func (lm LoadingMode) IsValid() bool {
	switch lm {
	case LoadingModePaletizados, LoadingModeBag, LoadingModeGranel,
		LoadingModeBagFracionado, LoadingModePaletizadosFracionado:
		return true
	}
	return false
}

// CarrierProposalMap maps carrier name to proposed freight value.
// Stored as jsonb; inspected across sibling rows of a map number group to
// compute the group's lowest bid.
type CarrierProposalMap map[string]float64

// EditObservation is one immutable entry in a freight map's audit ledger.
// Timestamp marshals as RFC 3339, which is the format consumers expect.
type EditObservation struct {
	Observation string    `json:"observation"`
	User        string    `json:"user"`
	Timestamp   time.Time `json:"timestamp"`
	Details     string    `json:"details"`
}

// EditObservationList is the append-only audit ledger; entries are never
// mutated or reordered once appended.
type EditObservationList []EditObservation

// InvoiceAttachment is an invoice document attached to a contracted freight
type InvoiceAttachment struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy"`
}

// InvoiceList is the ordered list of invoice attachments
type InvoiceList []InvoiceAttachment

// ManagerAllocation is a cost-allocation row. The engine only round-trips
// these; the keys match the upstream payload ("gerente"/"valor").
type ManagerAllocation struct {
	Gerente string  `json:"gerente"`
	Valor   float64 `json:"valor"`
}

// ManagerAllocationList holds the manager cost split for a freight map
type ManagerAllocationList []ManagerAllocation

// FreightMap is one candidate carrier assignment for a shipment.
// Multiple rows deliberately share a MapNumber: each row negotiates with one
// carrier, and the group of rows represents the competing offers for a single
// logical shipment.
type FreightMap struct {
	BaseModel
	MapNumber   string      `gorm:"type:varchar(50);not null;index;column:map_number"`
	Origin      string      `gorm:"type:varchar(200);not null"`
	Destination string      `gorm:"type:varchar(200);not null"`
	TotalKm     int         `gorm:"not null;column:total_km"`
	Weight      float64     `gorm:"type:decimal(12,3);not null"`
	TruckType   string      `gorm:"type:varchar(100);column:truck_type"`
	LoadingMode LoadingMode `gorm:"type:varchar(50);not null;column:loading_mode"`
	LoadingDate time.Time   `gorm:"type:date;not null;column:loading_date"`
	RouteInfo   string      `gorm:"type:text;column:route_info"`
	MapImage    string      `gorm:"type:varchar(500);column:map_image"`

	MapValue                  float64            `gorm:"type:decimal(15,2);not null;column:map_value"`
	SelectedCarrier           string             `gorm:"type:varchar(200);not null;index;column:selected_carrier"`
	CarrierProposals          CarrierProposalMap `gorm:"type:jsonb;serializer:json;column:carrier_proposals"`
	FinalValue                *float64           `gorm:"type:decimal(15,2);column:final_value"`
	UserCounterProposal       *float64           `gorm:"type:decimal(15,2);column:user_counter_proposal"`
	SelectedCarrierForCounter string             `gorm:"type:varchar(200);column:selected_carrier_for_counter"`

	Status         FreightStatus `gorm:"type:varchar(50);not null;default:'negotiating';index"`
	ContractedAt   *time.Time    `gorm:"column:contracted_at"`
	RejectedReason string        `gorm:"type:varchar(500);column:rejected_reason"`

	EditObservations        EditObservationList `gorm:"type:jsonb;serializer:json;column:edit_observations"`
	Justification           string              `gorm:"type:text"`
	FinalizationObservation string              `gorm:"type:text;column:finalization_observation"`

	InvoiceURLs InvoiceList           `gorm:"type:jsonb;serializer:json;column:invoice_urls"`
	Managers    ManagerAllocationList `gorm:"type:jsonb;serializer:json"`
}

// OwnProposal returns the proposal recorded for this row's selected carrier
func (m *FreightMap) OwnProposal() (float64, bool) {
	if m.CarrierProposals == nil {
		return 0, false
	}
	v, ok := m.CarrierProposals[m.SelectedCarrier]
	return v, ok
}

// CarrierModality represents a loading modality a carrier operates
type CarrierModality string

const (
	CarrierModalityPaletizados CarrierModality = "paletizados"
	CarrierModalityBag         CarrierModality = "bag"
)

// Carrier represents a freight carrier company.
// Freight maps reference carriers by name, not by ID (denormalized by design).
type Carrier struct {
	BaseModel
	Name       string   `gorm:"type:varchar(200);not null;uniqueIndex"`
	Modalities []string `gorm:"type:jsonb;serializer:json"`
	// No column default: gorm would skip a false zero value on insert and
	// the row would come back active
	Active bool `gorm:"not null"`
}

// HasModality reports whether the carrier operates the given modality
func (c *Carrier) HasModality(modality CarrierModality) bool {
	for _, m := range c.Modalities {
		if m == string(modality) {
			return true
		}
	}
	return false
}

// TruckType is reference data describing a truck category
type TruckType struct {
	BaseModel
	Name     string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Capacity float64 `gorm:"type:decimal(12,3);not null"`
	BaseRate float64 `gorm:"type:decimal(15,2);not null;column:base_rate"`
	Modality string  `gorm:"type:varchar(50);index"`
}

// UserType represents the role of a user
type UserType string

const (
	UserTypeAdmin   UserType = "admin"
	UserTypeUser    UserType = "user"
	UserTypeCarrier UserType = "carrier"
)

// IsValid checks if the UserType is a valid enum value
func (ut UserType) IsValid() bool {
	switch ut {
	case UserTypeAdmin, UserTypeUser, UserTypeCarrier:
		return true
	}
	return false
}

// User represents a user in the system. Carrier users are bound to a carrier
// name and may only act on freight maps negotiating with that carrier.
type User struct {
	BaseModel
	FullName              string   `gorm:"type:varchar(200);not null;column:full_name"`
	Username              string   `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email                 string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash          string   `gorm:"type:varchar(255);not null;column:password_hash"`
	UserType              UserType `gorm:"type:varchar(50);not null;index;column:user_type"`
	CarrierName           string   `gorm:"type:varchar(200);index;column:carrier_name"`
	Active                bool     `gorm:"not null"`
	RequirePasswordChange bool     `gorm:"not null;default:false;column:require_password_change"`
}

// IsStaff reports whether the user may perform staff-only operations
func (u *User) IsStaff() bool {
	return u.UserType == UserTypeAdmin || u.UserType == UserTypeUser
}

// NotificationType represents the type of an in-app notification
type NotificationType string

const (
	NotificationTypeProposalReceived  NotificationType = "proposal_received"
	NotificationTypeFreightContracted NotificationType = "freight_contracted"
	NotificationTypeFreightRejected   NotificationType = "freight_rejected"
	NotificationTypeFreightReopened   NotificationType = "freight_reopened"
	NotificationTypeNegotiationStale  NotificationType = "negotiation_stale"
)

// Notification represents a user notification, polled by the UI
type Notification struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(50);not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Message    string    `gorm:"type:varchar(500);not null"`
	Read       bool      `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}
