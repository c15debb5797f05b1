package mapper

import (
	"github.com/logfrete/freight-api/internal/domain"
)

// ToFreightMapDTO converts FreightMap to FreightMapDTO
func ToFreightMapDTO(m *domain.FreightMap) domain.FreightMapDTO {
	proposals := m.CarrierProposals
	if proposals == nil {
		proposals = domain.CarrierProposalMap{}
	}
	observations := m.EditObservations
	if observations == nil {
		observations = domain.EditObservationList{}
	}
	invoices := m.InvoiceURLs
	if invoices == nil {
		invoices = domain.InvoiceList{}
	}

	return domain.FreightMapDTO{
		ID:          m.ID,
		MapNumber:   m.MapNumber,
		Origin:      m.Origin,
		Destination: m.Destination,
		TotalKm:     m.TotalKm,
		Weight:      m.Weight,
		TruckType:   m.TruckType,
		LoadingMode: m.LoadingMode,
		LoadingDate: m.LoadingDate,
		RouteInfo:   m.RouteInfo,
		MapImage:    m.MapImage,

		MapValue:                  m.MapValue,
		SelectedCarrier:           m.SelectedCarrier,
		CarrierProposals:          proposals,
		FinalValue:                m.FinalValue,
		UserCounterProposal:       m.UserCounterProposal,
		SelectedCarrierForCounter: m.SelectedCarrierForCounter,

		Status:         m.Status,
		ContractedAt:   m.ContractedAt,
		RejectedReason: m.RejectedReason,

		EditObservations:        observations,
		Justification:           m.Justification,
		FinalizationObservation: m.FinalizationObservation,

		InvoiceURLs: invoices,
		Managers:    m.Managers,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToFreightMapDTOs converts a slice of FreightMap to DTOs
func ToFreightMapDTOs(maps []domain.FreightMap) []domain.FreightMapDTO {
	dtos := make([]domain.FreightMapDTO, len(maps))
	for i := range maps {
		dtos[i] = ToFreightMapDTO(&maps[i])
	}
	return dtos
}

// ToCarrierDTO converts Carrier to CarrierDTO
func ToCarrierDTO(carrier *domain.Carrier) domain.CarrierDTO {
	modalities := carrier.Modalities
	if modalities == nil {
		modalities = []string{}
	}
	return domain.CarrierDTO{
		ID:         carrier.ID,
		Name:       carrier.Name,
		Modalities: modalities,
		Active:     carrier.Active,
		CreatedAt:  carrier.CreatedAt,
		UpdatedAt:  carrier.UpdatedAt,
	}
}

// ToTruckTypeDTO converts TruckType to TruckTypeDTO
func ToTruckTypeDTO(truckType *domain.TruckType) domain.TruckTypeDTO {
	return domain.TruckTypeDTO{
		ID:       truckType.ID,
		Name:     truckType.Name,
		Capacity: truckType.Capacity,
		BaseRate: truckType.BaseRate,
		Modality: truckType.Modality,
	}
}

// ToUserDTO converts User to UserDTO; the password hash never leaves the service layer
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:                    user.ID,
		FullName:              user.FullName,
		Username:              user.Username,
		Email:                 user.Email,
		UserType:              user.UserType,
		CarrierName:           user.CarrierName,
		Active:                user.Active,
		RequirePasswordChange: user.RequirePasswordChange,
		CreatedAt:             user.CreatedAt,
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(n *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		EntityID:   n.EntityID,
		EntityType: n.EntityType,
		CreatedAt:  n.CreatedAt,
	}
}
