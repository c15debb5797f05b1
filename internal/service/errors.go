package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMapNotFound is returned when a freight map is not found
	ErrMapNotFound = errors.New("freight map not found")

	// ErrMapNotNegotiating is returned when a lifecycle operation requires a
	// negotiating freight map
	ErrMapNotNegotiating = errors.New("freight map is not in negotiation")

	// ErrMapNotContracted is returned when an operation requires a contracted
	// freight map
	ErrMapNotContracted = errors.New("freight map is not contracted")

	// ErrProposalExceedsMapValue is returned when a carrier proposal is above
	// the map reference value
	ErrProposalExceedsMapValue = errors.New("proposal exceeds the map value")

	// ErrProposalAlreadySubmitted is returned when the carrier already has a
	// recorded proposal on the row
	ErrProposalAlreadySubmitted = errors.New("proposal already submitted for this carrier")

	// ErrNoProposalSubmitted is returned when finalization requires a proposal
	// that was never submitted
	ErrNoProposalSubmitted = errors.New("carrier has not submitted a proposal")

	// ErrFinalValueExceedsProposal is returned when the contract value is
	// above the carrier's own proposal
	ErrFinalValueExceedsProposal = errors.New("final value exceeds the carrier proposal")

	// ErrJustificationRequired is returned when contracting above the lowest
	// bid without an adequate justification
	ErrJustificationRequired = errors.New("justification required when not accepting the lowest bid")

	// ErrGroupAlreadyContracted is returned when another row of the same map
	// number group is already contracted
	ErrGroupAlreadyContracted = errors.New("another carrier is already contracted for this map")

	// ErrObservationRequired is returned when a guarded edit is missing its
	// observation
	ErrObservationRequired = errors.New("observation required for this change")

	// ErrCannotDeleteContracted is returned when deleting a contracted row
	ErrCannotDeleteContracted = errors.New("contracted freight maps cannot be deleted")

	// ErrCarrierNotFound is returned when a carrier is not found
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrTruckTypeNotFound is returned when a truck type is not found
	ErrTruckTypeNotFound = errors.New("truck type not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrCarrierNameRequired is returned when creating a carrier user without
	// a carrier binding
	ErrCarrierNameRequired = errors.New("carrier users must be bound to a carrier")
)
