package dto

// DecideRequest is the single-registration decision payload. Status carries
// the decision ("approved" or "rejected", case-insensitive), matching the
// legacy wire shape.
type DecideRequest struct {
	RegistrationID string `json:"registration_id" validate:"required"`
	Status         string `json:"status" validate:"required"`
}

// BulkDecideRequest applies one decision to a set of registrations.
type BulkDecideRequest struct {
	RegistrationIDs []string `json:"registration_ids" validate:"required,min=1"`
	Status          string   `json:"status" validate:"required"`
}

// DecisionOutcome reports the result for one registration id of a bulk
// decision. Exactly one of the success/failure shapes is populated.
type DecisionOutcome struct {
	RegistrationID string `json:"registration_id"`
	Applied        bool   `json:"applied"`
	Status         string `json:"status,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// BulkDecideResult is the per-item isolated result of a bulk decision.
type BulkDecideResult struct {
	Outcomes []DecisionOutcome `json:"outcomes"`
	Applied  int               `json:"applied"`
	Failed   int               `json:"failed"`
}
