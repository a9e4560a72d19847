// internal/discovery/dto.go
package discovery

// DTOs for API requests/responses

type RecordInteractionDTO struct {
	TargetID int64  `json:"target_id" validate:"required,gt=0"`
	Action   string `json:"action" validate:"required,oneof=like pass super_like"`
}

type MatchesResponse struct {
	Matches []*Match `json:"matches"`
	Count   int      `json:"count"`
}
