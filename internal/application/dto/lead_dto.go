package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLeadRequest body para POST /api/leads. OwnerID vacío = el creador.
type CreateLeadRequest struct {
	Name           string          `json:"name"`
	ContactEmail   string          `json:"contact_email,omitempty"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	OwnerID        string          `json:"owner_id,omitempty"`
}

// MoveLeadStageRequest body para PUT /api/leads/:id/stage. Reason aplica a LOST.
type MoveLeadStageRequest struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason,omitempty"`
}

// LeadListRequest filtros de GET /api/leads.
type LeadListRequest struct {
	PageRequest
	OwnerID string `query:"owner_id"`
	Stage   string `query:"stage"`
}

// LeadResponse lead en respuestas.
type LeadResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ContactEmail   string          `json:"contact_email,omitempty"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Stage          string          `json:"stage"`
	NextStages     []string        `json:"next_stages"`
	OwnerID        string          `json:"owner_id"`
	CreatedBy      string          `json:"created_by"`
	LostReason     string          `json:"lost_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LeadListResponse lista paginada de leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
