package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadStage etapa de un lead en el embudo comercial.
type LeadStage string

// Etapas del embudo. El orden de avance es NEW < CONTACTED < QUALIFIED < PROPOSAL < WON;
// LOST es la salida desde cualquier etapa no terminal.
const (
	LeadStageNew       LeadStage = "NEW"
	LeadStageContacted LeadStage = "CONTACTED"
	LeadStageQualified LeadStage = "QUALIFIED"
	LeadStageProposal  LeadStage = "PROPOSAL"
	LeadStageWon       LeadStage = "WON"
	LeadStageLost      LeadStage = "LOST"
)

// LeadPipeline devuelve las etapas de avance en orden (sin LOST).
func LeadPipeline() []LeadStage {
	return []LeadStage{LeadStageNew, LeadStageContacted, LeadStageQualified, LeadStageProposal, LeadStageWon}
}

// Lead oportunidad comercial (CRM).
type Lead struct {
	ID             string
	CompanyID      string
	Name           string
	ContactEmail   string
	EstimatedValue decimal.Decimal
	Stage          LeadStage
	OwnerID        string
	CreatedBy      string
	LostReason     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
