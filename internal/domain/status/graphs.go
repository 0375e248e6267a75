package status

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// Task: COMPLETED y CANCELLED son terminales; reabrir no es una transición válida.
var Task = NewMachine("task", map[entity.TaskStatus][]entity.TaskStatus{
	entity.TaskStatusPending:    {entity.TaskStatusInProgress, entity.TaskStatusCancelled},
	entity.TaskStatusInProgress: {entity.TaskStatusPending, entity.TaskStatusCompleted, entity.TaskStatusCancelled},
	entity.TaskStatusCompleted:  {},
	entity.TaskStatusCancelled:  {},
})

// Expense: solo PENDING admite revisión.
var Expense = NewMachine("expense", map[entity.ExpenseStatus][]entity.ExpenseStatus{
	entity.ExpenseStatusPending:  {entity.ExpenseStatusApproved, entity.ExpenseStatusRejected},
	entity.ExpenseStatusApproved: {},
	entity.ExpenseStatusRejected: {},
})

// Lead: avance hacia cualquier etapa posterior del embudo y LOST desde toda etapa no terminal.
var Lead = NewMachine("lead", leadEdges())

func leadEdges() map[entity.LeadStage][]entity.LeadStage {
	pipeline := entity.LeadPipeline()
	edges := make(map[entity.LeadStage][]entity.LeadStage, len(pipeline)+1)
	for i, stage := range pipeline {
		if stage == entity.LeadStageWon {
			edges[stage] = nil
			continue
		}
		next := append([]entity.LeadStage{}, pipeline[i+1:]...)
		edges[stage] = append(next, entity.LeadStageLost)
	}
	edges[entity.LeadStageLost] = nil
	return edges
}

// Invoice cubre los cambios manuales de estado. PARTIAL y PAID los produce el ledger
// al aplicar pagos, nunca una transición manual.
var Invoice = NewMachine("invoice", map[entity.InvoiceStatus][]entity.InvoiceStatus{
	entity.InvoiceStatusDraft:     {entity.InvoiceStatusSent, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusSent:      {entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusPartial:   {entity.InvoiceStatusOverdue},
	entity.InvoiceStatusOverdue:   {entity.InvoiceStatusCancelled},
	entity.InvoiceStatusPaid:      {},
	entity.InvoiceStatusCancelled: {},
})
