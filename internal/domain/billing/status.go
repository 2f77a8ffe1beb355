// Package billing contiene las reglas puras de facturación: máquina de estados,
// cálculo de totales y numeración. No accede a persistencia.
package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// transitions tabla de transiciones legales. PAID y CANCELLED no tienen salida.
var transitions = map[entity.InvoiceStatus][]entity.InvoiceStatus{
	entity.InvoiceDraft:     {entity.InvoicePending, entity.InvoiceCancelled},
	entity.InvoicePending:   {entity.InvoicePaid, entity.InvoiceOverdue, entity.InvoiceCancelled},
	entity.InvoiceOverdue:   {entity.InvoicePaid, entity.InvoiceCancelled},
	entity.InvoicePaid:      {},
	entity.InvoiceCancelled: {},
}

// ValidStatus informa si s es un estado conocido.
func ValidStatus(s entity.InvoiceStatus) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal informa si el estado no admite más transiciones.
func IsTerminal(s entity.InvoiceStatus) bool {
	return len(transitions[s]) == 0
}

// CanTransition informa si from -> to está en la tabla.
func CanTransition(from, to entity.InvoiceStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EffectiveStatus deriva OVERDUE para una factura PENDING cuya fecha de vencimiento ya pasó.
func EffectiveStatus(inv *entity.Invoice, now time.Time) entity.InvoiceStatus {
	if inv.Status == entity.InvoicePending && inv.DueDate != nil && inv.DueDate.Before(now) {
		return entity.InvoiceOverdue
	}
	return inv.Status
}

// Transition valida y aplica el cambio de estado sobre inv.
// PAID sella la fecha de pago (paidAt o now); cualquier otro estado la limpia.
func Transition(inv *entity.Invoice, to entity.InvoiceStatus, paidAt *time.Time, now time.Time) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: estado desconocido %q", domain.ErrValidation, to)
	}
	from := EffectiveStatus(inv, now)
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	if to == entity.InvoicePaid && paidAt != nil {
		if err := checkPaidAt(inv, *paidAt, now); err != nil {
			return err
		}
	}
	inv.Status = to
	if to == entity.InvoicePaid {
		stamp := now
		if paidAt != nil {
			stamp = *paidAt
		}
		inv.PaidAt = &stamp
	} else {
		inv.PaidAt = nil
	}
	inv.UpdatedAt = now
	return nil
}

// paidAtSkew margen para relojes de cliente algo adelantados.
const paidAtSkew = time.Minute

func checkPaidAt(inv *entity.Invoice, paidAt, now time.Time) error {
	if !inv.IssueDate.IsZero() && paidAt.Before(inv.IssueDate) {
		return domain.FieldErrors{"paid_at": "no puede ser anterior a la fecha de emisión"}
	}
	if paidAt.After(now.Add(paidAtSkew)) {
		return domain.FieldErrors{"paid_at": "no puede ser una fecha futura"}
	}
	return nil
}

// IsIssued informa si la factura ya salió de borrador y no fue anulada (su stock está descontado).
func IsIssued(s entity.InvoiceStatus) bool {
	switch s {
	case entity.InvoicePending, entity.InvoiceOverdue, entity.InvoicePaid:
		return true
	}
	return false
}

// EnsureDraft exige estado DRAFT para editar o borrar.
func EnsureDraft(inv *entity.Invoice) error {
	if inv.Status != entity.InvoiceDraft {
		return fmt.Errorf("%w: la factura %s está en estado %s", domain.ErrInvalidState, inv.Number, inv.Status)
	}
	return nil
}
