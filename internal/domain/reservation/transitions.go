package reservation

import (
	"fmt"

	"hospital-ops/internal/pkg/errs"
)

// transitions holds the legal (from -> to) pairs per kind. Absence means
// ErrInvalidTransition; terminal states have no outgoing entries.
var transitions = map[Kind]map[Status][]Status{
	KindAppointment: {
		AppointmentPending: {AppointmentVisited, AppointmentCancelled},
	},
	KindPrescription: {
		PrescriptionUnpaid: {PrescriptionPaid, PrescriptionCancelled},
		PrescriptionPaid:   {PrescriptionDispensed},
	},
	KindExamination: {
		ExaminationPendingPayment: {ExaminationPaidPending, ExaminationCancelled},
		ExaminationPaidPending:    {ExaminationInProgress, ExaminationCancelled},
		ExaminationInProgress:     {ExaminationCompleted},
	},
	KindPayment: {
		PaymentPending: {PaymentSettled, PaymentCancelled},
	},
	KindRecharge: {
		RechargePending: {RechargeSettled, RechargeCancelled},
	},
}

// CanTransition reports whether (from -> to) is in the kind's table.
func CanTransition(kind Kind, from, to Status) bool {
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status move and returns ErrInvalidTransition with
// context when the pair is not in the kind's table.
func Transition(kind Kind, from, to Status) error {
	if !CanTransition(kind, from, to) {
		return errs.Mark(
			fmt.Errorf("%s: %d -> %d", kind, from, to),
			errs.ErrInvalidTransition,
		)
	}
	return nil
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(kind Kind, s Status) bool {
	return len(transitions[kind][s]) == 0
}

// PaidStatus returns the status a settled payment advances the funded record
// to, when the kind's own lifecycle encodes payment. Appointments carry
// payment only in their is_paid flag, not in their status.
func PaidStatus(kind Kind) (Status, bool) {
	switch kind {
	case KindPrescription:
		return PrescriptionPaid, true
	case KindExamination:
		return ExaminationPaidPending, true
	default:
		return 0, false
	}
}

// AcceptsSettlement reports whether a funded record in the given status may
// still be paid for. A payment against anything else fails with
// ErrStaleReference and must leave the ledger untouched.
func AcceptsSettlement(kind Kind, s Status) bool {
	switch kind {
	case KindAppointment:
		return s == AppointmentPending || s == AppointmentVisited
	case KindPrescription:
		return s == PrescriptionUnpaid
	case KindExamination:
		return s == ExaminationPendingPayment
	default:
		return false
	}
}
