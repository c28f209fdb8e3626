package core

import (
	"context"
	"fmt"

	"hospicore/pkg/domain"
)

// NewAppointmentConflictRule returns the rule reporting same-doctor schedule
// overlaps. Conflicts are warnings, not blocks: the scheduling screens let
// the operator override a double booking deliberately.
func NewAppointmentConflictRule() domain.Rule {
	return appointmentConflictRule{}
}

type appointmentConflictRule struct{}

func (appointmentConflictRule) Name() string { return "appointment_conflict" }

func (appointmentConflictRule) Evaluate(_ context.Context, view domain.StoreView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	appointments := view.ListAppointments()
	for _, change := range changes {
		if change.Entity != domain.EntityAppointment || change.Action == domain.ActionDelete {
			continue
		}
		edited, ok := change.After.(domain.Appointment)
		if !ok {
			continue
		}
		for _, other := range appointments {
			if !appointmentsOverlap(edited, other) {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "appointment_conflict",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("doctor %d already booked %s %s", other.DoctorID, other.Date, appointmentSlot(other)),
				Entity:   domain.EntityAppointment,
				EntityID: edited.ID,
			})
		}
	}
	return res, nil
}

// appointmentsOverlap reports whether two distinct appointments for the same
// doctor on the same date have intersecting [heure, heure+duree) intervals.
// Adjacent slots do not overlap.
func appointmentsOverlap(a, b domain.Appointment) bool {
	if a.ID == b.ID || a.DoctorID != b.DoctorID || a.Date != b.Date {
		return false
	}
	if a.Statut == domain.AppointmentAnnule || b.Statut == domain.AppointmentAnnule {
		return false
	}
	aStart, okA := timeToMinutes(a.Heure)
	bStart, okB := timeToMinutes(b.Heure)
	if !okA || !okB {
		return false
	}
	aEnd := aStart + appointmentDuration(a)
	bEnd := bStart + appointmentDuration(b)
	return aStart < bEnd && bStart < aEnd
}

func appointmentDuration(a domain.Appointment) int {
	if a.Duree <= 0 {
		return 30
	}
	return a.Duree
}

// appointmentSlot renders the occupied interval, e.g. "10:00-10:30".
func appointmentSlot(a domain.Appointment) string {
	start, ok := timeToMinutes(a.Heure)
	if !ok {
		return a.Heure
	}
	return a.Heure + "-" + minutesToTime(start+appointmentDuration(a))
}
