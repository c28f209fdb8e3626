package core

import (
	"context"
	"fmt"

	"hospicore/pkg/domain"
)

// NewAdmissionExitRule returns the rule reporting admissions whose exit date
// and time precede the admission date and time. Like schedule conflicts this
// is a warning: discharge screens may backfill records the operator vouches
// for.
func NewAdmissionExitRule() domain.Rule {
	return admissionExitRule{}
}

type admissionExitRule struct{}

func (admissionExitRule) Name() string { return "admission_exit" }

func (admissionExitRule) Evaluate(_ context.Context, _ domain.StoreView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityAdmission || change.Action == domain.ActionDelete {
			continue
		}
		admission, ok := change.After.(domain.Admission)
		if !ok {
			continue
		}
		if !exitPrecedesAdmission(admission) {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "admission_exit",
			Severity: domain.SeverityWarn,
			Message: fmt.Sprintf("exit %s %s precedes admission %s %s",
				admission.DateSortie, admission.HeureSortie,
				admission.DateAdmission, admission.HeureAdmission),
			Entity:   domain.EntityAdmission,
			EntityID: admission.ID,
		})
	}
	return res, nil
}

// exitPrecedesAdmission reports whether a recorded exit lies before the
// admission instant. Dates compare lexically ("2006-01-02"); the time of day
// only breaks same-date ties and an unset exit never violates.
func exitPrecedesAdmission(a domain.Admission) bool {
	if a.DateSortie == "" {
		return false
	}
	if a.DateSortie != a.DateAdmission {
		return a.DateSortie < a.DateAdmission
	}
	if a.HeureSortie == "" || a.HeureAdmission == "" {
		return false
	}
	exit, okExit := timeToMinutes(a.HeureSortie)
	entry, okEntry := timeToMinutes(a.HeureAdmission)
	if !okExit || !okEntry {
		return false
	}
	return exit < entry
}
