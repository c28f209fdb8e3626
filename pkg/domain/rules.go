package domain

import "context"

// StoreView provides read-only access to domain collections for rule
// evaluation and reporting. Implementations return records in insertion
// order and never return nil slices.
type StoreView interface {
	ListPatients() []Patient
	ListDoctors() []Doctor
	ListAppointments() []Appointment
	ListMedicaments() []Medicament
	ListPrescriptions() []Prescription
	ListRooms() []Room
	ListAdmissions() []Admission
	ListInvoices() []Invoice
	ListPayments() []Payment
	FindPatient(id int) (Patient, bool)
	FindDoctor(id int) (Doctor, bool)
	FindAppointment(id int) (Appointment, bool)
	FindMedicament(id int) (Medicament, bool)
	FindPrescription(id int) (Prescription, bool)
	FindRoom(id int) (Room, bool)
	FindAdmission(id int) (Admission, bool)
	FindInvoice(id int) (Invoice, bool)
	FindPayment(id int) (Payment, bool)
}

// Rule defines a validation executed after a mutation against the resulting
// store state. Rules only observe; derived-state propagation is the job of
// the consistency hooks, which every mutating path must invoke.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view StoreView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view StoreView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
