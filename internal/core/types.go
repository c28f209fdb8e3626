package core

import "hospicore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	Patient            = domain.Patient
	Doctor             = domain.Doctor
	Appointment        = domain.Appointment
	Medicament         = domain.Medicament
	Prescription       = domain.Prescription
	Room               = domain.Room
	Admission          = domain.Admission
	Invoice            = domain.Invoice
	Payment            = domain.Payment
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	RulesEngine        = domain.RulesEngine
)

const (
	EntityPatient      = domain.EntityPatient
	EntityDoctor       = domain.EntityDoctor
	EntityAppointment  = domain.EntityAppointment
	EntityMedicament   = domain.EntityMedicament
	EntityPrescription = domain.EntityPrescription
	EntityRoom         = domain.EntityRoom
	EntityAdmission    = domain.EntityAdmission
	EntityInvoice      = domain.EntityInvoice
	EntityPayment      = domain.EntityPayment
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
