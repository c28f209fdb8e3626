// Package domain defines the persistent hospital entities, value types, and
// rule evaluation primitives used by hospicore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityPatient identifies a patient record.
	EntityPatient EntityType = "patient"
	// EntityDoctor identifies a doctor record.
	EntityDoctor EntityType = "doctor"
	// EntityAppointment identifies an appointment record.
	EntityAppointment EntityType = "appointment"
	// EntityMedicament identifies a pharmacy stock item record.
	EntityMedicament EntityType = "medicament"
	// EntityPrescription identifies a prescription record.
	EntityPrescription EntityType = "prescription"
	// EntityRoom identifies a room record.
	EntityRoom EntityType = "room"
	// EntityAdmission identifies an admission record.
	EntityAdmission EntityType = "admission"
	// EntityInvoice identifies an invoice record.
	EntityInvoice EntityType = "invoice"
	// EntityPayment identifies a payment record.
	EntityPayment EntityType = "payment"
)

// AppointmentStatus enumerates the canonical appointment workflow states.
type AppointmentStatus string

// Canonical appointment statuses as displayed by the scheduling screens.
const (
	AppointmentProgramme AppointmentStatus = "Programmé"
	AppointmentConfirme  AppointmentStatus = "Confirmé"
	AppointmentEnCours   AppointmentStatus = "En cours"
	AppointmentTermine   AppointmentStatus = "Terminé"
	AppointmentAnnule    AppointmentStatus = "Annulé"
)

// PrescriptionStatus enumerates prescription dispensing states.
type PrescriptionStatus string

// Canonical prescription statuses.
const (
	PrescriptionEnAttente PrescriptionStatus = "En attente"
	PrescriptionDelivre   PrescriptionStatus = "Délivré"
	PrescriptionTermine   PrescriptionStatus = "Terminé"
)

// RoomStatus enumerates room availability states. Maintenance and Réservée are
// sticky: occupancy-derived recomputation never overwrites them.
type RoomStatus string

// Canonical room statuses.
const (
	RoomDisponible  RoomStatus = "Disponible"
	RoomOccupee     RoomStatus = "Occupée"
	RoomMaintenance RoomStatus = "Maintenance"
	RoomReservee    RoomStatus = "Réservée"
)

// IsSticky reports whether occupancy recomputation must leave the status alone.
func (s RoomStatus) IsSticky() bool {
	return s == RoomMaintenance || s == RoomReservee
}

// AdmissionStatus enumerates admission lifecycle states.
type AdmissionStatus string

// Canonical admission statuses.
const (
	AdmissionActif     AdmissionStatus = "Actif"
	AdmissionTransfere AdmissionStatus = "Transféré"
	AdmissionSorti     AdmissionStatus = "Sorti"
)

// InvoiceStatus enumerates invoice payment states. All values except Annulée
// are derived from the sum of recorded payments.
type InvoiceStatus string

// Canonical invoice statuses.
const (
	InvoiceNonPayee           InvoiceStatus = "Non payée"
	InvoicePartiellementPayee InvoiceStatus = "Partiellement payée"
	InvoicePayee              InvoiceStatus = "Payée"
	InvoiceAnnulee            InvoiceStatus = "Annulée"
)

// Base contains common fields for all domain records. IDs are integers,
// unique within a collection, assigned from a monotonically increasing
// counter and never reused after deletion.
type Base struct {
	ID               int       `json:"id"`
	DateCreation     time.Time `json:"dateCreation"`
	DateModification time.Time `json:"dateModification"`
}

// RecordID returns the record identifier.
func (b *Base) RecordID() int { return b.ID }

// SetRecordID assigns the record identifier.
func (b *Base) SetRecordID(id int) { b.ID = id }

// CreationTime returns the creation timestamp.
func (b *Base) CreationTime() time.Time { return b.DateCreation }

// StampCreation sets the creation timestamp.
func (b *Base) StampCreation(t time.Time) { b.DateCreation = t }

// StampModification sets the modification timestamp.
func (b *Base) StampModification(t time.Time) { b.DateModification = t }

// Patient represents a registered patient file.
type Patient struct {
	Base
	Nom               string `json:"nom"`
	Prenom            string `json:"prenom"`
	Age               int    `json:"age"`
	Sexe              string `json:"sexe"`
	Telephone         string `json:"telephone"`
	Email             string `json:"email,omitempty"`
	Adresse           string `json:"adresse"`
	HistoriqueMedical string `json:"historiqueMedical,omitempty"`
}

// Doctor represents a practitioner with a daily consultation window.
// HoraireDebut and HoraireFin are times of day in "HH:MM" form, start before end.
type Doctor struct {
	Base
	Nom          string `json:"nom"`
	Prenom       string `json:"prenom"`
	Specialite   string `json:"specialite"`
	Service      string `json:"service"`
	Telephone    string `json:"telephone"`
	Email        string `json:"email,omitempty"`
	HoraireDebut string `json:"horaireDebut"`
	HoraireFin   string `json:"horaireFin"`
	Adresse      string `json:"adresse,omitempty"`
}

// Appointment links a patient to a doctor at a date and time of day.
// Date is "2006-01-02", Heure is "15:04", Duree is minutes (15 to 240).
// Foreign keys are weak integer references; dangling references degrade to a
// not-found display, never a failure.
type Appointment struct {
	Base
	PatientID int               `json:"patientId"`
	DoctorID  int               `json:"doctorId"`
	Date      string            `json:"date"`
	Heure     string            `json:"heure"`
	Duree     int               `json:"duree"`
	Statut    AppointmentStatus `json:"statut"`
	Motif     string            `json:"motif"`
	Notes     string            `json:"notes,omitempty"`
}

// Medicament represents a pharmacy stock item. StockActuel is maintained by
// the prescription consistency rules and clamped to zero.
type Medicament struct {
	Base
	Nom          string  `json:"nom"`
	Code         string  `json:"code"`
	Famille      string  `json:"famille"`
	Dosage       string  `json:"dosage"`
	StockInitial int     `json:"stockInitial"`
	StockActuel  int     `json:"stockActuel"`
	StockMinimum int     `json:"stockMinimum"`
	PrixUnitaire float64 `json:"prixUnitaire"`
	Fournisseur  string  `json:"fournisseur,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// Prescription records a medicament being prescribed to a patient. Creating or
// updating one adjusts the referenced medicament stock by the quantity delta;
// deleting one restores it.
type Prescription struct {
	Base
	PatientID        int                `json:"patientId"`
	DoctorID         int                `json:"doctorId"`
	MedicamentID     int                `json:"medicamentId"`
	DatePrescription string             `json:"datePrescription"`
	Quantite         int                `json:"quantite"`
	Posologie        string             `json:"posologie"`
	DureeTraitement  string             `json:"dureeTraitement,omitempty"`
	Statut           PrescriptionStatus `json:"statut"`
	Instructions     string             `json:"instructions,omitempty"`
}

// Room captures a hospital room and its bed occupancy. LitsOccupes is derived
// from admissions and never exceeds Capacite; a room with occupants cannot be
// deleted.
type Room struct {
	Base
	Numero      string     `json:"numero"`
	Etage       int        `json:"etage"`
	Type        string     `json:"type"`
	Capacite    int        `json:"capacite"`
	LitsOccupes int        `json:"litsOccupes"`
	Service     string     `json:"service"`
	PrixParJour float64    `json:"prixParJour"`
	Equipements string     `json:"equipements,omitempty"`
	Statut      RoomStatus `json:"statut"`
}

// Admission places a patient in a room. The exit date and time, when present,
// must not precede the admission date and time.
type Admission struct {
	Base
	PatientID       int             `json:"patientId"`
	RoomID          int             `json:"roomId"`
	DateAdmission   string          `json:"dateAdmission"`
	HeureAdmission  string          `json:"heureAdmission"`
	MotifAdmission  string          `json:"motifAdmission"`
	StatutAdmission AdmissionStatus `json:"statutAdmission"`
	DateSortie      string          `json:"dateSortie,omitempty"`
	HeureSortie     string          `json:"heureSortie,omitempty"`
	NotesAdmission  string          `json:"notesAdmission,omitempty"`
}

// ServiceLine is one billed line on an invoice.
type ServiceLine struct {
	Type         string  `json:"type"`
	Description  string  `json:"description"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prixUnitaire"`
}

// Invoice bills a patient for a list of services. SousTotal, MontantTva and
// TotalGeneral are derived from the service lines and TVA rate; Statut is
// derived from the recorded payments.
type Invoice struct {
	Base
	PatientID     int           `json:"patientId"`
	NumeroFacture string        `json:"numeroFacture"`
	DateFacture   string        `json:"dateFacture"`
	Statut        InvoiceStatus `json:"statut"`
	Services      []ServiceLine `json:"services"`
	SousTotal     float64       `json:"sousTotal"`
	TVA           float64       `json:"tva"`
	MontantTva    float64       `json:"montantTva"`
	TotalGeneral  float64       `json:"totalGeneral"`
	NotesFacture  string        `json:"notesFacture,omitempty"`
}

// Payment records money received against an invoice.
type Payment struct {
	Base
	InvoiceID         int     `json:"invoiceId"`
	DatePaiement      string  `json:"datePaiement"`
	MontantPaiement   float64 `json:"montantPaiement"`
	ModePaiement      string  `json:"modePaiement"`
	ReferencePaiement string  `json:"referencePaiement,omitempty"`
	NotesPaiement     string  `json:"notesPaiement,omitempty"`
}

// Change describes a mutation applied to an entity during a store operation.
type Change struct {
	Entity EntityType
	Action Action
	ID     int
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured for rule evaluation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks the operation.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows the operation.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID int
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Warnings returns the subset of violations at warning severity.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarn {
			out = append(out, v)
		}
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "operation blocked by rules"
}
