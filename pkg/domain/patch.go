package domain

import (
	"bytes"
	"encoding/json"
)

// Patches are typed partial updates: only the fields carried by the patch
// type can be merged onto an existing record, so callers cannot smuggle
// arbitrary keys into stored documents. A nil field leaves the stored value
// untouched. Identifiers and timestamps are store-managed and therefore not
// patchable.

// PatientPatch is a partial update for Patient.
type PatientPatch struct {
	Nom               *string `json:"nom,omitempty"`
	Prenom            *string `json:"prenom,omitempty"`
	Age               *int    `json:"age,omitempty"`
	Sexe              *string `json:"sexe,omitempty"`
	Telephone         *string `json:"telephone,omitempty"`
	Email             *string `json:"email,omitempty"`
	Adresse           *string `json:"adresse,omitempty"`
	HistoriqueMedical *string `json:"historiqueMedical,omitempty"`
}

// Apply merges the patch onto the record.
func (p PatientPatch) Apply(r *Patient) {
	setString(&r.Nom, p.Nom)
	setString(&r.Prenom, p.Prenom)
	setInt(&r.Age, p.Age)
	setString(&r.Sexe, p.Sexe)
	setString(&r.Telephone, p.Telephone)
	setString(&r.Email, p.Email)
	setString(&r.Adresse, p.Adresse)
	setString(&r.HistoriqueMedical, p.HistoriqueMedical)
}

// DoctorPatch is a partial update for Doctor.
type DoctorPatch struct {
	Nom          *string `json:"nom,omitempty"`
	Prenom       *string `json:"prenom,omitempty"`
	Specialite   *string `json:"specialite,omitempty"`
	Service      *string `json:"service,omitempty"`
	Telephone    *string `json:"telephone,omitempty"`
	Email        *string `json:"email,omitempty"`
	HoraireDebut *string `json:"horaireDebut,omitempty"`
	HoraireFin   *string `json:"horaireFin,omitempty"`
	Adresse      *string `json:"adresse,omitempty"`
}

// Apply merges the patch onto the record.
func (p DoctorPatch) Apply(r *Doctor) {
	setString(&r.Nom, p.Nom)
	setString(&r.Prenom, p.Prenom)
	setString(&r.Specialite, p.Specialite)
	setString(&r.Service, p.Service)
	setString(&r.Telephone, p.Telephone)
	setString(&r.Email, p.Email)
	setString(&r.HoraireDebut, p.HoraireDebut)
	setString(&r.HoraireFin, p.HoraireFin)
	setString(&r.Adresse, p.Adresse)
}

// AppointmentPatch is a partial update for Appointment.
type AppointmentPatch struct {
	PatientID *int               `json:"patientId,omitempty"`
	DoctorID  *int               `json:"doctorId,omitempty"`
	Date      *string            `json:"date,omitempty"`
	Heure     *string            `json:"heure,omitempty"`
	Duree     *int               `json:"duree,omitempty"`
	Statut    *AppointmentStatus `json:"statut,omitempty"`
	Motif     *string            `json:"motif,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
}

// Apply merges the patch onto the record.
func (p AppointmentPatch) Apply(r *Appointment) {
	setInt(&r.PatientID, p.PatientID)
	setInt(&r.DoctorID, p.DoctorID)
	setString(&r.Date, p.Date)
	setString(&r.Heure, p.Heure)
	setInt(&r.Duree, p.Duree)
	if p.Statut != nil {
		r.Statut = *p.Statut
	}
	setString(&r.Motif, p.Motif)
	setString(&r.Notes, p.Notes)
}

// MedicamentPatch is a partial update for Medicament.
type MedicamentPatch struct {
	Nom          *string  `json:"nom,omitempty"`
	Code         *string  `json:"code,omitempty"`
	Famille      *string  `json:"famille,omitempty"`
	Dosage       *string  `json:"dosage,omitempty"`
	StockInitial *int     `json:"stockInitial,omitempty"`
	StockActuel  *int     `json:"stockActuel,omitempty"`
	StockMinimum *int     `json:"stockMinimum,omitempty"`
	PrixUnitaire *float64 `json:"prixUnitaire,omitempty"`
	Fournisseur  *string  `json:"fournisseur,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

// Apply merges the patch onto the record.
func (p MedicamentPatch) Apply(r *Medicament) {
	setString(&r.Nom, p.Nom)
	setString(&r.Code, p.Code)
	setString(&r.Famille, p.Famille)
	setString(&r.Dosage, p.Dosage)
	setInt(&r.StockInitial, p.StockInitial)
	setInt(&r.StockActuel, p.StockActuel)
	setInt(&r.StockMinimum, p.StockMinimum)
	setFloat(&r.PrixUnitaire, p.PrixUnitaire)
	setString(&r.Fournisseur, p.Fournisseur)
	setString(&r.Description, p.Description)
}

// PrescriptionPatch is a partial update for Prescription.
type PrescriptionPatch struct {
	PatientID        *int                `json:"patientId,omitempty"`
	DoctorID         *int                `json:"doctorId,omitempty"`
	MedicamentID     *int                `json:"medicamentId,omitempty"`
	DatePrescription *string             `json:"datePrescription,omitempty"`
	Quantite         *int                `json:"quantite,omitempty"`
	Posologie        *string             `json:"posologie,omitempty"`
	DureeTraitement  *string             `json:"dureeTraitement,omitempty"`
	Statut           *PrescriptionStatus `json:"statut,omitempty"`
	Instructions     *string             `json:"instructions,omitempty"`
}

// Apply merges the patch onto the record.
func (p PrescriptionPatch) Apply(r *Prescription) {
	setInt(&r.PatientID, p.PatientID)
	setInt(&r.DoctorID, p.DoctorID)
	setInt(&r.MedicamentID, p.MedicamentID)
	setString(&r.DatePrescription, p.DatePrescription)
	setInt(&r.Quantite, p.Quantite)
	setString(&r.Posologie, p.Posologie)
	setString(&r.DureeTraitement, p.DureeTraitement)
	if p.Statut != nil {
		r.Statut = *p.Statut
	}
	setString(&r.Instructions, p.Instructions)
}

// RoomPatch is a partial update for Room.
type RoomPatch struct {
	Numero      *string     `json:"numero,omitempty"`
	Etage       *int        `json:"etage,omitempty"`
	Type        *string     `json:"type,omitempty"`
	Capacite    *int        `json:"capacite,omitempty"`
	LitsOccupes *int        `json:"litsOccupes,omitempty"`
	Service     *string     `json:"service,omitempty"`
	PrixParJour *float64    `json:"prixParJour,omitempty"`
	Equipements *string     `json:"equipements,omitempty"`
	Statut      *RoomStatus `json:"statut,omitempty"`
}

// Apply merges the patch onto the record.
func (p RoomPatch) Apply(r *Room) {
	setString(&r.Numero, p.Numero)
	setInt(&r.Etage, p.Etage)
	setString(&r.Type, p.Type)
	setInt(&r.Capacite, p.Capacite)
	setInt(&r.LitsOccupes, p.LitsOccupes)
	setString(&r.Service, p.Service)
	setFloat(&r.PrixParJour, p.PrixParJour)
	setString(&r.Equipements, p.Equipements)
	if p.Statut != nil {
		r.Statut = *p.Statut
	}
}

// AdmissionPatch is a partial update for Admission.
type AdmissionPatch struct {
	PatientID       *int             `json:"patientId,omitempty"`
	RoomID          *int             `json:"roomId,omitempty"`
	DateAdmission   *string          `json:"dateAdmission,omitempty"`
	HeureAdmission  *string          `json:"heureAdmission,omitempty"`
	MotifAdmission  *string          `json:"motifAdmission,omitempty"`
	StatutAdmission *AdmissionStatus `json:"statutAdmission,omitempty"`
	DateSortie      *string          `json:"dateSortie,omitempty"`
	HeureSortie     *string          `json:"heureSortie,omitempty"`
	NotesAdmission  *string          `json:"notesAdmission,omitempty"`
}

// Apply merges the patch onto the record.
func (p AdmissionPatch) Apply(r *Admission) {
	setInt(&r.PatientID, p.PatientID)
	setInt(&r.RoomID, p.RoomID)
	setString(&r.DateAdmission, p.DateAdmission)
	setString(&r.HeureAdmission, p.HeureAdmission)
	setString(&r.MotifAdmission, p.MotifAdmission)
	if p.StatutAdmission != nil {
		r.StatutAdmission = *p.StatutAdmission
	}
	setString(&r.DateSortie, p.DateSortie)
	setString(&r.HeureSortie, p.HeureSortie)
	setString(&r.NotesAdmission, p.NotesAdmission)
}

// InvoicePatch is a partial update for Invoice. The derived totals are not
// patchable directly; the service recomputes them whenever Services or TVA
// change. Statut is patchable only to reach Annulée; payment-derived states
// are recomputed by the payment consistency hook.
type InvoicePatch struct {
	PatientID     *int           `json:"patientId,omitempty"`
	NumeroFacture *string        `json:"numeroFacture,omitempty"`
	DateFacture   *string        `json:"dateFacture,omitempty"`
	Statut        *InvoiceStatus `json:"statut,omitempty"`
	Services      *[]ServiceLine `json:"services,omitempty"`
	TVA           *float64       `json:"tva,omitempty"`
	NotesFacture  *string        `json:"notesFacture,omitempty"`
}

// Apply merges the patch onto the record.
func (p InvoicePatch) Apply(r *Invoice) {
	setInt(&r.PatientID, p.PatientID)
	setString(&r.NumeroFacture, p.NumeroFacture)
	setString(&r.DateFacture, p.DateFacture)
	if p.Statut != nil {
		r.Statut = *p.Statut
	}
	if p.Services != nil {
		r.Services = append([]ServiceLine(nil), (*p.Services)...)
	}
	setFloat(&r.TVA, p.TVA)
	setString(&r.NotesFacture, p.NotesFacture)
}

// PaymentPatch is a partial update for Payment.
type PaymentPatch struct {
	InvoiceID         *int     `json:"invoiceId,omitempty"`
	DatePaiement      *string  `json:"datePaiement,omitempty"`
	MontantPaiement   *float64 `json:"montantPaiement,omitempty"`
	ModePaiement      *string  `json:"modePaiement,omitempty"`
	ReferencePaiement *string  `json:"referencePaiement,omitempty"`
	NotesPaiement     *string  `json:"notesPaiement,omitempty"`
}

// Apply merges the patch onto the record.
func (p PaymentPatch) Apply(r *Payment) {
	setInt(&r.InvoiceID, p.InvoiceID)
	setString(&r.DatePaiement, p.DatePaiement)
	setFloat(&r.MontantPaiement, p.MontantPaiement)
	setString(&r.ModePaiement, p.ModePaiement)
	setString(&r.ReferencePaiement, p.ReferencePaiement)
	setString(&r.NotesPaiement, p.NotesPaiement)
}

// DecodePatch parses a JSON patch document into the given patch type,
// rejecting unknown fields instead of silently merging them.
func DecodePatch[P any](data []byte) (P, error) {
	var patch P
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return patch, err
	}
	return patch, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
