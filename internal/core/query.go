package core

import (
	"fmt"
	"strconv"
	"strings"

	"hospicore/pkg/domain"
)

// Sentinel labels shown when a weak reference points at a deleted record.
// Dangling references degrade to these, never to a failure.
const (
	UnknownPatientLabel    = "Patient inconnu"
	UnknownDoctorLabel     = "Médecin inconnu"
	UnknownMedicamentLabel = "Médicament inconnu"
	UnknownRoomLabel       = "Chambre inconnue"
	UnknownInvoiceLabel    = "Facture inconnue"
)

// Queries is the read-side facade the view layer renders from: foreign-key
// joins for display, aggregate statistics, and appointment conflict lookups.
// It never mutates and never fails.
type Queries struct {
	view domain.StoreView
}

// NewQueries constructs the facade over any store view.
func NewQueries(view domain.StoreView) *Queries {
	return &Queries{view: view}
}

// PatientLabel renders a patient reference for display.
func (q *Queries) PatientLabel(id int) string {
	patient, ok := q.view.FindPatient(id)
	if !ok {
		return UnknownPatientLabel
	}
	return strings.TrimSpace(patient.Prenom + " " + patient.Nom)
}

// DoctorLabel renders a doctor reference for display.
func (q *Queries) DoctorLabel(id int) string {
	doctor, ok := q.view.FindDoctor(id)
	if !ok {
		return UnknownDoctorLabel
	}
	return "Dr " + strings.TrimSpace(doctor.Prenom+" "+doctor.Nom)
}

// MedicamentLabel renders a medicament reference for display.
func (q *Queries) MedicamentLabel(id int) string {
	medicament, ok := q.view.FindMedicament(id)
	if !ok {
		return UnknownMedicamentLabel
	}
	if medicament.Dosage == "" {
		return medicament.Nom
	}
	return medicament.Nom + " " + medicament.Dosage
}

// RoomLabel renders a room reference for display.
func (q *Queries) RoomLabel(id int) string {
	room, ok := q.view.FindRoom(id)
	if !ok {
		return UnknownRoomLabel
	}
	return "Chambre " + room.Numero
}

// InvoiceLabel renders an invoice reference for display.
func (q *Queries) InvoiceLabel(id int) string {
	invoice, ok := q.view.FindInvoice(id)
	if !ok {
		return UnknownInvoiceLabel
	}
	return "Facture " + invoice.NumeroFacture
}

// AppointmentRow is an appointment joined with its display labels.
type AppointmentRow struct {
	domain.Appointment
	PatientLabel string
	DoctorLabel  string
}

// AppointmentRows joins every appointment with patient and doctor labels.
func (q *Queries) AppointmentRows() []AppointmentRow {
	appointments := q.view.ListAppointments()
	rows := make([]AppointmentRow, 0, len(appointments))
	for _, a := range appointments {
		rows = append(rows, AppointmentRow{
			Appointment:  a,
			PatientLabel: q.PatientLabel(a.PatientID),
			DoctorLabel:  q.DoctorLabel(a.DoctorID),
		})
	}
	return rows
}

// PrescriptionRow is a prescription joined with its display labels.
type PrescriptionRow struct {
	domain.Prescription
	PatientLabel    string
	DoctorLabel     string
	MedicamentLabel string
}

// PrescriptionRows joins every prescription with its referenced labels.
func (q *Queries) PrescriptionRows() []PrescriptionRow {
	prescriptions := q.view.ListPrescriptions()
	rows := make([]PrescriptionRow, 0, len(prescriptions))
	for _, p := range prescriptions {
		rows = append(rows, PrescriptionRow{
			Prescription:    p,
			PatientLabel:    q.PatientLabel(p.PatientID),
			DoctorLabel:     q.DoctorLabel(p.DoctorID),
			MedicamentLabel: q.MedicamentLabel(p.MedicamentID),
		})
	}
	return rows
}

// AdmissionRow is an admission joined with its display labels.
type AdmissionRow struct {
	domain.Admission
	PatientLabel string
	RoomLabel    string
}

// AdmissionRows joins every admission with patient and room labels.
func (q *Queries) AdmissionRows() []AdmissionRow {
	admissions := q.view.ListAdmissions()
	rows := make([]AdmissionRow, 0, len(admissions))
	for _, a := range admissions {
		rows = append(rows, AdmissionRow{
			Admission:    a,
			PatientLabel: q.PatientLabel(a.PatientID),
			RoomLabel:    q.RoomLabel(a.RoomID),
		})
	}
	return rows
}

// InvoiceRow is an invoice joined with its patient label and payment state.
type InvoiceRow struct {
	domain.Invoice
	PatientLabel string
	MontantPaye  float64
	ResteAPayer  float64
}

// InvoiceRows joins every invoice with its patient label and paid totals.
func (q *Queries) InvoiceRows() []InvoiceRow {
	payments := q.view.ListPayments()
	paidByInvoice := make(map[int]float64, len(payments))
	for _, p := range payments {
		paidByInvoice[p.InvoiceID] += p.MontantPaiement
	}
	invoices := q.view.ListInvoices()
	rows := make([]InvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		paid := paidByInvoice[inv.ID]
		remaining := inv.TotalGeneral - paid
		if remaining < 0 {
			remaining = 0
		}
		rows = append(rows, InvoiceRow{
			Invoice:      inv,
			PatientLabel: q.PatientLabel(inv.PatientID),
			MontantPaye:  paid,
			ResteAPayer:  remaining,
		})
	}
	return rows
}

// Statistics aggregates the dashboard counters.
type Statistics struct {
	Counts              map[string]int
	AvailableRooms      int
	LowStockMedicaments int
	AppointmentsToday   int
	Revenue             float64
}

// Statistics computes the dashboard aggregates. today is the exact date
// string appointments are matched against.
func (q *Queries) Statistics(today string) Statistics {
	stats := Statistics{
		Counts: map[string]int{
			CollectionPatients:      len(q.view.ListPatients()),
			CollectionDoctors:       len(q.view.ListDoctors()),
			CollectionAppointments:  len(q.view.ListAppointments()),
			CollectionMedicaments:   len(q.view.ListMedicaments()),
			CollectionPrescriptions: len(q.view.ListPrescriptions()),
			CollectionRooms:         len(q.view.ListRooms()),
			CollectionAdmissions:    len(q.view.ListAdmissions()),
			CollectionInvoices:      len(q.view.ListInvoices()),
			CollectionPayments:      len(q.view.ListPayments()),
		},
	}
	for _, room := range q.view.ListRooms() {
		if room.Statut == domain.RoomDisponible {
			stats.AvailableRooms++
		}
	}
	for _, medicament := range q.view.ListMedicaments() {
		if medicament.StockActuel <= medicament.StockMinimum {
			stats.LowStockMedicaments++
		}
	}
	stats.AppointmentsToday = q.AppointmentsOn(today)
	for _, invoice := range q.view.ListInvoices() {
		stats.Revenue += invoice.TotalGeneral
	}
	return stats
}

// AppointmentsOn counts appointments whose date equals the given date string.
func (q *Queries) AppointmentsOn(date string) int {
	count := 0
	for _, a := range q.view.ListAppointments() {
		if a.Date == date {
			count++
		}
	}
	return count
}

// FindAppointmentConflicts returns the existing appointments for the same
// doctor and date whose [heure, heure+duree) interval overlaps the
// candidate's. The candidate itself (matched by id) is excluded, so editing
// an appointment does not conflict with its own slot.
func (q *Queries) FindAppointmentConflicts(candidate domain.Appointment) []domain.Appointment {
	conflicts := []domain.Appointment{}
	for _, other := range q.view.ListAppointments() {
		if appointmentsOverlap(candidate, other) {
			conflicts = append(conflicts, other)
		}
	}
	return conflicts
}

// timeToMinutes converts an "HH:MM" time of day to minutes since midnight.
func timeToMinutes(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// minutesToTime renders minutes since midnight back to "HH:MM".
func minutesToTime(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
