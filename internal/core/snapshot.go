package core

import (
	"encoding/json"
	"fmt"
	"time"

	"hospicore/pkg/domain"
)

// Snapshot is the portable backup document: one key per collection plus the
// id counters. Exporting and re-importing a snapshot reproduces the store
// exactly.
type Snapshot struct {
	ExportedAt    time.Time            `json:"exportedAt,omitempty"`
	Counters      map[string]int       `json:"counters,omitempty"`
	Patients      []domain.Patient     `json:"patients,omitempty"`
	Doctors       []domain.Doctor      `json:"doctors,omitempty"`
	Appointments  []domain.Appointment `json:"appointments,omitempty"`
	Medicaments   []domain.Medicament  `json:"medicaments,omitempty"`
	Prescriptions []domain.Prescription `json:"prescriptions,omitempty"`
	Rooms         []domain.Room        `json:"rooms,omitempty"`
	Admissions    []domain.Admission   `json:"admissions,omitempty"`
	Invoices      []domain.Invoice     `json:"invoices,omitempty"`
	Payments      []domain.Payment     `json:"payments,omitempty"`
}

// ExportData captures the full store contents.
func (s *Store) ExportData() Snapshot {
	return Snapshot{
		ExportedAt:    s.nowFn().UTC(),
		Counters:      s.Counters(),
		Patients:      s.ListPatients(),
		Doctors:       s.ListDoctors(),
		Appointments:  s.ListAppointments(),
		Medicaments:   s.ListMedicaments(),
		Prescriptions: s.ListPrescriptions(),
		Rooms:         s.ListRooms(),
		Admissions:    s.ListAdmissions(),
		Invoices:      s.ListInvoices(),
		Payments:      s.ListPayments(),
	}
}

// ExportJSON serializes the store contents as an indented JSON document.
func (s *Store) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.ExportData(), "", "  ")
}

// ImportData overwrites every collection named in the snapshot wholesale.
// Collections absent from the snapshot are left untouched. Counters present
// in the snapshot are restored; otherwise they are raised above the highest
// imported id so future inserts never reuse one.
func (s *Store) ImportData(snap Snapshot) bool {
	ok := true
	ok = importCollection(s, CollectionPatients, snap.Patients) && ok
	ok = importCollection(s, CollectionDoctors, snap.Doctors) && ok
	ok = importCollection(s, CollectionAppointments, snap.Appointments) && ok
	ok = importCollection(s, CollectionMedicaments, snap.Medicaments) && ok
	ok = importCollection(s, CollectionPrescriptions, snap.Prescriptions) && ok
	ok = importCollection(s, CollectionRooms, snap.Rooms) && ok
	ok = importCollection(s, CollectionAdmissions, snap.Admissions) && ok
	ok = importCollection(s, CollectionInvoices, snap.Invoices) && ok
	ok = importCollection(s, CollectionPayments, snap.Payments) && ok
	if snap.Counters != nil {
		for collection, next := range snap.Counters {
			ok = s.SetCounter(collection, next) && ok
		}
		return ok
	}
	return s.raiseCounters(snap) && ok
}

// ImportJSON parses and imports a snapshot document.
func (s *Store) ImportJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	if !s.ImportData(snap) {
		return fmt.Errorf("import snapshot: backend write failed")
	}
	return nil
}

func importCollection[T any](s *Store, collection string, items []T) bool {
	if items == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveAll(s, collection, items)
}

// raiseCounters lifts each collection's counter above the highest stored id.
func (s *Store) raiseCounters(snap Snapshot) bool {
	ok := true
	ok = raiseCounter[domain.Patient, *domain.Patient](s, CollectionPatients, snap.Patients) && ok
	ok = raiseCounter[domain.Doctor, *domain.Doctor](s, CollectionDoctors, snap.Doctors) && ok
	ok = raiseCounter[domain.Appointment, *domain.Appointment](s, CollectionAppointments, snap.Appointments) && ok
	ok = raiseCounter[domain.Medicament, *domain.Medicament](s, CollectionMedicaments, snap.Medicaments) && ok
	ok = raiseCounter[domain.Prescription, *domain.Prescription](s, CollectionPrescriptions, snap.Prescriptions) && ok
	ok = raiseCounter[domain.Room, *domain.Room](s, CollectionRooms, snap.Rooms) && ok
	ok = raiseCounter[domain.Admission, *domain.Admission](s, CollectionAdmissions, snap.Admissions) && ok
	ok = raiseCounter[domain.Invoice, *domain.Invoice](s, CollectionInvoices, snap.Invoices) && ok
	ok = raiseCounter[domain.Payment, *domain.Payment](s, CollectionPayments, snap.Payments) && ok
	return ok
}

func raiseCounter[T any, P record[T]](s *Store, collection string, items []T) bool {
	if items == nil {
		return true
	}
	next := 1
	for i := range items {
		if id := P(&items[i]).RecordID(); id >= next {
			next = id + 1
		}
	}
	current, ok := s.Counters()[collection]
	if ok && current >= next {
		return true
	}
	return s.SetCounter(collection, next)
}
