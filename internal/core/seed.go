package core

import (
	"hospicore/pkg/domain"
)

// LoadSeed populates empty collections from a seed snapshot. Collections that
// already hold records are left alone, so calling it on every startup is
// safe. Counters are raised above the highest seeded id. It reports whether
// any collection was seeded.
func (s *Store) LoadSeed(seed Snapshot) bool {
	seeded := false
	seeded = seedCollection(s, CollectionPatients, seed.Patients) || seeded
	seeded = seedCollection(s, CollectionDoctors, seed.Doctors) || seeded
	seeded = seedCollection(s, CollectionAppointments, seed.Appointments) || seeded
	seeded = seedCollection(s, CollectionMedicaments, seed.Medicaments) || seeded
	seeded = seedCollection(s, CollectionPrescriptions, seed.Prescriptions) || seeded
	seeded = seedCollection(s, CollectionRooms, seed.Rooms) || seeded
	seeded = seedCollection(s, CollectionAdmissions, seed.Admissions) || seeded
	seeded = seedCollection(s, CollectionInvoices, seed.Invoices) || seeded
	seeded = seedCollection(s, CollectionPayments, seed.Payments) || seeded
	if seeded {
		s.raiseCounters(seed)
	}
	return seeded
}

func seedCollection[T any](s *Store, collection string, items []T) bool {
	if len(items) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(loadAll[T](s, collection)) > 0 {
		return false
	}
	return saveAll(s, collection, items)
}

// SampleSnapshot returns a small demonstration data set for first runs.
func SampleSnapshot() Snapshot {
	return Snapshot{
		Patients: []domain.Patient{
			{Base: domain.Base{ID: 1}, Nom: "Dupont", Prenom: "Jean", Age: 41, Sexe: "M", Telephone: "0612345678", Adresse: "12 rue de la Paix, Paris"},
			{Base: domain.Base{ID: 2}, Nom: "Martin", Prenom: "Sophie", Age: 34, Sexe: "F", Telephone: "0698765432", Adresse: "5 avenue Victor Hugo, Lyon"},
		},
		Doctors: []domain.Doctor{
			{Base: domain.Base{ID: 1}, Nom: "Bernard", Prenom: "Claire", Specialite: "Cardiologie", Service: "Cardiologie", Telephone: "0145678901", HoraireDebut: "08:00", HoraireFin: "17:00"},
			{Base: domain.Base{ID: 2}, Nom: "Petit", Prenom: "Luc", Specialite: "Médecine générale", Service: "Consultations", Telephone: "0145678902", HoraireDebut: "09:00", HoraireFin: "18:00"},
		},
		Medicaments: []domain.Medicament{
			{Base: domain.Base{ID: 1}, Nom: "Paracétamol", Code: "PARA500", Famille: "Antalgique", Dosage: "500mg", StockInitial: 200, StockActuel: 200, StockMinimum: 50, PrixUnitaire: 2.5},
			{Base: domain.Base{ID: 2}, Nom: "Amoxicilline", Code: "AMOX1G", Famille: "Antibiotique", Dosage: "1g", StockInitial: 100, StockActuel: 100, StockMinimum: 20, PrixUnitaire: 6.8},
		},
		Rooms: []domain.Room{
			{Base: domain.Base{ID: 1}, Numero: "101", Etage: 1, Type: "Simple", Capacite: 1, Service: "Cardiologie", PrixParJour: 85, Statut: domain.RoomDisponible},
			{Base: domain.Base{ID: 2}, Numero: "102", Etage: 1, Type: "Double", Capacite: 2, Service: "Cardiologie", PrixParJour: 65, Statut: domain.RoomDisponible},
			{Base: domain.Base{ID: 3}, Numero: "201", Etage: 2, Type: "Simple", Capacite: 1, Service: "Chirurgie", PrixParJour: 85, Statut: domain.RoomMaintenance},
		},
	}
}
