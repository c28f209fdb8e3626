package core

import "hospicore/pkg/domain"

// Typed wrappers over the generic collection machinery. Mutating wrappers
// return false on persistence failure or (for updates and deletes) when no
// record carries the id; read wrappers never fail.

// ListPatients returns all patients in insertion order.
func (s *Store) ListPatients() []domain.Patient {
	return listRecords[domain.Patient](s, CollectionPatients)
}

// FindPatient retrieves a patient by id.
func (s *Store) FindPatient(id int) (domain.Patient, bool) {
	return findRecord[domain.Patient, *domain.Patient](s, CollectionPatients, id)
}

// AddPatient stores a new patient.
func (s *Store) AddPatient(p domain.Patient) (domain.Patient, bool) {
	return addRecord[domain.Patient, *domain.Patient](s, CollectionPatients, p)
}

// UpdatePatient applies a partial update to a patient.
func (s *Store) UpdatePatient(id int, patch domain.PatientPatch) (domain.Patient, bool) {
	return updateRecord[domain.Patient, *domain.Patient](s, CollectionPatients, id, patch)
}

// DeletePatient removes a patient, reporting whether a removal occurred.
func (s *Store) DeletePatient(id int) bool {
	return deleteRecord[domain.Patient, *domain.Patient](s, CollectionPatients, id)
}

// SearchPatients filters patients by case-insensitive substring match.
func (s *Store) SearchPatients(term string, fields ...string) []domain.Patient {
	return searchRecords[domain.Patient](s, CollectionPatients, term, fields)
}

// ListDoctors returns all doctors in insertion order.
func (s *Store) ListDoctors() []domain.Doctor {
	return listRecords[domain.Doctor](s, CollectionDoctors)
}

// FindDoctor retrieves a doctor by id.
func (s *Store) FindDoctor(id int) (domain.Doctor, bool) {
	return findRecord[domain.Doctor, *domain.Doctor](s, CollectionDoctors, id)
}

// AddDoctor stores a new doctor.
func (s *Store) AddDoctor(d domain.Doctor) (domain.Doctor, bool) {
	return addRecord[domain.Doctor, *domain.Doctor](s, CollectionDoctors, d)
}

// UpdateDoctor applies a partial update to a doctor.
func (s *Store) UpdateDoctor(id int, patch domain.DoctorPatch) (domain.Doctor, bool) {
	return updateRecord[domain.Doctor, *domain.Doctor](s, CollectionDoctors, id, patch)
}

// DeleteDoctor removes a doctor, reporting whether a removal occurred.
func (s *Store) DeleteDoctor(id int) bool {
	return deleteRecord[domain.Doctor, *domain.Doctor](s, CollectionDoctors, id)
}

// SearchDoctors filters doctors by case-insensitive substring match.
func (s *Store) SearchDoctors(term string, fields ...string) []domain.Doctor {
	return searchRecords[domain.Doctor](s, CollectionDoctors, term, fields)
}

// ListAppointments returns all appointments in insertion order.
func (s *Store) ListAppointments() []domain.Appointment {
	return listRecords[domain.Appointment](s, CollectionAppointments)
}

// FindAppointment retrieves an appointment by id.
func (s *Store) FindAppointment(id int) (domain.Appointment, bool) {
	return findRecord[domain.Appointment, *domain.Appointment](s, CollectionAppointments, id)
}

// AddAppointment stores a new appointment.
func (s *Store) AddAppointment(a domain.Appointment) (domain.Appointment, bool) {
	return addRecord[domain.Appointment, *domain.Appointment](s, CollectionAppointments, a)
}

// UpdateAppointment applies a partial update to an appointment.
func (s *Store) UpdateAppointment(id int, patch domain.AppointmentPatch) (domain.Appointment, bool) {
	return updateRecord[domain.Appointment, *domain.Appointment](s, CollectionAppointments, id, patch)
}

// DeleteAppointment removes an appointment, reporting whether a removal occurred.
func (s *Store) DeleteAppointment(id int) bool {
	return deleteRecord[domain.Appointment, *domain.Appointment](s, CollectionAppointments, id)
}

// SearchAppointments filters appointments by case-insensitive substring match.
func (s *Store) SearchAppointments(term string, fields ...string) []domain.Appointment {
	return searchRecords[domain.Appointment](s, CollectionAppointments, term, fields)
}

// ListMedicaments returns all medicaments in insertion order.
func (s *Store) ListMedicaments() []domain.Medicament {
	return listRecords[domain.Medicament](s, CollectionMedicaments)
}

// FindMedicament retrieves a medicament by id.
func (s *Store) FindMedicament(id int) (domain.Medicament, bool) {
	return findRecord[domain.Medicament, *domain.Medicament](s, CollectionMedicaments, id)
}

// AddMedicament stores a new medicament.
func (s *Store) AddMedicament(m domain.Medicament) (domain.Medicament, bool) {
	return addRecord[domain.Medicament, *domain.Medicament](s, CollectionMedicaments, m)
}

// UpdateMedicament applies a partial update to a medicament.
func (s *Store) UpdateMedicament(id int, patch domain.MedicamentPatch) (domain.Medicament, bool) {
	return updateRecord[domain.Medicament, *domain.Medicament](s, CollectionMedicaments, id, patch)
}

// DeleteMedicament removes a medicament, reporting whether a removal occurred.
func (s *Store) DeleteMedicament(id int) bool {
	return deleteRecord[domain.Medicament, *domain.Medicament](s, CollectionMedicaments, id)
}

// SearchMedicaments filters medicaments by case-insensitive substring match.
func (s *Store) SearchMedicaments(term string, fields ...string) []domain.Medicament {
	return searchRecords[domain.Medicament](s, CollectionMedicaments, term, fields)
}

// ListPrescriptions returns all prescriptions in insertion order.
func (s *Store) ListPrescriptions() []domain.Prescription {
	return listRecords[domain.Prescription](s, CollectionPrescriptions)
}

// FindPrescription retrieves a prescription by id.
func (s *Store) FindPrescription(id int) (domain.Prescription, bool) {
	return findRecord[domain.Prescription, *domain.Prescription](s, CollectionPrescriptions, id)
}

// AddPrescription stores a new prescription.
func (s *Store) AddPrescription(p domain.Prescription) (domain.Prescription, bool) {
	return addRecord[domain.Prescription, *domain.Prescription](s, CollectionPrescriptions, p)
}

// UpdatePrescription applies a partial update to a prescription.
func (s *Store) UpdatePrescription(id int, patch domain.PrescriptionPatch) (domain.Prescription, bool) {
	return updateRecord[domain.Prescription, *domain.Prescription](s, CollectionPrescriptions, id, patch)
}

// DeletePrescription removes a prescription, reporting whether a removal occurred.
func (s *Store) DeletePrescription(id int) bool {
	return deleteRecord[domain.Prescription, *domain.Prescription](s, CollectionPrescriptions, id)
}

// SearchPrescriptions filters prescriptions by case-insensitive substring match.
func (s *Store) SearchPrescriptions(term string, fields ...string) []domain.Prescription {
	return searchRecords[domain.Prescription](s, CollectionPrescriptions, term, fields)
}

// ListRooms returns all rooms in insertion order.
func (s *Store) ListRooms() []domain.Room {
	return listRecords[domain.Room](s, CollectionRooms)
}

// FindRoom retrieves a room by id.
func (s *Store) FindRoom(id int) (domain.Room, bool) {
	return findRecord[domain.Room, *domain.Room](s, CollectionRooms, id)
}

// AddRoom stores a new room.
func (s *Store) AddRoom(r domain.Room) (domain.Room, bool) {
	return addRecord[domain.Room, *domain.Room](s, CollectionRooms, r)
}

// UpdateRoom applies a partial update to a room.
func (s *Store) UpdateRoom(id int, patch domain.RoomPatch) (domain.Room, bool) {
	return updateRecord[domain.Room, *domain.Room](s, CollectionRooms, id, patch)
}

// DeleteRoom removes a room, reporting whether a removal occurred. Occupancy
// guarding is the service's job; the store removes unconditionally.
func (s *Store) DeleteRoom(id int) bool {
	return deleteRecord[domain.Room, *domain.Room](s, CollectionRooms, id)
}

// SearchRooms filters rooms by case-insensitive substring match.
func (s *Store) SearchRooms(term string, fields ...string) []domain.Room {
	return searchRecords[domain.Room](s, CollectionRooms, term, fields)
}

// ListAdmissions returns all admissions in insertion order.
func (s *Store) ListAdmissions() []domain.Admission {
	return listRecords[domain.Admission](s, CollectionAdmissions)
}

// FindAdmission retrieves an admission by id.
func (s *Store) FindAdmission(id int) (domain.Admission, bool) {
	return findRecord[domain.Admission, *domain.Admission](s, CollectionAdmissions, id)
}

// AddAdmission stores a new admission.
func (s *Store) AddAdmission(a domain.Admission) (domain.Admission, bool) {
	return addRecord[domain.Admission, *domain.Admission](s, CollectionAdmissions, a)
}

// UpdateAdmission applies a partial update to an admission.
func (s *Store) UpdateAdmission(id int, patch domain.AdmissionPatch) (domain.Admission, bool) {
	return updateRecord[domain.Admission, *domain.Admission](s, CollectionAdmissions, id, patch)
}

// DeleteAdmission removes an admission, reporting whether a removal occurred.
func (s *Store) DeleteAdmission(id int) bool {
	return deleteRecord[domain.Admission, *domain.Admission](s, CollectionAdmissions, id)
}

// SearchAdmissions filters admissions by case-insensitive substring match.
func (s *Store) SearchAdmissions(term string, fields ...string) []domain.Admission {
	return searchRecords[domain.Admission](s, CollectionAdmissions, term, fields)
}

// ListInvoices returns all invoices in insertion order.
func (s *Store) ListInvoices() []domain.Invoice {
	return listRecords[domain.Invoice](s, CollectionInvoices)
}

// FindInvoice retrieves an invoice by id.
func (s *Store) FindInvoice(id int) (domain.Invoice, bool) {
	return findRecord[domain.Invoice, *domain.Invoice](s, CollectionInvoices, id)
}

// AddInvoice stores a new invoice.
func (s *Store) AddInvoice(i domain.Invoice) (domain.Invoice, bool) {
	return addRecord[domain.Invoice, *domain.Invoice](s, CollectionInvoices, i)
}

// UpdateInvoice applies a partial update to an invoice.
func (s *Store) UpdateInvoice(id int, patch domain.InvoicePatch) (domain.Invoice, bool) {
	return updateRecord[domain.Invoice, *domain.Invoice](s, CollectionInvoices, id, patch)
}

// DeleteInvoice removes an invoice, reporting whether a removal occurred.
func (s *Store) DeleteInvoice(id int) bool {
	return deleteRecord[domain.Invoice, *domain.Invoice](s, CollectionInvoices, id)
}

// SearchInvoices filters invoices by case-insensitive substring match.
func (s *Store) SearchInvoices(term string, fields ...string) []domain.Invoice {
	return searchRecords[domain.Invoice](s, CollectionInvoices, term, fields)
}

// ListPayments returns all payments in insertion order.
func (s *Store) ListPayments() []domain.Payment {
	return listRecords[domain.Payment](s, CollectionPayments)
}

// FindPayment retrieves a payment by id.
func (s *Store) FindPayment(id int) (domain.Payment, bool) {
	return findRecord[domain.Payment, *domain.Payment](s, CollectionPayments, id)
}

// AddPayment stores a new payment.
func (s *Store) AddPayment(p domain.Payment) (domain.Payment, bool) {
	return addRecord[domain.Payment, *domain.Payment](s, CollectionPayments, p)
}

// UpdatePayment applies a partial update to a payment.
func (s *Store) UpdatePayment(id int, patch domain.PaymentPatch) (domain.Payment, bool) {
	return updateRecord[domain.Payment, *domain.Payment](s, CollectionPayments, id, patch)
}

// DeletePayment removes a payment, reporting whether a removal occurred.
func (s *Store) DeletePayment(id int) bool {
	return deleteRecord[domain.Payment, *domain.Payment](s, CollectionPayments, id)
}

// SearchPayments filters payments by case-insensitive substring match.
func (s *Store) SearchPayments(term string, fields ...string) []domain.Payment {
	return searchRecords[domain.Payment](s, CollectionPayments, term, fields)
}
