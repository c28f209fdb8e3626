package core

import (
	"context"
	"fmt"
	"time"

	"hospicore/pkg/domain"
)

// ErrNotFound is returned when a service operation references a record that
// does not exist.
type ErrNotFound struct {
	Entity domain.EntityType
	ID     int
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ErrRoomOccupied is returned when a room cannot be deleted because beds are
// still occupied.
type ErrRoomOccupied struct {
	RoomID      int
	LitsOccupes int
}

func (e ErrRoomOccupied) Error() string {
	return fmt.Sprintf("room %d still has %d occupied beds", e.RoomID, e.LitsOccupes)
}

// Service exposes the typed CRUD surface of the application. Every mutation
// follows the same protocol: persist through the store, apply the matching
// consistency hooks, then evaluate the validation rules against the resulting
// state. Rule warnings travel in the returned Result; blocking violations
// revert the triggering record and surface as RuleViolationError.
type Service struct {
	store       *Store
	engine      *domain.RulesEngine
	consistency *ConsistencyRules
	queries     *Queries
	metrics     MetricsRecorder
	logger      Logger
	nowFn       func() time.Time
}

// ServiceOption customises service construction.
type ServiceOption func(*Service)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithLogger attaches a logger for diagnostics.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches a metrics recorder for operation outcomes and rule
// violations.
func WithMetrics(metrics MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewService constructs a service backed by the supplied store and rules
// engine. A nil engine gets the default rule set.
func NewService(store *Store, engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	s := &Service{
		store:   store,
		engine:  engine,
		queries: NewQueries(store),
		metrics: noopMetrics{},
		logger:  noopLogger{},
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.consistency = NewConsistencyRules(store, s.logger)
	return s
}

// Store returns the underlying collection store.
func (s *Service) Store() *Store {
	return s.store
}

// Queries returns the read-side facade over the service's store.
func (s *Service) Queries() *Queries {
	return s.queries
}

// commit evaluates the validation rules for the given changes. When a
// blocking violation is found, revert is invoked to undo the triggering
// record and the result is wrapped in a RuleViolationError.
func (s *Service) commit(ctx context.Context, changes []domain.Change, revert func()) (domain.Result, error) {
	res, err := s.engine.Evaluate(ctx, s.store, changes)
	if err != nil {
		return res, err
	}
	for _, v := range res.Violations {
		s.metrics.ObserveViolation(ctx, v.Rule, v.Severity)
		if v.Severity == domain.SeverityLog {
			s.logger.Info("rule triggered", "rule", v.Rule, "entity", v.Entity, "id", v.EntityID, "message", v.Message)
		}
	}
	if res.HasBlocking() {
		if revert != nil {
			revert()
		}
		return res, domain.RuleViolationError{Result: res}
	}
	return res, nil
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, s.nowFn().Sub(start))
}

func storageError(op string) error {
	return fmt.Errorf("%s: backend write failed", op)
}

// CreatePatient persists a new patient.
func (s *Service) CreatePatient(ctx context.Context, patient domain.Patient) (_ domain.Patient, res domain.Result, err error) {
	const op = "create_patient"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	created, ok := s.store.AddPatient(patient)
	if !ok {
		return domain.Patient{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityPatient, Action: domain.ActionCreate, ID: created.ID, After: created},
	}, func() { s.store.DeletePatient(created.ID) })
	if err != nil {
		return domain.Patient{}, res, err
	}
	return created, res, nil
}

// UpdatePatient applies a partial patch to an existing patient.
func (s *Service) UpdatePatient(ctx context.Context, id int, patch domain.PatientPatch) (_ domain.Patient, res domain.Result, err error) {
	const op = "update_patient"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindPatient(id)
	if !ok {
		return domain.Patient{}, domain.Result{}, ErrNotFound{Entity: domain.EntityPatient, ID: id}
	}
	updated, ok := s.store.UpdatePatient(id, patch)
	if !ok {
		return domain.Patient{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityPatient, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, func() { s.restorePatient(before) })
	if err != nil {
		return domain.Patient{}, res, err
	}
	return updated, res, nil
}

// DeletePatient removes a patient record.
func (s *Service) DeletePatient(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_patient"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindPatient(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityPatient, ID: id}
	}
	if !s.store.DeletePatient(id) {
		return domain.Result{}, storageError(op)
	}
	return s.commit(ctx, []domain.Change{
		{Entity: domain.EntityPatient, Action: domain.ActionDelete, ID: id, Before: before},
	}, func() { s.restorePatient(before) })
}

// CreateDoctor persists a new doctor.
func (s *Service) CreateDoctor(ctx context.Context, doctor domain.Doctor) (_ domain.Doctor, res domain.Result, err error) {
	const op = "create_doctor"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	created, ok := s.store.AddDoctor(doctor)
	if !ok {
		return domain.Doctor{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityDoctor, Action: domain.ActionCreate, ID: created.ID, After: created},
	}, func() { s.store.DeleteDoctor(created.ID) })
	if err != nil {
		return domain.Doctor{}, res, err
	}
	return created, res, nil
}

// UpdateDoctor applies a partial patch to an existing doctor.
func (s *Service) UpdateDoctor(ctx context.Context, id int, patch domain.DoctorPatch) (_ domain.Doctor, res domain.Result, err error) {
	const op = "update_doctor"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindDoctor(id)
	if !ok {
		return domain.Doctor{}, domain.Result{}, ErrNotFound{Entity: domain.EntityDoctor, ID: id}
	}
	updated, ok := s.store.UpdateDoctor(id, patch)
	if !ok {
		return domain.Doctor{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityDoctor, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, func() { s.restoreDoctor(before) })
	if err != nil {
		return domain.Doctor{}, res, err
	}
	return updated, res, nil
}

// DeleteDoctor removes a doctor record.
func (s *Service) DeleteDoctor(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_doctor"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindDoctor(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityDoctor, ID: id}
	}
	if !s.store.DeleteDoctor(id) {
		return domain.Result{}, storageError(op)
	}
	return s.commit(ctx, []domain.Change{
		{Entity: domain.EntityDoctor, Action: domain.ActionDelete, ID: id, Before: before},
	}, func() { s.restoreDoctor(before) })
}

// CreateAppointment persists a new appointment. Overlapping bookings for the
// same doctor surface as warnings, not errors.
func (s *Service) CreateAppointment(ctx context.Context, appointment domain.Appointment) (_ domain.Appointment, res domain.Result, err error) {
	const op = "create_appointment"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	if appointment.Statut == "" {
		appointment.Statut = domain.AppointmentProgramme
	}
	created, ok := s.store.AddAppointment(appointment)
	if !ok {
		return domain.Appointment{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityAppointment, Action: domain.ActionCreate, ID: created.ID, After: created},
	}, func() { s.store.DeleteAppointment(created.ID) })
	if err != nil {
		return domain.Appointment{}, res, err
	}
	return created, res, nil
}

// UpdateAppointment applies a partial patch to an existing appointment.
func (s *Service) UpdateAppointment(ctx context.Context, id int, patch domain.AppointmentPatch) (_ domain.Appointment, res domain.Result, err error) {
	const op = "update_appointment"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindAppointment(id)
	if !ok {
		return domain.Appointment{}, domain.Result{}, ErrNotFound{Entity: domain.EntityAppointment, ID: id}
	}
	updated, ok := s.store.UpdateAppointment(id, patch)
	if !ok {
		return domain.Appointment{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityAppointment, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, func() { s.restoreAppointment(before) })
	if err != nil {
		return domain.Appointment{}, res, err
	}
	return updated, res, nil
}

// DeleteAppointment removes an appointment record.
func (s *Service) DeleteAppointment(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_appointment"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindAppointment(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityAppointment, ID: id}
	}
	if !s.store.DeleteAppointment(id) {
		return domain.Result{}, storageError(op)
	}
	return s.commit(ctx, []domain.Change{
		{Entity: domain.EntityAppointment, Action: domain.ActionDelete, ID: id, Before: before},
	}, func() { s.restoreAppointment(before) })
}

// CreateMedicament persists a new medicament. StockActuel defaults to
// StockInitial when unset.
func (s *Service) CreateMedicament(ctx context.Context, medicament domain.Medicament) (_ domain.Medicament, res domain.Result, err error) {
	const op = "create_medicament"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	if medicament.StockActuel == 0 && medicament.StockInitial > 0 {
		medicament.StockActuel = medicament.StockInitial
	}
	created, ok := s.store.AddMedicament(medicament)
	if !ok {
		return domain.Medicament{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityMedicament, Action: domain.ActionCreate, ID: created.ID, After: created},
	}, func() { s.store.DeleteMedicament(created.ID) })
	if err != nil {
		return domain.Medicament{}, res, err
	}
	return created, res, nil
}

// UpdateMedicament applies a partial patch to an existing medicament.
func (s *Service) UpdateMedicament(ctx context.Context, id int, patch domain.MedicamentPatch) (_ domain.Medicament, res domain.Result, err error) {
	const op = "update_medicament"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindMedicament(id)
	if !ok {
		return domain.Medicament{}, domain.Result{}, ErrNotFound{Entity: domain.EntityMedicament, ID: id}
	}
	updated, ok := s.store.UpdateMedicament(id, patch)
	if !ok {
		return domain.Medicament{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityMedicament, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, func() { s.restoreMedicament(before) })
	if err != nil {
		return domain.Medicament{}, res, err
	}
	return updated, res, nil
}

// DeleteMedicament removes a medicament record.
func (s *Service) DeleteMedicament(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_medicament"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindMedicament(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityMedicament, ID: id}
	}
	if !s.store.DeleteMedicament(id) {
		return domain.Result{}, storageError(op)
	}
	return s.commit(ctx, []domain.Change{
		{Entity: domain.EntityMedicament, Action: domain.ActionDelete, ID: id, Before: before},
	}, func() { s.restoreMedicament(before) })
}

// AdjustMedicamentStock applies a manual stock delta (restock or correction),
// clamped at zero.
func (s *Service) AdjustMedicamentStock(ctx context.Context, id, delta int) (_ domain.Medicament, res domain.Result, err error) {
	const op = "adjust_medicament_stock"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindMedicament(id)
	if !ok {
		return domain.Medicament{}, domain.Result{}, ErrNotFound{Entity: domain.EntityMedicament, ID: id}
	}
	s.consistency.AdjustMedicamentStock(id, delta)
	updated, ok := s.store.FindMedicament(id)
	if !ok {
		return domain.Medicament{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityMedicament, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, func() { s.restoreMedicament(before) })
	if err != nil {
		return domain.Medicament{}, res, err
	}
	return updated, res, nil
}

// CreatePrescription persists a new prescription and deducts the prescribed
// quantity from the medicament's stock.
func (s *Service) CreatePrescription(ctx context.Context, prescription domain.Prescription) (_ domain.Prescription, res domain.Result, err error) {
	const op = "create_prescription"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	if prescription.Statut == "" {
		prescription.Statut = domain.PrescriptionEnAttente
	}
	created, ok := s.store.AddPrescription(prescription)
	if !ok {
		return domain.Prescription{}, domain.Result{}, storageError(op)
	}
	s.consistency.OnPrescriptionChange(created.MedicamentID, 0, created.Quantite)
	res, err = s.commit(ctx, s.prescriptionChanges(domain.ActionCreate, created.ID, nil, &created), func() {
		s.store.DeletePrescription(created.ID)
		s.consistency.OnPrescriptionDelete(created)
	})
	if err != nil {
		return domain.Prescription{}, res, err
	}
	return created, res, nil
}

// UpdatePrescription applies a partial patch to an existing prescription,
// reconciling medicament stock with the quantity or medicament change.
func (s *Service) UpdatePrescription(ctx context.Context, id int, patch domain.PrescriptionPatch) (_ domain.Prescription, res domain.Result, err error) {
	const op = "update_prescription"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindPrescription(id)
	if !ok {
		return domain.Prescription{}, domain.Result{}, ErrNotFound{Entity: domain.EntityPrescription, ID: id}
	}
	updated, ok := s.store.UpdatePrescription(id, patch)
	if !ok {
		return domain.Prescription{}, domain.Result{}, storageError(op)
	}
	if updated.MedicamentID != before.MedicamentID {
		s.consistency.OnPrescriptionDelete(before)
		s.consistency.OnPrescriptionChange(updated.MedicamentID, 0, updated.Quantite)
	} else {
		s.consistency.OnPrescriptionChange(updated.MedicamentID, before.Quantite, updated.Quantite)
	}
	res, err = s.commit(ctx, s.prescriptionChanges(domain.ActionUpdate, id, &before, &updated), nil)
	if err != nil {
		return domain.Prescription{}, res, err
	}
	return updated, res, nil
}

// DeletePrescription removes a prescription and restores the prescribed
// quantity to the medicament's stock.
func (s *Service) DeletePrescription(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_prescription"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindPrescription(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityPrescription, ID: id}
	}
	if !s.store.DeletePrescription(id) {
		return domain.Result{}, storageError(op)
	}
	s.consistency.OnPrescriptionDelete(before)
	return s.commit(ctx, s.prescriptionChanges(domain.ActionDelete, id, &before, nil), nil)
}

// prescriptionChanges builds the change set for a prescription mutation,
// including the touched medicament so stock rules see the new level.
func (s *Service) prescriptionChanges(action domain.Action, id int, before, after *domain.Prescription) []domain.Change {
	change := domain.Change{Entity: domain.EntityPrescription, Action: action, ID: id}
	medicamentIDs := make([]int, 0, 2)
	if before != nil {
		change.Before = *before
		medicamentIDs = append(medicamentIDs, before.MedicamentID)
	}
	if after != nil {
		change.After = *after
		if before == nil || after.MedicamentID != before.MedicamentID {
			medicamentIDs = append(medicamentIDs, after.MedicamentID)
		}
	}
	changes := []domain.Change{change}
	for _, medicamentID := range medicamentIDs {
		if medicament, ok := s.store.FindMedicament(medicamentID); ok {
			changes = append(changes, domain.Change{
				Entity: domain.EntityMedicament,
				Action: domain.ActionUpdate,
				ID:     medicamentID,
				After:  medicament,
			})
		}
	}
	return changes
}

// CreateRoom persists a new room. Occupancy is clamped to [0, capacite] and
// the status derived from occupancy unless a sticky status was supplied.
func (s *Service) CreateRoom(ctx context.Context, room domain.Room) (_ domain.Room, res domain.Result, err error) {
	const op = "create_room"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	if room.LitsOccupes < 0 {
		room.LitsOccupes = 0
	}
	if room.LitsOccupes > room.Capacite {
		room.LitsOccupes = room.Capacite
	}
	if room.Statut == "" {
		room.Statut = domain.RoomDisponible
		if room.LitsOccupes > 0 {
			room.Statut = domain.RoomOccupee
		}
	}
	created, ok := s.store.AddRoom(room)
	if !ok {
		return domain.Room{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityRoom, Action: domain.ActionCreate, ID: created.ID, After: created},
	}, func() { s.store.DeleteRoom(created.ID) })
	if err != nil {
		return domain.Room{}, res, err
	}
	return created, res, nil
}

// UpdateRoom applies a partial patch to an existing room, re-clamping
// occupancy and re-deriving the status.
func (s *Service) UpdateRoom(ctx context.Context, id int, patch domain.RoomPatch) (_ domain.Room, res domain.Result, err error) {
	const op = "update_room"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindRoom(id)
	if !ok {
		return domain.Room{}, domain.Result{}, ErrNotFound{Entity: domain.EntityRoom, ID: id}
	}
	if _, ok := s.store.UpdateRoom(id, patch); !ok {
		return domain.Room{}, domain.Result{}, storageError(op)
	}
	s.consistency.adjustRoomOccupancy(id, 0)
	s.consistency.RecomputeRoomStatus(id)
	updated, ok := s.store.FindRoom(id)
	if !ok {
		return domain.Room{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityRoom, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, func() { s.restoreRoom(before) })
	if err != nil {
		return domain.Room{}, res, err
	}
	return updated, res, nil
}

// DeleteRoom removes a room record. Rooms with occupied beds are refused.
func (s *Service) DeleteRoom(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_room"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindRoom(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityRoom, ID: id}
	}
	if before.LitsOccupes > 0 {
		return domain.Result{}, ErrRoomOccupied{RoomID: id, LitsOccupes: before.LitsOccupes}
	}
	if !s.store.DeleteRoom(id) {
		return domain.Result{}, storageError(op)
	}
	return s.commit(ctx, []domain.Change{
		{Entity: domain.EntityRoom, Action: domain.ActionDelete, ID: id, Before: before},
	}, func() { s.restoreRoom(before) })
}

// CreateAdmission persists a new admission and occupies a bed in the target
// room.
func (s *Service) CreateAdmission(ctx context.Context, admission domain.Admission) (_ domain.Admission, res domain.Result, err error) {
	const op = "create_admission"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	if admission.StatutAdmission == "" {
		admission.StatutAdmission = domain.AdmissionActif
	}
	created, ok := s.store.AddAdmission(admission)
	if !ok {
		return domain.Admission{}, domain.Result{}, storageError(op)
	}
	if created.StatutAdmission != domain.AdmissionSorti {
		s.consistency.OnAdmissionRoomChange(0, created.RoomID, false)
	}
	res, err = s.commit(ctx, s.admissionChanges(domain.ActionCreate, created.ID, nil, &created), func() {
		s.store.DeleteAdmission(created.ID)
		if created.StatutAdmission != domain.AdmissionSorti {
			s.consistency.OnAdmissionRoomChange(created.RoomID, 0, true)
		}
	})
	if err != nil {
		return domain.Admission{}, res, err
	}
	return created, res, nil
}

// UpdateAdmission applies a partial patch to an existing admission, moving
// bed occupancy when the room or lifecycle status changes.
func (s *Service) UpdateAdmission(ctx context.Context, id int, patch domain.AdmissionPatch) (_ domain.Admission, res domain.Result, err error) {
	const op = "update_admission"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindAdmission(id)
	if !ok {
		return domain.Admission{}, domain.Result{}, ErrNotFound{Entity: domain.EntityAdmission, ID: id}
	}
	updated, ok := s.store.UpdateAdmission(id, patch)
	if !ok {
		return domain.Admission{}, domain.Result{}, storageError(op)
	}
	wasInRoom := before.StatutAdmission != domain.AdmissionSorti
	isInRoom := updated.StatutAdmission != domain.AdmissionSorti
	switch {
	case wasInRoom && !isInRoom:
		s.consistency.OnAdmissionRoomChange(before.RoomID, updated.RoomID, true)
	case !wasInRoom && isInRoom:
		s.consistency.OnAdmissionRoomChange(0, updated.RoomID, false)
	case wasInRoom && isInRoom && before.RoomID != updated.RoomID:
		s.consistency.OnAdmissionRoomChange(before.RoomID, updated.RoomID, false)
	}
	res, err = s.commit(ctx, s.admissionChanges(domain.ActionUpdate, id, &before, &updated), nil)
	if err != nil {
		return domain.Admission{}, res, err
	}
	return updated, res, nil
}

// DischargeAdmission marks an admission as Sorti with the given exit date and
// time, freeing the bed.
func (s *Service) DischargeAdmission(ctx context.Context, id int, dateSortie, heureSortie string) (domain.Admission, domain.Result, error) {
	statut := domain.AdmissionSorti
	return s.UpdateAdmission(ctx, id, domain.AdmissionPatch{
		StatutAdmission: &statut,
		DateSortie:      &dateSortie,
		HeureSortie:     &heureSortie,
	})
}

// DeleteAdmission removes an admission record, freeing the bed when the
// admission was still active.
func (s *Service) DeleteAdmission(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_admission"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindAdmission(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityAdmission, ID: id}
	}
	if !s.store.DeleteAdmission(id) {
		return domain.Result{}, storageError(op)
	}
	if before.StatutAdmission != domain.AdmissionSorti {
		s.consistency.OnAdmissionRoomChange(before.RoomID, 0, true)
	}
	return s.commit(ctx, s.admissionChanges(domain.ActionDelete, id, &before, nil), nil)
}

// admissionChanges builds the change set for an admission mutation, including
// the touched rooms so occupancy rules see the new beds.
func (s *Service) admissionChanges(action domain.Action, id int, before, after *domain.Admission) []domain.Change {
	change := domain.Change{Entity: domain.EntityAdmission, Action: action, ID: id}
	roomIDs := make([]int, 0, 2)
	if before != nil {
		change.Before = *before
		roomIDs = append(roomIDs, before.RoomID)
	}
	if after != nil {
		change.After = *after
		if before == nil || after.RoomID != before.RoomID {
			roomIDs = append(roomIDs, after.RoomID)
		}
	}
	changes := []domain.Change{change}
	for _, roomID := range roomIDs {
		if room, ok := s.store.FindRoom(roomID); ok {
			changes = append(changes, domain.Change{
				Entity: domain.EntityRoom,
				Action: domain.ActionUpdate,
				ID:     roomID,
				After:  room,
			})
		}
	}
	return changes
}

// CreateInvoice persists a new invoice with derived totals recomputed from
// its service lines.
func (s *Service) CreateInvoice(ctx context.Context, invoice domain.Invoice) (_ domain.Invoice, res domain.Result, err error) {
	const op = "create_invoice"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	computeInvoiceTotals(&invoice)
	if invoice.Statut == "" {
		invoice.Statut = domain.InvoiceNonPayee
	}
	created, ok := s.store.AddInvoice(invoice)
	if !ok {
		return domain.Invoice{}, domain.Result{}, storageError(op)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityInvoice, Action: domain.ActionCreate, ID: created.ID, After: created},
	}, func() { s.store.DeleteInvoice(created.ID) })
	if err != nil {
		return domain.Invoice{}, res, err
	}
	return created, res, nil
}

// UpdateInvoice applies a partial patch to an existing invoice, recomputing
// derived totals and the payment status.
func (s *Service) UpdateInvoice(ctx context.Context, id int, patch domain.InvoicePatch) (_ domain.Invoice, res domain.Result, err error) {
	const op = "update_invoice"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindInvoice(id)
	if !ok {
		return domain.Invoice{}, domain.Result{}, ErrNotFound{Entity: domain.EntityInvoice, ID: id}
	}
	updated, ok := s.store.UpdateInvoice(id, patch)
	if !ok {
		return domain.Invoice{}, domain.Result{}, storageError(op)
	}
	recomputed := updated
	computeInvoiceTotals(&recomputed)
	if recomputed.SousTotal != updated.SousTotal || recomputed.TVA != updated.TVA ||
		recomputed.MontantTva != updated.MontantTva || recomputed.TotalGeneral != updated.TotalGeneral {
		if !restoreRecord[domain.Invoice, *domain.Invoice](s.store, CollectionInvoices, recomputed) {
			return domain.Invoice{}, domain.Result{}, storageError(op)
		}
		updated = recomputed
	}
	s.consistency.OnPaymentChange(id)
	if refreshed, ok := s.store.FindInvoice(id); ok {
		updated = refreshed
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityInvoice, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, func() { s.restoreInvoice(before) })
	if err != nil {
		return domain.Invoice{}, res, err
	}
	return updated, res, nil
}

// DeleteInvoice removes an invoice record. Payments referencing it become
// dangling and render with a sentinel label.
func (s *Service) DeleteInvoice(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_invoice"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindInvoice(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityInvoice, ID: id}
	}
	if !s.store.DeleteInvoice(id) {
		return domain.Result{}, storageError(op)
	}
	return s.commit(ctx, []domain.Change{
		{Entity: domain.EntityInvoice, Action: domain.ActionDelete, ID: id, Before: before},
	}, func() { s.restoreInvoice(before) })
}

// CreatePayment records a payment and recomputes the invoice's payment
// status.
func (s *Service) CreatePayment(ctx context.Context, payment domain.Payment) (_ domain.Payment, res domain.Result, err error) {
	const op = "create_payment"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	created, ok := s.store.AddPayment(payment)
	if !ok {
		return domain.Payment{}, domain.Result{}, storageError(op)
	}
	s.consistency.OnPaymentChange(created.InvoiceID)
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityPayment, Action: domain.ActionCreate, ID: created.ID, After: created},
	}, func() {
		s.store.DeletePayment(created.ID)
		s.consistency.OnPaymentChange(created.InvoiceID)
	})
	if err != nil {
		return domain.Payment{}, res, err
	}
	return created, res, nil
}

// UpdatePayment applies a partial patch to an existing payment, recomputing
// the payment status of every touched invoice.
func (s *Service) UpdatePayment(ctx context.Context, id int, patch domain.PaymentPatch) (_ domain.Payment, res domain.Result, err error) {
	const op = "update_payment"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindPayment(id)
	if !ok {
		return domain.Payment{}, domain.Result{}, ErrNotFound{Entity: domain.EntityPayment, ID: id}
	}
	updated, ok := s.store.UpdatePayment(id, patch)
	if !ok {
		return domain.Payment{}, domain.Result{}, storageError(op)
	}
	s.consistency.OnPaymentChange(updated.InvoiceID)
	if before.InvoiceID != updated.InvoiceID {
		s.consistency.OnPaymentChange(before.InvoiceID)
	}
	res, err = s.commit(ctx, []domain.Change{
		{Entity: domain.EntityPayment, Action: domain.ActionUpdate, ID: id, Before: before, After: updated},
	}, nil)
	if err != nil {
		return domain.Payment{}, res, err
	}
	return updated, res, nil
}

// DeletePayment removes a payment and reverts the invoice's payment status
// accordingly.
func (s *Service) DeletePayment(ctx context.Context, id int) (res domain.Result, err error) {
	const op = "delete_payment"
	start := s.nowFn()
	defer func() { s.observe(ctx, op, start, err) }()

	before, ok := s.store.FindPayment(id)
	if !ok {
		return domain.Result{}, ErrNotFound{Entity: domain.EntityPayment, ID: id}
	}
	if !s.store.DeletePayment(id) {
		return domain.Result{}, storageError(op)
	}
	s.consistency.OnPaymentChange(before.InvoiceID)
	return s.commit(ctx, []domain.Change{
		{Entity: domain.EntityPayment, Action: domain.ActionDelete, ID: id, Before: before},
	}, nil)
}

func (s *Service) restorePatient(p domain.Patient) {
	restoreRecord[domain.Patient, *domain.Patient](s.store, CollectionPatients, p)
}

func (s *Service) restoreDoctor(d domain.Doctor) {
	restoreRecord[domain.Doctor, *domain.Doctor](s.store, CollectionDoctors, d)
}

func (s *Service) restoreAppointment(a domain.Appointment) {
	restoreRecord[domain.Appointment, *domain.Appointment](s.store, CollectionAppointments, a)
}

func (s *Service) restoreMedicament(m domain.Medicament) {
	restoreRecord[domain.Medicament, *domain.Medicament](s.store, CollectionMedicaments, m)
}

func (s *Service) restoreRoom(r domain.Room) {
	restoreRecord[domain.Room, *domain.Room](s.store, CollectionRooms, r)
}

func (s *Service) restoreInvoice(i domain.Invoice) {
	restoreRecord[domain.Invoice, *domain.Invoice](s.store, CollectionInvoices, i)
}

// computeInvoiceTotals derives sousTotal, montantTva and totalGeneral from
// the service lines. A zero TVA rate falls back to the default 20%.
func computeInvoiceTotals(invoice *domain.Invoice) {
	if invoice.TVA == 0 {
		invoice.TVA = 20
	}
	var sousTotal float64
	for _, line := range invoice.Services {
		sousTotal += float64(line.Quantite) * line.PrixUnitaire
	}
	invoice.SousTotal = sousTotal
	invoice.MontantTva = sousTotal * (invoice.TVA / 100)
	invoice.TotalGeneral = invoice.SousTotal + invoice.MontantTva
}
