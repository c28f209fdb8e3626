package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospicore/internal/keyvalue"
	"hospicore/pkg/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore(keyvalue.NewMemory(), WithStoreClock(func() time.Time { return clock }))
	return NewService(store, nil, WithClock(func() time.Time { return clock }))
}

func TestServiceCreateAndUpdatePatient(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, res, err := svc.CreatePatient(ctx, domain.Patient{Nom: "Dupont", Prenom: "Jean"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("unexpected violations: %+v", res.Violations)
	}
	if created.ID == 0 {
		t.Fatal("id not assigned")
	}

	nom := "Durand"
	updated, _, err := svc.UpdatePatient(ctx, created.ID, domain.PatientPatch{Nom: &nom})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Nom != "Durand" || updated.Prenom != "Jean" {
		t.Fatalf("patch merge wrong: %+v", updated)
	}

	var notFound ErrNotFound
	if _, _, err := svc.UpdatePatient(ctx, 999, domain.PatientPatch{Nom: &nom}); !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notFound.Entity != domain.EntityPatient || notFound.ID != 999 {
		t.Fatalf("ErrNotFound fields: %+v", notFound)
	}
}

func TestAppointmentConflictWarns(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateAppointment(ctx, domain.Appointment{
		PatientID: 1, DoctorID: 1, Date: "2026-03-02", Heure: "10:00", Duree: 30,
	})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// 10:15 overlaps [10:00, 10:30): soft conflict, booking still commits.
	created, res, err := svc.CreateAppointment(ctx, domain.Appointment{
		PatientID: 2, DoctorID: 1, Date: "2026-03-02", Heure: "10:15", Duree: 30,
	})
	if err != nil {
		t.Fatalf("overlapping booking must still commit: %v", err)
	}
	if len(res.Warnings()) != 1 {
		t.Fatalf("expected 1 conflict warning, got %+v", res.Violations)
	}
	if _, ok := svc.Store().FindAppointment(created.ID); !ok {
		t.Fatal("warned appointment must be persisted")
	}

	// Clear the overridden booking so only the 10:00 slot remains.
	if _, err := svc.DeleteAppointment(ctx, created.ID); err != nil {
		t.Fatalf("delete overlapping booking: %v", err)
	}

	// 10:30 touches the 10:00 slot's end: adjacency is not a conflict.
	_, res, err = svc.CreateAppointment(ctx, domain.Appointment{
		PatientID: 3, DoctorID: 1, Date: "2026-03-02", Heure: "10:30", Duree: 30,
	})
	if err != nil {
		t.Fatalf("adjacent booking: %v", err)
	}
	if len(res.Warnings()) != 0 {
		t.Fatalf("adjacent slot must not warn: %+v", res.Violations)
	}

	// Other doctor, same slot: no conflict.
	_, res, _ = svc.CreateAppointment(ctx, domain.Appointment{
		PatientID: 4, DoctorID: 2, Date: "2026-03-02", Heure: "10:15", Duree: 30,
	})
	if len(res.Warnings()) != 0 {
		t.Fatalf("different doctor must not warn: %+v", res.Violations)
	}
}

func TestPrescriptionLifecycleAdjustsStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	med, _, err := svc.CreateMedicament(ctx, domain.Medicament{Nom: "Paracétamol", StockInitial: 50, StockMinimum: 5})
	if err != nil {
		t.Fatalf("create medicament: %v", err)
	}
	if med.StockActuel != 50 {
		t.Fatalf("stockActuel should default to stockInitial, got %d", med.StockActuel)
	}

	presc, _, err := svc.CreatePrescription(ctx, domain.Prescription{PatientID: 1, DoctorID: 1, MedicamentID: med.ID, Quantite: 8})
	if err != nil {
		t.Fatalf("create prescription: %v", err)
	}
	if presc.Statut != domain.PrescriptionEnAttente {
		t.Fatalf("default status = %s", presc.Statut)
	}
	if got, _ := svc.Store().FindMedicament(med.ID); got.StockActuel != 42 {
		t.Fatalf("stock after create = %d, want 42", got.StockActuel)
	}

	quantite := 12
	if _, _, err := svc.UpdatePrescription(ctx, presc.ID, domain.PrescriptionPatch{Quantite: &quantite}); err != nil {
		t.Fatalf("update prescription: %v", err)
	}
	if got, _ := svc.Store().FindMedicament(med.ID); got.StockActuel != 38 {
		t.Fatalf("stock after raise = %d, want 38", got.StockActuel)
	}

	if _, err := svc.DeletePrescription(ctx, presc.ID); err != nil {
		t.Fatalf("delete prescription: %v", err)
	}
	if got, _ := svc.Store().FindMedicament(med.ID); got.StockActuel != 50 {
		t.Fatalf("stock after delete = %d, want 50", got.StockActuel)
	}
}

func TestPrescriptionStockClampsAndLogs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	med, _, _ := svc.CreateMedicament(ctx, domain.Medicament{Nom: "Amoxicilline", StockInitial: 5, StockMinimum: 3})
	_, res, err := svc.CreatePrescription(ctx, domain.Prescription{MedicamentID: med.ID, Quantite: 20})
	if err != nil {
		t.Fatalf("prescription above stock must still commit: %v", err)
	}
	if got, _ := svc.Store().FindMedicament(med.ID); got.StockActuel != 0 {
		t.Fatalf("stock = %d, want clamp at 0", got.StockActuel)
	}
	if len(res.Violations) == 0 {
		t.Fatal("exhausted stock should surface a stock_level violation")
	}
}

func TestAdmissionLifecycleDrivesOccupancy(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	roomA, _, _ := svc.CreateRoom(ctx, domain.Room{Numero: "101", Capacite: 2})
	roomB, _, _ := svc.CreateRoom(ctx, domain.Room{Numero: "102", Capacite: 1})

	adm, _, err := svc.CreateAdmission(ctx, domain.Admission{PatientID: 1, RoomID: roomA.ID, DateAdmission: "2026-03-01"})
	if err != nil {
		t.Fatalf("create admission: %v", err)
	}
	if adm.StatutAdmission != domain.AdmissionActif {
		t.Fatalf("default status = %s", adm.StatutAdmission)
	}
	if got, _ := svc.Store().FindRoom(roomA.ID); got.LitsOccupes != 1 || got.Statut != domain.RoomOccupee {
		t.Fatalf("room A after admission: %+v", got)
	}

	// Transfer to room B.
	if _, _, err := svc.UpdateAdmission(ctx, adm.ID, domain.AdmissionPatch{RoomID: &roomB.ID}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got, _ := svc.Store().FindRoom(roomA.ID); got.LitsOccupes != 0 || got.Statut != domain.RoomDisponible {
		t.Fatalf("room A after transfer: %+v", got)
	}
	if got, _ := svc.Store().FindRoom(roomB.ID); got.LitsOccupes != 1 {
		t.Fatalf("room B after transfer: %+v", got)
	}

	// Discharge frees the bed and records the exit.
	discharged, _, err := svc.DischargeAdmission(ctx, adm.ID, "2026-03-05", "16:30")
	if err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if discharged.StatutAdmission != domain.AdmissionSorti || discharged.DateSortie != "2026-03-05" {
		t.Fatalf("discharge fields: %+v", discharged)
	}
	if got, _ := svc.Store().FindRoom(roomB.ID); got.LitsOccupes != 0 || got.Statut != domain.RoomDisponible {
		t.Fatalf("room B after discharge: %+v", got)
	}

	// Deleting a discharged admission must not touch occupancy again.
	if _, err := svc.DeleteAdmission(ctx, adm.ID); err != nil {
		t.Fatalf("delete admission: %v", err)
	}
	if got, _ := svc.Store().FindRoom(roomB.ID); got.LitsOccupes != 0 {
		t.Fatalf("room B after delete: %+v", got)
	}
}

func TestDeleteActiveAdmissionFreesBed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	room, _, _ := svc.CreateRoom(ctx, domain.Room{Numero: "103", Capacite: 1})
	adm, _, _ := svc.CreateAdmission(ctx, domain.Admission{PatientID: 1, RoomID: room.ID})

	if _, err := svc.DeleteAdmission(ctx, adm.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := svc.Store().FindRoom(room.ID); got.LitsOccupes != 0 {
		t.Fatalf("bed not freed: %+v", got)
	}
}

func TestDeleteOccupiedRoomRefused(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	room, _, _ := svc.CreateRoom(ctx, domain.Room{Numero: "104", Capacite: 1})
	svc.CreateAdmission(ctx, domain.Admission{PatientID: 1, RoomID: room.ID})

	var occupied ErrRoomOccupied
	if _, err := svc.DeleteRoom(ctx, room.ID); !errors.As(err, &occupied) {
		t.Fatalf("expected ErrRoomOccupied, got %v", err)
	}
	if _, ok := svc.Store().FindRoom(room.ID); !ok {
		t.Fatal("refused delete must leave the room in place")
	}
}

func TestInvoiceTotalsDerivedFromServiceLines(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inv, _, err := svc.CreateInvoice(ctx, domain.Invoice{
		PatientID: 1,
		Services: []domain.ServiceLine{
			{Type: "Consultation", Quantite: 2, PrixUnitaire: 50},
			{Type: "Radiologie", Quantite: 1, PrixUnitaire: 100},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.SousTotal != 200 {
		t.Fatalf("sousTotal = %v, want 200", inv.SousTotal)
	}
	if inv.TVA != 20 || inv.MontantTva != 40 {
		t.Fatalf("tva = %v montantTva = %v, want 20 / 40", inv.TVA, inv.MontantTva)
	}
	if inv.TotalGeneral != 240 {
		t.Fatalf("totalGeneral = %v, want 240", inv.TotalGeneral)
	}
	if inv.Statut != domain.InvoiceNonPayee {
		t.Fatalf("default status = %s", inv.Statut)
	}

	lines := []domain.ServiceLine{{Type: "Consultation", Quantite: 1, PrixUnitaire: 50}}
	updated, _, err := svc.UpdateInvoice(ctx, inv.ID, domain.InvoicePatch{Services: &lines})
	if err != nil {
		t.Fatalf("update invoice: %v", err)
	}
	if updated.SousTotal != 50 || updated.TotalGeneral != 60 {
		t.Fatalf("totals not recomputed on update: %+v", updated)
	}
}

func TestPaymentsDriveInvoiceStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inv, _, _ := svc.CreateInvoice(ctx, domain.Invoice{
		PatientID: 1,
		TVA:       20,
		Services:  []domain.ServiceLine{{Type: "Séjour", Quantite: 1, PrixUnitaire: 250}},
	})
	// totalGeneral = 300

	p1, _, err := svc.CreatePayment(ctx, domain.Payment{InvoiceID: inv.ID, MontantPaiement: 120})
	if err != nil {
		t.Fatalf("payment 1: %v", err)
	}
	if got, _ := svc.Store().FindInvoice(inv.ID); got.Statut != domain.InvoicePartiellementPayee {
		t.Fatalf("after 120: %s", got.Statut)
	}

	if _, _, err := svc.CreatePayment(ctx, domain.Payment{InvoiceID: inv.ID, MontantPaiement: 180}); err != nil {
		t.Fatalf("payment 2: %v", err)
	}
	if got, _ := svc.Store().FindInvoice(inv.ID); got.Statut != domain.InvoicePayee {
		t.Fatalf("after 300: %s", got.Statut)
	}

	if _, err := svc.DeletePayment(ctx, p1.ID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	if got, _ := svc.Store().FindInvoice(inv.ID); got.Statut != domain.InvoicePartiellementPayee {
		t.Fatalf("after revert: %s", got.Statut)
	}
}

func TestServiceRecordsMetrics(t *testing.T) {
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore(keyvalue.NewMemory(), WithStoreClock(func() time.Time { return clock }))
	recorder := NewExpvarMetricsRecorder("")
	svc := NewService(store, nil, WithMetrics(recorder))
	ctx := context.Background()

	if _, _, err := svc.CreatePatient(ctx, domain.Patient{Nom: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.UpdatePatient(ctx, 999, domain.PatientPatch{}); err == nil {
		t.Fatal("expected not-found error")
	}

	snap := recorder.Snapshot()
	if snap.Results["create_patient"]["success"] != 1 {
		t.Fatalf("create_patient success not recorded: %+v", snap.Results)
	}
	if snap.Results["update_patient"]["error"] != 1 {
		t.Fatalf("update_patient error not recorded: %+v", snap.Results)
	}
}
