package core

import (
	"encoding/json"
	"testing"

	"hospicore/pkg/domain"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	patient, _ := src.AddPatient(domain.Patient{Nom: "Dupont", Prenom: "Jean", Age: 41})
	src.AddDoctor(domain.Doctor{Nom: "Martin", Specialite: "Cardiologie"})
	src.AddInvoice(domain.Invoice{
		PatientID:    patient.ID,
		Services:     []domain.ServiceLine{{Type: "Consultation", Quantite: 1, PrixUnitaire: 50}},
		TotalGeneral: 60,
	})

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestStore(t)
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	if got := dst.ListPatients(); len(got) != 1 || got[0] != patient {
		t.Fatalf("patients after import: %+v", got)
	}
	if got := dst.ListDoctors(); len(got) != 1 || got[0].Specialite != "Cardiologie" {
		t.Fatalf("doctors after import: %+v", got)
	}
	invoices := dst.ListInvoices()
	if len(invoices) != 1 || len(invoices[0].Services) != 1 || invoices[0].TotalGeneral != 60 {
		t.Fatalf("invoices after import: %+v", invoices)
	}
	if got, want := dst.Counters(), src.Counters(); got[CollectionPatients] != want[CollectionPatients] {
		t.Fatalf("counters after import: %v, want %v", got, want)
	}
}

func TestImportOverwritesWholesale(t *testing.T) {
	store := newTestStore(t)
	store.AddPatient(domain.Patient{Nom: "Ancien"})
	store.AddPatient(domain.Patient{Nom: "Encore"})

	snap := Snapshot{Patients: []domain.Patient{{Base: domain.Base{ID: 9}, Nom: "Nouveau"}}}
	if !store.ImportData(snap) {
		t.Fatal("import failed")
	}
	patients := store.ListPatients()
	if len(patients) != 1 || patients[0].Nom != "Nouveau" {
		t.Fatalf("patients = %+v, want only the imported one", patients)
	}
}

func TestImportLeavesAbsentCollectionsAlone(t *testing.T) {
	store := newTestStore(t)
	store.AddDoctor(domain.Doctor{Nom: "Martin"})

	snap := Snapshot{Patients: []domain.Patient{{Base: domain.Base{ID: 1}, Nom: "Dupont"}}}
	store.ImportData(snap)
	if got := store.ListDoctors(); len(got) != 1 {
		t.Fatalf("doctors clobbered by unrelated import: %+v", got)
	}
}

func TestImportWithoutCountersRaisesThem(t *testing.T) {
	store := newTestStore(t)
	snap := Snapshot{Patients: []domain.Patient{
		{Base: domain.Base{ID: 5}, Nom: "Dupont"},
		{Base: domain.Base{ID: 12}, Nom: "Durand"},
	}}
	if !store.ImportData(snap) {
		t.Fatal("import failed")
	}
	if got := store.NextID(CollectionPatients); got != 13 {
		t.Fatalf("next id after import = %d, want 13", got)
	}
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	store := newTestStore(t)
	if err := store.ImportJSON([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExportJSONUsesCamelCaseKeys(t *testing.T) {
	store := newTestStore(t)
	store.AddPatient(domain.Patient{Nom: "Dupont"})

	data, err := store.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, key := range []string{"exportedAt", "counters", "patients"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %q in export", key)
		}
	}
}

func TestLoadSeedFillsOnlyEmptyCollections(t *testing.T) {
	store := newTestStore(t)
	existing, _ := store.AddPatient(domain.Patient{Nom: "Déjà là"})

	if !store.LoadSeed(SampleSnapshot()) {
		t.Fatal("seed should report that it loaded something")
	}
	patients := store.ListPatients()
	if len(patients) != 1 || patients[0].ID != existing.ID {
		t.Fatalf("seed must not touch a populated collection: %+v", patients)
	}
	if len(store.ListDoctors()) == 0 {
		t.Fatal("empty doctors collection should be seeded")
	}
	if len(store.ListRooms()) == 0 {
		t.Fatal("empty rooms collection should be seeded")
	}
}

func TestLoadSeedIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	if !store.LoadSeed(SampleSnapshot()) {
		t.Fatal("first seed should load")
	}
	before := len(store.ListPatients())
	if store.LoadSeed(SampleSnapshot()) {
		t.Fatal("second seed should be a no-op")
	}
	if got := len(store.ListPatients()); got != before {
		t.Fatalf("patients grew on reseed: %d -> %d", before, got)
	}
}

func TestSeedRaisesCountersPastSampleIDs(t *testing.T) {
	store := newTestStore(t)
	store.LoadSeed(SampleSnapshot())

	maxID := 0
	for _, p := range store.ListPatients() {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	added, ok := store.AddPatient(domain.Patient{Nom: "Après seed"})
	if !ok {
		t.Fatal("add after seed failed")
	}
	if added.ID <= maxID {
		t.Fatalf("seeded id %d reused (max seeded %d)", added.ID, maxID)
	}
}
