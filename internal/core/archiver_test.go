package core

import (
	"context"
	"strings"
	"testing"

	"hospicore/internal/archive"
	"hospicore/pkg/domain"
)

func TestArchiverRoundTrip(t *testing.T) {
	store := newTestStore(t)
	patient, _ := store.AddPatient(domain.Patient{Nom: "Dupont", Prenom: "Jean"})

	backend := archive.NewMemory()
	archiver := NewArchiver(store, backend)
	ctx := context.Background()

	info, err := archiver.Archive(ctx)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !strings.HasPrefix(info.Key, "snapshot-") || !strings.HasSuffix(info.Key, ".json") {
		t.Fatalf("key = %q", info.Key)
	}

	// Wipe the patient, then restore from the snapshot.
	store.DeletePatient(patient.ID)
	if got := store.ListPatients(); len(got) != 0 {
		t.Fatalf("delete did not take: %+v", got)
	}
	if err := archiver.Restore(ctx, info.Key); err != nil {
		t.Fatalf("restore: %v", err)
	}
	patients := store.ListPatients()
	if len(patients) != 1 || patients[0] != patient {
		t.Fatalf("patients after restore: %+v", patients)
	}
}

func TestArchiverKeysAreTimestamped(t *testing.T) {
	store := newTestStore(t)
	archiver := NewArchiver(store, archive.NewMemory())

	info, err := archiver.Archive(context.Background())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	// Store clock is fixed at 2026-03-01T10:00:00Z.
	if info.Key != "snapshot-20260301T100000Z.json" {
		t.Fatalf("key = %q", info.Key)
	}

	// Same clock, same key: the immutability rule refuses the second archive.
	if _, err := archiver.Archive(context.Background()); err == nil {
		t.Fatal("second archive at the same instant must fail")
	}
}

func TestArchiverListsOnlySnapshots(t *testing.T) {
	store := newTestStore(t)
	backend := archive.NewMemory()
	archiver := NewArchiver(store, backend)
	ctx := context.Background()

	if _, err := archiver.Archive(ctx); err != nil {
		t.Fatalf("archive: %v", err)
	}
	backend.Put(ctx, "manual-export.json", []byte("{}"))

	infos, err := archiver.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || !strings.HasPrefix(infos[0].Key, "snapshot-") {
		t.Fatalf("list = %+v", infos)
	}
}

func TestArchiverRestoreMissingKey(t *testing.T) {
	store := newTestStore(t)
	archiver := NewArchiver(store, archive.NewMemory())

	if err := archiver.Restore(context.Background(), "snapshot-nope.json"); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}
