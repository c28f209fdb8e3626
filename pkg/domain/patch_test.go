package domain

import (
	"strings"
	"testing"
)

func TestDecodePatchRejectsUnknownFields(t *testing.T) {
	_, err := DecodePatch[PatientPatch]([]byte(`{"nom":"Durand","couleurPreferee":"bleu"}`))
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
	if !strings.Contains(err.Error(), "couleurPreferee") {
		t.Fatalf("error should name the offending field, got %v", err)
	}
}

func TestDecodePatchPartial(t *testing.T) {
	patch, err := DecodePatch[PatientPatch]([]byte(`{"nom":"Durand"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if patch.Nom == nil || *patch.Nom != "Durand" {
		t.Fatalf("nom not decoded: %+v", patch)
	}
	if patch.Prenom != nil || patch.Age != nil {
		t.Fatalf("absent fields must stay nil: %+v", patch)
	}
}

func TestPatchApplyLeavesUnsetFieldsAlone(t *testing.T) {
	record := Patient{Nom: "Dupont", Prenom: "Jean", Age: 41, Telephone: "0600000000"}
	nom := "Durand"
	age := 42
	PatientPatch{Nom: &nom, Age: &age}.Apply(&record)

	if record.Nom != "Durand" || record.Age != 42 {
		t.Fatalf("patched fields not applied: %+v", record)
	}
	if record.Prenom != "Jean" || record.Telephone != "0600000000" {
		t.Fatalf("unset fields must be preserved: %+v", record)
	}
}

func TestInvoicePatchCopiesServiceLines(t *testing.T) {
	lines := []ServiceLine{{Type: "Consultation", Quantite: 1, PrixUnitaire: 50}}
	var record Invoice
	InvoicePatch{Services: &lines}.Apply(&record)

	lines[0].PrixUnitaire = 999
	if record.Services[0].PrixUnitaire != 50 {
		t.Fatal("patch must copy service lines, not alias the caller's slice")
	}
}

func TestResultHasBlockingAndWarnings(t *testing.T) {
	var res Result
	res.Merge(Result{Violations: []Violation{{Rule: "a", Severity: SeverityWarn}}})
	res.Merge(Result{Violations: []Violation{{Rule: "b", Severity: SeverityLog}}})
	if res.HasBlocking() {
		t.Fatal("warn and log must not block")
	}
	if got := len(res.Warnings()); got != 1 {
		t.Fatalf("expected 1 warning, got %d", got)
	}
	res.Merge(Result{Violations: []Violation{{Rule: "c", Severity: SeverityBlock}}})
	if !res.HasBlocking() {
		t.Fatal("block severity must block")
	}
}

func TestRoomStatusStickiness(t *testing.T) {
	cases := []struct {
		status RoomStatus
		sticky bool
	}{
		{RoomDisponible, false},
		{RoomOccupee, false},
		{RoomMaintenance, true},
		{RoomReservee, true},
	}
	for _, tc := range cases {
		if got := tc.status.IsSticky(); got != tc.sticky {
			t.Fatalf("IsSticky(%s) = %v, want %v", tc.status, got, tc.sticky)
		}
	}
}
