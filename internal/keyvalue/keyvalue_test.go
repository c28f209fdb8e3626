package keyvalue

import (
	"bytes"
	"path/filepath"
	"testing"
)

func openTestBackends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()
	file, err := NewFile(filepath.Join(dir, "files"), "hospital_", nil)
	if err != nil {
		t.Fatalf("open file backend: %v", err)
	}
	sqlite, err := NewSQLite(filepath.Join(dir, "state.db"), "hospital_", nil)
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Backend{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestBackendRoundTrip(t *testing.T) {
	for name, backend := range openTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := backend.Get("patients"); ok {
				t.Fatal("empty backend should report absence")
			}
			payload := []byte(`[{"id":1,"nom":"Dupont"}]`)
			if !backend.Set("patients", payload) {
				t.Fatal("set failed")
			}
			got, ok := backend.Get("patients")
			if !ok || !bytes.Equal(got, payload) {
				t.Fatalf("get returned %q, %v", got, ok)
			}
			if !backend.Set("patients", []byte(`[]`)) {
				t.Fatal("overwrite failed")
			}
			got, _ = backend.Get("patients")
			if !bytes.Equal(got, []byte(`[]`)) {
				t.Fatalf("overwrite not visible, got %q", got)
			}
			if !backend.Remove("patients") {
				t.Fatal("remove failed")
			}
			if _, ok := backend.Get("patients"); ok {
				t.Fatal("removed key still present")
			}
			if !backend.Remove("patients") {
				t.Fatal("removing an absent key must succeed")
			}
		})
	}
}

func TestBackendClear(t *testing.T) {
	for name, backend := range openTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			backend.Set("patients", []byte(`[1]`))
			backend.Set("rooms", []byte(`[2]`))
			if !backend.Clear() {
				t.Fatal("clear failed")
			}
			for _, key := range []string{"patients", "rooms"} {
				if _, ok := backend.Get(key); ok {
					t.Fatalf("key %s survived clear", key)
				}
			}
		})
	}
}

func TestFileBackendNamespaceIsolation(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFile(dir, "hospital_", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, err := NewFile(dir, "other_", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a.Set("patients", []byte(`["a"]`))
	b.Set("patients", []byte(`["b"]`))

	if !a.Clear() {
		t.Fatal("clear failed")
	}
	if _, ok := a.Get("patients"); ok {
		t.Fatal("namespace hospital_ should be empty after clear")
	}
	if got, ok := b.Get("patients"); !ok || !bytes.Equal(got, []byte(`["b"]`)) {
		t.Fatal("other namespace must survive clear")
	}
}

func TestSQLiteBackendNamespaceIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	a, err := NewSQLite(path, "hospital_", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = a.Close() }()
	b, err := NewSQLite(path, "other_", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = b.Close() }()

	a.Set("patients", []byte(`["a"]`))
	b.Set("patients", []byte(`["b"]`))
	if !a.Clear() {
		t.Fatal("clear failed")
	}
	if _, ok := a.Get("patients"); ok {
		t.Fatal("namespace hospital_ should be empty after clear")
	}
	if got, ok := b.Get("patients"); !ok || !bytes.Equal(got, []byte(`["b"]`)) {
		t.Fatal("other namespace must survive clear")
	}
}

func TestFileBackendRejectsUnsafeKeys(t *testing.T) {
	backend, err := NewFile(t.TempDir(), "hospital_", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, key := range []string{"", "  ", "a/b", `a\b`, "..secret"} {
		if backend.Set(key, []byte("x")) {
			t.Fatalf("key %q must be rejected", key)
		}
		if _, ok := backend.Get(key); ok {
			t.Fatalf("key %q must be rejected on read", key)
		}
	}
}

func TestOpenFactory(t *testing.T) {
	backend, err := Open(Config{Driver: DriverMemory}, nil)
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if backend.Driver() != DriverMemory {
		t.Fatalf("driver = %s, want memory", backend.Driver())
	}
	if _, err := Open(Config{Driver: Driver("bogus")}, nil); err == nil {
		t.Fatal("unknown driver must fail")
	}
}
