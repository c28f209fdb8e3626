// Package core implements the hospital document store: typed collections over
// a key-value backend, the consistency rules that keep derived state in sync,
// the validation rules engine, and the read-side query facade.
package core

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"time"

	"hospicore/internal/keyvalue"
	"hospicore/pkg/domain"
)

// Collection keys as persisted in the backend. One JSON array per collection
// plus a counters document mapping collection name to next id.
const (
	CollectionPatients      = "patients"
	CollectionDoctors       = "doctors"
	CollectionAppointments  = "appointments"
	CollectionMedicaments   = "medicaments"
	CollectionPrescriptions = "prescriptions"
	CollectionRooms         = "rooms"
	CollectionAdmissions    = "admissions"
	CollectionInvoices      = "invoices"
	CollectionPayments      = "payments"

	countersKey = "counters"
)

// Collections lists every collection key in canonical order.
var Collections = []string{
	CollectionPatients,
	CollectionDoctors,
	CollectionAppointments,
	CollectionMedicaments,
	CollectionPrescriptions,
	CollectionRooms,
	CollectionAdmissions,
	CollectionInvoices,
	CollectionPayments,
}

// Store is the typed collection store. All operations are synchronous, and
// storage or serialization failures surface as false/zero returns plus a
// logged diagnostic rather than errors: a single failed operation must leave
// the session usable.
type Store struct {
	mu      sync.RWMutex
	backend keyvalue.Backend
	nowFn   func() time.Time
	logger  Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreClock overrides the store's time source.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithStoreLogger sets the store's diagnostic logger.
func WithStoreLogger(logger Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore constructs a collection store over the given backend.
func NewStore(backend keyvalue.Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		nowFn:   func() time.Time { return time.Now().UTC() },
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend exposes the underlying key-value backend.
func (s *Store) Backend() keyvalue.Backend { return s.backend }

// NowFunc returns the store's time source.
func (s *Store) NowFunc() func() time.Time { return s.nowFn }

// record constrains the generic helpers to pointer types carrying Base.
type record[T any] interface {
	*T
	RecordID() int
	SetRecordID(int)
	CreationTime() time.Time
	StampCreation(time.Time)
	StampModification(time.Time)
}

// patchOf is any typed partial update applicable to T.
type patchOf[T any] interface {
	Apply(*T)
}

func loadAll[T any](s *Store, collection string) []T {
	data, ok := s.backend.Get(collection)
	if !ok || len(data) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		// Corrupt payloads are treated as absence, never surfaced.
		s.logger.Error("corrupt collection payload", "collection", collection, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func saveAll[T any](s *Store, collection string, items []T) bool {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("encode collection failed", "collection", collection, "error", err)
		return false
	}
	if !s.backend.Set(collection, data) {
		s.logger.Error("persist collection failed", "collection", collection)
		return false
	}
	return true
}

func (s *Store) counters() map[string]int {
	counters := make(map[string]int, len(Collections))
	data, ok := s.backend.Get(countersKey)
	if ok && len(data) > 0 {
		if err := json.Unmarshal(data, &counters); err != nil {
			s.logger.Error("corrupt counters payload", "error", err)
			counters = make(map[string]int, len(Collections))
		}
	}
	return counters
}

func (s *Store) saveCounters(counters map[string]int) bool {
	data, err := json.Marshal(counters)
	if err != nil {
		s.logger.Error("encode counters failed", "error", err)
		return false
	}
	return s.backend.Set(countersKey, data)
}

// nextIDLocked returns the next id for collection and persists the increment.
// Callers must hold the write lock.
func (s *Store) nextIDLocked(collection string) int {
	counters := s.counters()
	next := counters[collection]
	if next < 1 {
		next = 1
	}
	counters[collection] = next + 1
	if !s.saveCounters(counters) {
		s.logger.Error("persist counters failed", "collection", collection)
	}
	return next
}

// NextID returns the next identifier for collection. Identifiers are strictly
// increasing for the lifetime of the store and never reused after deletion.
func (s *Store) NextID(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextIDLocked(collection)
}

// Counters returns a copy of the per-collection counter document.
func (s *Store) Counters() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters()
}

// SetCounter raises the stored counter for collection. Used by the seed and
// import paths to keep ids monotonic over bulk-loaded data.
func (s *Store) SetCounter(collection string, next int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	counters := s.counters()
	counters[collection] = next
	return s.saveCounters(counters)
}

func addRecord[T any, P record[T]](s *Store, collection string, item T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFn()
	ptr := P(&item)
	if ptr.RecordID() == 0 {
		ptr.SetRecordID(s.nextIDLocked(collection))
	}
	if ptr.CreationTime().IsZero() {
		ptr.StampCreation(now)
	}
	ptr.StampModification(now)
	items := loadAll[T](s, collection)
	items = append(items, item)
	if !saveAll(s, collection, items) {
		var zero T
		return zero, false
	}
	return item, true
}

func updateRecord[T any, P record[T]](s *Store, collection string, id int, patch patchOf[T]) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := loadAll[T](s, collection)
	for i := range items {
		if P(&items[i]).RecordID() != id {
			continue
		}
		patch.Apply(&items[i])
		ptr := P(&items[i])
		ptr.SetRecordID(id)
		ptr.StampModification(s.nowFn())
		if !saveAll(s, collection, items) {
			var zero T
			return zero, false
		}
		return items[i], true
	}
	var zero T
	return zero, false
}

func deleteRecord[T any, P record[T]](s *Store, collection string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := loadAll[T](s, collection)
	kept := items[:0:0]
	removed := false
	for _, item := range items {
		if P(&item).RecordID() == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return false
	}
	return saveAll(s, collection, kept)
}

// restoreRecord writes a record back verbatim, replacing any record with the
// same id or re-inserting it when missing. Timestamps are left untouched so a
// reverted mutation does not restamp dateModification.
func restoreRecord[T any, P record[T]](s *Store, collection string, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := loadAll[T](s, collection)
	id := P(&item).RecordID()
	replaced := false
	for i := range items {
		if P(&items[i]).RecordID() == id {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return saveAll(s, collection, items)
}

func findRecord[T any, P record[T]](s *Store, collection string, id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range loadAll[T](s, collection) {
		if P(&item).RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func listRecords[T any](s *Store, collection string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadAll[T](s, collection)
}

// searchRecords filters by case-insensitive substring match over the string
// fields of each record, preserving insertion order. When fields is empty,
// every string-typed field participates; otherwise only the named JSON fields
// are considered.
func searchRecords[T any](s *Store, collection, term string, fields []string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(term)
	var restrict map[string]bool
	if len(fields) > 0 {
		restrict = make(map[string]bool, len(fields))
		for _, f := range fields {
			restrict[f] = true
		}
	}
	out := []T{}
	for _, item := range loadAll[T](s, collection) {
		if matchesTerm(reflect.ValueOf(item), needle, restrict) {
			out = append(out, item)
		}
	}
	return out
}

func matchesTerm(v reflect.Value, needle string, restrict map[string]bool) bool {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		value := v.Field(i)
		if field.Anonymous && value.Kind() == reflect.Struct {
			if matchesTerm(value, needle, restrict) {
				return true
			}
			continue
		}
		if value.Kind() != reflect.String {
			continue
		}
		if restrict != nil && !restrict[jsonFieldName(field)] {
			continue
		}
		if strings.Contains(strings.ToLower(value.String()), needle) {
			return true
		}
	}
	return false
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return field.Name
	}
	return tag
}

// Compile-time assertion that the store satisfies the read-side contract.
var _ domain.StoreView = (*Store)(nil)
