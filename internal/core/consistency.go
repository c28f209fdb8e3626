package core

import "hospicore/pkg/domain"

// ConsistencyRules are the post-mutation hooks that propagate derived state:
// medicament stock deltas, room occupancy and status, invoice payment status.
// The store never triggers them on its own; every code path that mutates a
// triggering collection must invoke the matching hook, bulk edits included.
// The Service is the canonical caller.
//
// Hooks read current state and write derived fields back through the store;
// they perform no user-facing validation. Dangling references are ignored
// quietly: a hook against a deleted record is a no-op.
type ConsistencyRules struct {
	store  *Store
	logger Logger
}

// NewConsistencyRules binds the hook set to a store.
func NewConsistencyRules(store *Store, logger Logger) *ConsistencyRules {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ConsistencyRules{store: store, logger: logger}
}

// AdjustMedicamentStock applies a signed stock delta, clamped to zero.
func (c *ConsistencyRules) AdjustMedicamentStock(medicamentID, delta int) {
	medicament, ok := c.store.FindMedicament(medicamentID)
	if !ok {
		return
	}
	stock := medicament.StockActuel + delta
	if stock < 0 {
		stock = 0
	}
	if _, ok := c.store.UpdateMedicament(medicamentID, domain.MedicamentPatch{StockActuel: &stock}); !ok {
		c.logger.Error("stock adjustment not persisted", "medicamentId", medicamentID, "delta", delta)
	}
}

// OnPrescriptionChange adjusts the referenced medicament's stock by the
// prescription quantity delta. Pass oldQuantity zero for a newly created
// prescription.
func (c *ConsistencyRules) OnPrescriptionChange(medicamentID, oldQuantity, newQuantity int) {
	c.AdjustMedicamentStock(medicamentID, oldQuantity-newQuantity)
}

// OnPrescriptionDelete restores the stock consumed by the prescription.
func (c *ConsistencyRules) OnPrescriptionDelete(p domain.Prescription) {
	c.AdjustMedicamentStock(p.MedicamentID, p.Quantite)
}

// OnPaymentChange recomputes the referenced invoice's payment status from the
// sum of its recorded payments.
func (c *ConsistencyRules) OnPaymentChange(invoiceID int) {
	invoice, ok := c.store.FindInvoice(invoiceID)
	if !ok || invoice.Statut == domain.InvoiceAnnulee {
		return
	}
	var paid float64
	for _, payment := range c.store.ListPayments() {
		if payment.InvoiceID == invoiceID {
			paid += payment.MontantPaiement
		}
	}
	statut := domain.InvoiceNonPayee
	switch {
	case paid >= invoice.TotalGeneral:
		statut = domain.InvoicePayee
	case paid > 0:
		statut = domain.InvoicePartiellementPayee
	}
	if statut == invoice.Statut {
		return
	}
	if _, ok := c.store.UpdateInvoice(invoiceID, domain.InvoicePatch{Statut: &statut}); !ok {
		c.logger.Error("invoice status not persisted", "invoiceId", invoiceID, "statut", statut)
	}
}

// OnAdmissionRoomChange moves occupancy between rooms when an admission is
// created, switched to another room, discharged, or deleted. oldRoomID and
// newRoomID may be zero for "none"; exiting marks the patient as leaving
// without entering anywhere. Each touched room gets its status recomputed.
func (c *ConsistencyRules) OnAdmissionRoomChange(oldRoomID, newRoomID int, exiting bool) {
	if oldRoomID != 0 && (exiting || oldRoomID != newRoomID) {
		c.adjustRoomOccupancy(oldRoomID, -1)
		c.RecomputeRoomStatus(oldRoomID)
	}
	if newRoomID != 0 && !exiting && newRoomID != oldRoomID {
		c.adjustRoomOccupancy(newRoomID, +1)
		c.RecomputeRoomStatus(newRoomID)
	}
}

// adjustRoomOccupancy applies a bed delta clamped to [0, capacite].
func (c *ConsistencyRules) adjustRoomOccupancy(roomID, delta int) {
	room, ok := c.store.FindRoom(roomID)
	if !ok {
		return
	}
	beds := room.LitsOccupes + delta
	if beds < 0 {
		beds = 0
	}
	if beds > room.Capacite {
		beds = room.Capacite
	}
	if _, ok := c.store.UpdateRoom(roomID, domain.RoomPatch{LitsOccupes: &beds}); !ok {
		c.logger.Error("room occupancy not persisted", "roomId", roomID, "delta", delta)
	}
}

// RecomputeRoomStatus derives a room's status from its occupancy: Occupée
// when any bed is taken, Disponible otherwise. The sticky statuses
// Maintenance and Réservée are never overwritten by occupancy.
func (c *ConsistencyRules) RecomputeRoomStatus(roomID int) {
	room, ok := c.store.FindRoom(roomID)
	if !ok {
		return
	}
	if room.Statut.IsSticky() {
		return
	}
	statut := domain.RoomDisponible
	if room.LitsOccupes > 0 {
		statut = domain.RoomOccupee
	}
	if statut == room.Statut {
		return
	}
	if _, ok := c.store.UpdateRoom(roomID, domain.RoomPatch{Statut: &statut}); !ok {
		c.logger.Error("room status not persisted", "roomId", roomID, "statut", statut)
	}
}
