package core

import (
	"context"
	"fmt"

	"hospicore/pkg/domain"
)

// NewStockLevelRule returns the rule surfacing medicaments at or below their
// minimum stock so the pharmacy screens can flag them.
func NewStockLevelRule() domain.Rule {
	return stockLevelRule{}
}

type stockLevelRule struct{}

func (stockLevelRule) Name() string { return "stock_level" }

func (stockLevelRule) Evaluate(_ context.Context, view domain.StoreView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, medicament := range view.ListMedicaments() {
		if medicament.StockActuel > medicament.StockMinimum {
			continue
		}
		severity := domain.SeverityLog
		if medicament.StockActuel == 0 {
			severity = domain.SeverityWarn
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "stock_level",
			Severity: severity,
			Message:  fmt.Sprintf("medicament %s (%s) low on stock: %d left, minimum %d", medicament.Nom, medicament.Code, medicament.StockActuel, medicament.StockMinimum),
			Entity:   domain.EntityMedicament,
			EntityID: medicament.ID,
		})
	}
	return res, nil
}
