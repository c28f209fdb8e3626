package core

import "hospicore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewRoomOccupancyRule())
	engine.Register(NewAppointmentConflictRule())
	engine.Register(NewAdmissionExitRule())
	engine.Register(NewStockLevelRule())
	return engine
}
