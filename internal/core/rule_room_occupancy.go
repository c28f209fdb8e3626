package core

import (
	"context"
	"fmt"

	"hospicore/pkg/domain"
)

// NewRoomOccupancyRule returns the rule enforcing room occupancy bounds. The
// occupancy hooks clamp their writes, so a violation here means some code
// path bypassed the consistency protocol.
func NewRoomOccupancyRule() domain.Rule {
	return roomOccupancyRule{}
}

type roomOccupancyRule struct{}

func (roomOccupancyRule) Name() string { return "room_occupancy" }

func (roomOccupancyRule) Evaluate(_ context.Context, view domain.StoreView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, room := range view.ListRooms() {
		if room.LitsOccupes >= 0 && room.LitsOccupes <= room.Capacite {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "room_occupancy",
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("room %s occupancy out of bounds: %d/%d beds", room.Numero, room.LitsOccupes, room.Capacite),
			Entity:   domain.EntityRoom,
			EntityID: room.ID,
		})
	}
	return res, nil
}
