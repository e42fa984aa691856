package usecase

import (
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
)

func upgradeEvent(state *domain.TrainState, up engine.Upgrade, at time.Time) domain.TrainEvent {
	return domain.NewTrainEvent(domain.EventRACUpgraded, state, up.PNR, map[string]interface{}{
		"name":       up.Name,
		"rac_status": up.RACStatus,
		"from_berth": up.FromBerth,
		"to_berth":   up.ToBerth,
	}, at)
}

func reallocationEvent(state *domain.TrainState, eventType domain.EventType, rec *domain.PendingReallocation, at time.Time) domain.TrainEvent {
	payload := map[string]interface{}{
		"reallocation_id": rec.ID,
		"berth":           rec.FullBerthNo,
		"status":          string(rec.Status),
	}
	if eventType == domain.EventReallocationPending {
		payload["expires_at"] = rec.ExpiresAt.Format(time.RFC3339)
	}
	if rec.Reason != "" {
		payload["reason"] = rec.Reason
	}
	return domain.NewTrainEvent(eventType, state, rec.PNR, payload, at)
}

func arrivalEvents(state *domain.TrainState, res *engine.ArrivalResult, at time.Time) []domain.TrainEvent {
	events := []domain.TrainEvent{
		domain.NewTrainEvent(domain.EventStationArrival, state, "", map[string]interface{}{
			"station":       res.Station.Code,
			"deboarded":     len(res.Deboarded),
			"boarded":       len(res.Boarded),
			"no_shows":      len(res.NoShows),
			"rac_allocated": len(res.RACAllocated),
			"pending":       len(res.Pending),
		}, at),
	}
	for _, rec := range res.Expired {
		events = append(events, reallocationEvent(state, domain.EventReallocationExpired, rec, at))
	}
	for _, rec := range res.Withdrawn {
		events = append(events, reallocationEvent(state, domain.EventReallocationFailed, rec, at))
	}
	for _, up := range res.RACAllocated {
		events = append(events, upgradeEvent(state, up, at))
	}
	for _, rec := range res.Pending {
		events = append(events, reallocationEvent(state, domain.EventReallocationPending, rec, at))
	}
	return events
}

func arrivalDecisions(res *engine.ArrivalResult) []*domain.PendingReallocation {
	out := make([]*domain.PendingReallocation, 0, len(res.Expired)+len(res.Withdrawn)+len(res.Pending))
	out = append(out, res.Expired...)
	out = append(out, res.Withdrawn...)
	return append(out, res.Pending...)
}

func batchEvents(state *domain.TrainState, res *engine.BatchResult, at time.Time) []domain.TrainEvent {
	var events []domain.TrainEvent
	for _, rec := range res.Decisions {
		switch rec.Status {
		case domain.ReallocationApproved:
			events = append(events, reallocationEvent(state, domain.EventReallocationApproved, rec, at))
		case domain.ReallocationExpired:
			events = append(events, reallocationEvent(state, domain.EventReallocationExpired, rec, at))
		case domain.ReallocationFailed:
			events = append(events, reallocationEvent(state, domain.EventReallocationFailed, rec, at))
		}
	}
	for _, up := range res.Upgrades {
		events = append(events, upgradeEvent(state, up, at))
	}
	return events
}

func noShowEvent(state *domain.TrainState, eventType domain.EventType, p *domain.Passenger, at time.Time) domain.TrainEvent {
	return domain.NewTrainEvent(eventType, state, p.PNR, map[string]interface{}{
		"name":  p.Name,
		"berth": p.FullBerthNo(),
	}, at)
}
