package domain

import "time"

// ReallocationMode - глобальный режим перераспределения
type ReallocationMode string

const (
	ModeAuto     ReallocationMode = "AUTO"
	ModeApproval ReallocationMode = "APPROVAL"
)

// ReallocationStatus - статус предложения в режиме APPROVAL
type ReallocationStatus string

const (
	ReallocationPending  ReallocationStatus = "pending"
	ReallocationApproved ReallocationStatus = "approved"
	ReallocationRejected ReallocationStatus = "rejected"
	ReallocationExpired  ReallocationStatus = "expired"
	ReallocationFailed   ReallocationStatus = "failed"
)

// PendingReallocation - подготовленное повышение RAC -> CNF, ожидающее решения TTE
type PendingReallocation struct {
	ID            string             `json:"id" db:"id"`
	TrainNo       string             `json:"train_no" db:"train_no"`
	PNR           string             `json:"pnr" db:"pnr"`
	PassengerName string             `json:"passenger_name" db:"passenger_name"`
	RACStatus     string             `json:"rac_status" db:"rac_status"`
	RACNumber     int                `json:"rac_number" db:"rac_number"`
	CoachNo       string             `json:"coach_no" db:"coach_no"`
	BerthNo       int                `json:"berth_no" db:"berth_no"`
	FullBerthNo   string             `json:"full_berth_no" db:"full_berth_no"`
	BerthType     BerthType          `json:"berth_type" db:"berth_type"`
	VacantFromIdx int                `json:"vacant_from_idx" db:"vacant_from_idx"`
	VacantToIdx   int                `json:"vacant_to_idx" db:"vacant_to_idx"`
	StationIdx    int                `json:"station_idx" db:"station_idx"`
	StationCode   string             `json:"station_code" db:"station_code"`
	Status        ReallocationStatus `json:"status" db:"status"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	ExpiresAt     time.Time          `json:"expires_at" db:"expires_at"`
	ProcessedBy   string             `json:"processed_by,omitempty" db:"processed_by"`
	ProcessedAt   *time.Time         `json:"processed_at,omitempty" db:"processed_at"`
	Reason        string             `json:"reason,omitempty" db:"reason"`
}

// IsLive - ожидает решения и ещё не истекло
func (r *PendingReallocation) IsLive(now time.Time) bool {
	return r.Status == ReallocationPending && now.Before(r.ExpiresAt)
}

func (r *PendingReallocation) VacantRange() SegmentRange {
	return SegmentRange{FromIdx: r.VacantFromIdx, ToIdx: r.VacantToIdx}
}

func (r *PendingReallocation) close(status ReallocationStatus, by, reason string, at time.Time) {
	r.Status = status
	r.ProcessedBy = by
	r.ProcessedAt = &at
	r.Reason = reason
}

func (r *PendingReallocation) Approve(tteID string, at time.Time) {
	r.close(ReallocationApproved, tteID, "", at)
}

func (r *PendingReallocation) Reject(tteID, reason string, at time.Time) {
	r.close(ReallocationRejected, tteID, reason, at)
}

func (r *PendingReallocation) Expire(at time.Time) {
	r.close(ReallocationExpired, "", "offer expired", at)
}

func (r *PendingReallocation) Fail(tteID, reason string, at time.Time) {
	r.close(ReallocationFailed, tteID, reason, at)
}
