package dto

// Источники состава поезда
const (
	SourceMongo = "mongo"
	SourceCSV   = "csv"
)

// InitializeTrainRequest - запрос на загрузку состава и создание сессии поезда
type InitializeTrainRequest struct {
	TrainNo            string `json:"train_no" validate:"required,numeric,min=4,max=6"`
	TrainName          string `json:"train_name" validate:"omitempty,max=100"`
	JourneyDate        string `json:"journey_date" validate:"omitempty,datetime=2006-01-02"`
	Source             string `json:"source" validate:"omitempty,oneof=mongo csv"`
	StationsPath       string `json:"stations_path,omitempty" validate:"required_if=Source csv"`
	PassengersPath     string `json:"passengers_path,omitempty" validate:"required_if=Source csv"`
	SleeperCoaches     int    `json:"sleeper_coaches,omitempty" validate:"omitempty,min=0,max=30"`
	ThreeTierACCoaches int    `json:"three_tier_ac_coaches,omitempty" validate:"omitempty,min=0,max=30"`
}

// ApproveReallocationsRequest - пакетное подтверждение предложений TTE
type ApproveReallocationsRequest struct {
	IDs   []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
	TTEID string   `json:"tte_id" validate:"required"`
}

// RejectReallocationRequest - отклонение предложения
type RejectReallocationRequest struct {
	TTEID  string `json:"tte_id" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}
