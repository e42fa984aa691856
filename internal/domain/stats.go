package domain

// Stats - агрегаты по поезду. Поля Total* накопительные, остальные пересчитываются.
type Stats struct {
	TotalPassengers      int `json:"total_passengers"`
	CurrentOnboard       int `json:"current_onboard"`
	CNFPassengers        int `json:"cnf_passengers"`
	RACPassengers        int `json:"rac_passengers"`
	RACCNFPassengers     int `json:"rac_cnf_passengers"`
	TotalBerths          int `json:"total_berths"`
	VacantBerths         int `json:"vacant_berths"`
	OccupiedBerths       int `json:"occupied_berths"`
	PendingReallocations int `json:"pending_reallocations"`

	TotalBoarded     int `json:"total_boarded"`
	TotalDeboarded   int `json:"total_deboarded"`
	TotalNoShows     int `json:"total_no_shows"`
	TotalRACUpgraded int `json:"total_rac_upgraded"`
}
