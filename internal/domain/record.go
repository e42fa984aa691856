package domain

// StationRecord - станция в том виде, в каком её хранит источник состава
type StationRecord struct {
	SNO       int     `json:"sno" bson:"SNO" csv:"SNO" validate:"gte=1"`
	Code      string  `json:"code" bson:"Station_Code" csv:"Station_Code" validate:"required"`
	Name      string  `json:"name" bson:"Station_Name" csv:"Station_Name"`
	Distance  float64 `json:"distance" bson:"Distance" csv:"Distance" validate:"gte=0"`
	Arrival   string  `json:"arrival,omitempty" bson:"Arrival_Time" csv:"Arrival_Time"`
	Departure string  `json:"departure,omitempty" bson:"Departure_Time" csv:"Departure_Time"`
}

// PassengerRecord - строка списка пассажиров из источника
type PassengerRecord struct {
	TrainNo           string `json:"train_no,omitempty" bson:"Train_Number" csv:"Train_Number"`
	JourneyDate       string `json:"journey_date,omitempty" bson:"Journey_Date" csv:"Journey_Date"`
	PNR               string `json:"pnr" bson:"PNR_Number" csv:"PNR_Number" validate:"required,pnr"`
	Name              string `json:"name" bson:"Name" csv:"Name" validate:"required"`
	Age               int    `json:"age" bson:"Age" csv:"Age" validate:"gte=0,lte=125"`
	Gender            string `json:"gender" bson:"Gender" csv:"Gender"`
	Class             string `json:"class" bson:"Class" csv:"Class" validate:"required"`
	BoardingStation   string `json:"boarding_station" bson:"Boarding_Station" csv:"Boarding_Station" validate:"required"`
	DeboardingStation string `json:"deboarding_station" bson:"Deboarding_Station" csv:"Deboarding_Station" validate:"required"`
	PNRStatus         string `json:"pnr_status" bson:"PNR_Status" csv:"PNR_Status" validate:"required"`
	RACStatus         string `json:"rac_status,omitempty" bson:"Rac_status" csv:"Rac_status"`
	Coach             string `json:"coach,omitempty" bson:"Assigned_Coach" csv:"Assigned_Coach"`
	Berth             int    `json:"berth,omitempty" bson:"Assigned_berth" csv:"Assigned_berth" validate:"gte=0"`
	BerthType         string `json:"berth_type,omitempty" bson:"Berth_Type" csv:"Berth_Type"`
	NoShow            bool   `json:"no_show" bson:"NO_show" csv:"NO_show"`
	PassengerStatus   string `json:"passenger_status,omitempty" bson:"Passenger_Status" csv:"Passenger_Status"`
}
