package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRoster = New(
		"INVALID_ROSTER",
		"Roster cannot be used to build a train",
		http.StatusUnprocessableEntity,
	)
)

// Train / journey
var (
	ErrTrainNotFound = New(
		"TRAIN_NOT_FOUND",
		"Train not initialized",
		http.StatusNotFound,
	)

	ErrTrainAlreadyExists = New(
		"TRAIN_ALREADY_EXISTS",
		"Train already initialized",
		http.StatusConflict,
	)

	ErrInvalidStationIndex = New(
		"INVALID_STATION_INDEX",
		"Current station index does not resolve to a station",
		http.StatusBadRequest,
	)

	ErrStationAlreadyProcessed = New(
		"STATION_ALREADY_PROCESSED",
		"Arrival at this station was already processed",
		http.StatusConflict,
	)

	ErrStationNotProcessed = New(
		"STATION_NOT_PROCESSED",
		"Arrival at the current station has not been processed",
		http.StatusConflict,
	)

	ErrJourneyComplete = New(
		"JOURNEY_COMPLETE",
		"Train has reached its final station",
		http.StatusConflict,
	)
)

// Passengers / berths
var (
	ErrPassengerNotFound = New(
		"PASSENGER_NOT_FOUND",
		"Passenger not found",
		http.StatusNotFound,
	)

	ErrBerthNotFound = New(
		"BERTH_NOT_FOUND",
		"Berth not found",
		http.StatusNotFound,
	)

	ErrAlreadyBoarded = New(
		"PASSENGER_ALREADY_BOARDED",
		"Passenger already boarded",
		http.StatusConflict,
	)

	ErrAlreadyNoShow = New(
		"PASSENGER_ALREADY_NO_SHOW",
		"Passenger already marked as NO-SHOW",
		http.StatusConflict,
	)

	ErrNotNoShow = New(
		"PASSENGER_NOT_NO_SHOW",
		"Passenger is not marked as NO-SHOW",
		http.StatusConflict,
	)

	ErrRevertWindowExpired = New(
		"NO_SHOW_REVERT_EXPIRED",
		"Cannot revert NO-SHOW: revert window has passed",
		http.StatusConflict,
	)

	ErrRevertConflict = New(
		"NO_SHOW_REVERT_CONFLICT",
		"Cannot revert NO-SHOW: berth has been reallocated",
		http.StatusConflict,
	)
)

// Reallocation
var (
	ErrNotApprovalMode = New(
		"NOT_APPROVAL_MODE",
		"Operation is only available in APPROVAL mode",
		http.StatusConflict,
	)

	ErrReallocationNotFound = New(
		"REALLOCATION_NOT_FOUND",
		"Pending reallocation not found",
		http.StatusNotFound,
	)

	ErrReallocationNotPending = New(
		"REALLOCATION_NOT_PENDING",
		"Reallocation is no longer pending",
		http.StatusConflict,
	)
)
