package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PNRStatus - статус бронирования
type PNRStatus string

const (
	PNRStatusCNF PNRStatus = "CNF"
	PNRStatusRAC PNRStatus = "RAC"
	PNRStatusWL  PNRStatus = "WL"
	PNRStatusCAN PNRStatus = "CAN"
)

// ParsePNRStatus - строгий разбор статуса, неизвестные значения отклоняются
func ParsePNRStatus(s string) (PNRStatus, error) {
	switch PNRStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case PNRStatusCNF:
		return PNRStatusCNF, nil
	case PNRStatusRAC:
		return PNRStatusRAC, nil
	case PNRStatusWL:
		return PNRStatusWL, nil
	case PNRStatusCAN:
		return PNRStatusCAN, nil
	}
	return "", fmt.Errorf("unknown PNR status %q", s)
}

// PassengerStatus - доступность пассажира для уведомлений
type PassengerStatus string

const (
	PassengerOnline  PassengerStatus = "Online"
	PassengerOffline PassengerStatus = "Offline"
)

func ParsePassengerStatus(s string) PassengerStatus {
	if strings.EqualFold(strings.TrimSpace(s), string(PassengerOnline)) {
		return PassengerOnline
	}
	return PassengerOffline
}

// DefaultRACNumber - приоритет для нераспознанного RAC статуса (самый низкий)
const DefaultRACNumber = 999

var racNumberPattern = regexp.MustCompile(`(?i)RAC\s*(\d+)`)

// ExtractRACNumber - номер в очереди из строки вида "RAC 7"
func ExtractRACNumber(racStatus string) int {
	m := racNumberPattern.FindStringSubmatch(racStatus)
	if m == nil {
		return DefaultRACNumber
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultRACNumber
	}
	return n
}

// NormalizeRACStatus - "3" -> "RAC 3", пустое -> "RAC"
func NormalizeRACStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "RAC"
	}
	if _, err := strconv.Atoi(s); err == nil {
		return "RAC " + s
	}
	return s
}

// Passenger - пассажир в составе поезда
type Passenger struct {
	PNR    string     `json:"pnr"`
	Name   string     `json:"name"`
	Age    int        `json:"age"`
	Gender string     `json:"gender"`
	Class  CoachClass `json:"class"`

	From    string `json:"from"`
	To      string `json:"to"`
	FromIdx int    `json:"from_idx"`
	ToIdx   int    `json:"to_idx"`

	PNRStatus PNRStatus `json:"pnr_status"`
	RACStatus string    `json:"rac_status"`
	RACNumber int       `json:"rac_number,omitempty"`

	// Текущее место; пусто, если пассажир только в RAC очереди
	CoachNo   string    `json:"coach_no,omitempty"`
	BerthNo   int       `json:"berth_no,omitempty"`
	BerthType BerthType `json:"berth_type,omitempty"`

	PassengerStatus PassengerStatus `json:"passenger_status"`

	Boarded     bool       `json:"boarded"`
	NoShow      bool       `json:"no_show"`
	NoShowAt    *time.Time `json:"no_show_at,omitempty"`
	NoShowSwept bool       `json:"no_show_swept,omitempty"`
	Deboarded   bool       `json:"deboarded"`

	UpgradedFrom string     `json:"upgraded_from,omitempty"`
	UpgradedAt   *time.Time `json:"upgraded_at,omitempty"`
}

func (p *Passenger) Range() SegmentRange {
	return SegmentRange{FromIdx: p.FromIdx, ToIdx: p.ToIdx}
}

// RemainingRange - часть поездки, начиная с текущей станции
func (p *Passenger) RemainingRange(currentIdx int) SegmentRange {
	return SegmentRange{FromIdx: max(p.FromIdx, currentIdx), ToIdx: p.ToIdx}
}

func (p *Passenger) IsRAC() bool {
	return p.PNRStatus == PNRStatusRAC
}

func (p *Passenger) IsCNF() bool {
	return p.PNRStatus == PNRStatusCNF
}

func (p *Passenger) HasBerth() bool {
	return p.CoachNo != "" && p.BerthNo > 0
}

func (p *Passenger) FullBerthNo() string {
	if !p.HasBerth() {
		return ""
	}
	return FullBerthNo(p.CoachNo, p.BerthNo)
}

// IsOnboard - сел, не снят и не сошёл
func (p *Passenger) IsOnboard() bool {
	return p.Boarded && !p.NoShow && !p.Deboarded
}

func (p *Passenger) clearBerth() {
	p.CoachNo = ""
	p.BerthNo = 0
	p.BerthType = ""
}
