package domain

import (
	"fmt"
	"strings"
)

// CoachClass - класс вагона
type CoachClass string

const (
	ClassSleeper     CoachClass = "SL"
	ClassThreeTierAC CoachClass = "AC_3"
)

const (
	SleeperBerthsPerCoach     = 72
	ThreeTierACBerthsPerCoach = 64
)

// NormalizeClass - приводит варианты записи класса к каноническому виду
func NormalizeClass(s string) CoachClass {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(v)
	switch v {
	case "SL", "SLEEPER":
		return ClassSleeper
	case "3A", "AC3", "3AC", "THREETIERAC":
		return ClassThreeTierAC
	}
	return CoachClass(strings.ToUpper(strings.TrimSpace(s)))
}

// Coach - вагон
type Coach struct {
	CoachNo string     `json:"coach_no"`
	Class   CoachClass `json:"class"`
	Berths  []*Berth   `json:"berths"`
}

// BerthTypeFor - тип полки по номеру в купейной раскладке из 8 мест
func BerthTypeFor(berthNo int) BerthType {
	switch berthNo % 8 {
	case 1, 4:
		return BerthLower
	case 2, 5:
		return BerthMiddle
	case 3, 6:
		return BerthUpper
	case 7:
		return BerthSideLower
	default:
		return BerthSideUpper
	}
}

func NewCoach(coachNo string, class CoachClass, berthCount, numSegments int) *Coach {
	c := &Coach{
		CoachNo: coachNo,
		Class:   class,
		Berths:  make([]*Berth, 0, berthCount),
	}
	for n := 1; n <= berthCount; n++ {
		c.Berths = append(c.Berths, NewBerth(coachNo, n, BerthTypeFor(n), class, numSegments))
	}
	return c
}

// BuildCoaches - S1..Sn (72 места) и B1..Bm (64 места)
func BuildCoaches(sleeper, threeTierAC, numSegments int) []*Coach {
	coaches := make([]*Coach, 0, sleeper+threeTierAC)
	for i := 1; i <= sleeper; i++ {
		coaches = append(coaches, NewCoach(fmt.Sprintf("S%d", i), ClassSleeper, SleeperBerthsPerCoach, numSegments))
	}
	for i := 1; i <= threeTierAC; i++ {
		coaches = append(coaches, NewCoach(fmt.Sprintf("B%d", i), ClassThreeTierAC, ThreeTierACBerthsPerCoach, numSegments))
	}
	return coaches
}

func (c *Coach) FindBerth(berthNo int) *Berth {
	if berthNo < 1 || berthNo > len(c.Berths) {
		return nil
	}
	return c.Berths[berthNo-1]
}
