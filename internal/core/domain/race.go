package domain

import (
	"errors"
	"strings"
	"time"
)

// RaceType classifies a race. Stored values are always uppercase.
type RaceType string

const (
	RaceGrandPrix  RaceType = "GRAND_PRIX"
	RaceSprint     RaceType = "SPRINT"
	RaceQualifying RaceType = "QUALIFYING"
	RacePractice   RaceType = "PRACTICE"
	RaceEndurance  RaceType = "ENDURANCE"
	RaceRally      RaceType = "RALLY"
)

var raceTypes = map[RaceType]struct{}{
	RaceGrandPrix:  {},
	RaceSprint:     {},
	RaceQualifying: {},
	RacePractice:   {},
	RaceEndurance:  {},
	RaceRally:      {},
}

var ErrRaceNotFound = errors.New("race not found")

// ParseRaceType normalizes s to uppercase and reports whether it is a known type.
func ParseRaceType(s string) (RaceType, bool) {
	t := RaceType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := raceTypes[t]; !ok {
		return "", false
	}
	return t, true
}

// Race is a scheduled motorsport event.
type Race struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Championship  string    `json:"championship"`
	Type          RaceType  `json:"type"`
	Location      string    `json:"location"`
	RaceStartTime time.Time `json:"raceStartTime"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
