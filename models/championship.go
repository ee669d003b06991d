package models

import "time"

// ChampionshipStatus mirrors the championship_status enum in the database.
type ChampionshipStatus string

const (
	ChampionshipCreated  ChampionshipStatus = "created"
	ChampionshipActive   ChampionshipStatus = "active"
	ChampionshipInactive ChampionshipStatus = "inactive"
	ChampionshipCanceled ChampionshipStatus = "canceled"
)

func (s ChampionshipStatus) IsValid() bool {
	switch s {
	case ChampionshipCreated, ChampionshipActive, ChampionshipInactive, ChampionshipCanceled:
		return true
	default:
		return false
	}
}

// Championship представляет чемпионат организатора.
type Championship struct {
	ID                      int                `json:"id" db:"id"`
	Name                    string             `json:"name" db:"name"`
	Description             *string            `json:"description,omitempty" db:"description"`
	InitialDate             time.Time          `json:"initial_date" db:"initial_date"`
	FinalDate               time.Time          `json:"final_date" db:"final_date"`
	TeamQuantity            int                `json:"team_quantity" db:"team_quantity"`
	Format                  Format             `json:"format" db:"format"`
	SportType               SportType          `json:"sport_type" db:"sport_type"`
	Status                  ChampionshipStatus `json:"status" db:"status"`
	OrganizerID             int                `json:"organizer_id" db:"organizer_id"`
	DoubleMatchEliminations bool               `json:"double_match_eliminations" db:"double_match_eliminations"`
	DoubleMatchGroupStage   bool               `json:"double_match_group_stage" db:"double_match_group_stage"`
	DoubleStartLeagueSystem bool               `json:"double_start_league_system" db:"double_start_league_system"`
	Deleted                 bool               `json:"-" db:"deleted"`
	CreatedAt               time.Time          `json:"created_at" db:"created_at"`
	LogoKey                 *string            `json:"-" db:"logo_key"`
	LogoURL                 *string            `json:"logo_url,omitempty" db:"-"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}

// DoubleLegs reports whether the round robin part of the championship is played home and away.
func (c *Championship) DoubleLegs() bool {
	switch c.Format {
	case FormatLeagueSystem:
		return c.DoubleStartLeagueSystem
	case FormatGroupStage:
		return c.DoubleMatchGroupStage
	default:
		return false
	}
}
