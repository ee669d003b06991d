package models

import "time"

// Player is a registered user that belongs to a team.
type Player struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Name      string    `json:"name" db:"name"`
	Number    *int      `json:"number,omitempty" db:"number"`
	Position  *string   `json:"position,omitempty" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TempPlayer is a roster entry without a user account.
type TempPlayer struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Number    *int      `json:"number,omitempty" db:"number"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RosterPlayer is the unified view of Player and TempPlayer.
type RosterPlayer struct {
	PlayerRef
	TeamID int    `json:"team_id"`
	Name   string `json:"name"`
	Number *int   `json:"number,omitempty"`
	IsTemp bool   `json:"is_temp"`
}

func RosterFromPlayers(players []Player, temps []TempPlayer) []RosterPlayer {
	out := make([]RosterPlayer, 0, len(players)+len(temps))
	for i := range players {
		id := players[i].ID
		out = append(out, RosterPlayer{
			PlayerRef: PlayerRef{PlayerID: &id},
			TeamID:    players[i].TeamID,
			Name:      players[i].Name,
			Number:    players[i].Number,
		})
	}
	for i := range temps {
		id := temps[i].ID
		out = append(out, RosterPlayer{
			PlayerRef: PlayerRef{PlayerTempID: &id},
			TeamID:    temps[i].TeamID,
			Name:      temps[i].Name,
			Number:    temps[i].Number,
			IsTemp:    true,
		})
	}
	return out
}
