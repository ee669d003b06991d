package models

import "time"

type Team struct {
	ID              int       `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	SportType       SportType `json:"sport_type" db:"sport_type"`
	UniformHome     *string   `json:"uniform_home,omitempty" db:"uniform_home"`
	UniformAway     *string   `json:"uniform_away,omitempty" db:"uniform_away"`
	NumberOfPlayers int       `json:"number_of_players" db:"number_of_players"`
	Deleted         bool      `json:"-" db:"deleted"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	EmblemKey *string `json:"-" db:"emblem_key"`
	EmblemURL *string `json:"emblem_url,omitempty" db:"-"`
}
