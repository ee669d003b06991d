package models

// Format is the bracket structure of a championship.
type Format string

const (
	FormatKnockout     Format = "knockout"
	FormatLeagueSystem Format = "league_system"
	FormatGroupStage   Format = "group_stage"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatKnockout, FormatLeagueSystem, FormatGroupStage:
		return true
	default:
		return false
	}
}

// HasStandings reports whether the format produces a classification table.
func (f Format) HasStandings() bool {
	return f == FormatLeagueSystem || f == FormatGroupStage
}
