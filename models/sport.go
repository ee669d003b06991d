package models

// SportType identifies the scoring rules a championship and its teams play under.
type SportType string

const (
	SportSoccer     SportType = "soccer"
	SportVolleyball SportType = "volleyball"
)

func (s SportType) IsValid() bool {
	switch s {
	case SportSoccer, SportVolleyball:
		return true
	default:
		return false
	}
}
