package models

type Team struct {
	BaseModel

	Country  string  `db:"country"`
	RepName  string  `db:"rep_name"`
	RepEmail string  `db:"rep_email"`
	Manager  string  `db:"manager"`
	Rating   float64 `db:"rating"`
	Players  []Player
}

func (t Team) Captain() (Player, bool) {
	for _, p := range t.Players {
		if p.IsCaptain {
			return p, true
		}
	}

	return Player{}, false
}
