package trust

// Rank is a named tier in the points progression.
type Rank struct {
	Name      string
	MinPoints int
}

// Ranks is the fixed ascending threshold table. Not user-editable.
var Ranks = []Rank{
	{Name: "Constable", MinPoints: 0},
	{Name: "Head Constable", MinPoints: 20},
	{Name: "Sub Inspector", MinPoints: 50},
	{Name: "Inspector", MinPoints: 100},
	{Name: "DCP", MinPoints: 200},
	{Name: "Commissioner", MinPoints: 400},
}

// RankFor returns the name of the highest tier whose threshold is <= points.
// Thresholds are inclusive lower bounds; anything below the table floor maps
// to the lowest tier.
func RankFor(points int) string {
	current := Ranks[0]
	for _, r := range Ranks {
		if points >= r.MinPoints {
			current = r
		}
	}
	return current.Name
}
