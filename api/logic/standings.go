/* standings.go
 * Contains the logic for building championship standings out of a roster snapshot
 * Authors: Zachary Bower
 */

package logic

import (
	"race-control/api/shared"
	"race-control/api/store"
	"sort"
)

// DefaultTeamColor is used for any team without an entry in the colour table
const DefaultTeamColor = "#52525B"

// TeamColors maps a team name to the hex colour it is drawn with
type TeamColors map[string]string

// DefaultTeamColors returns the built in colour table
func DefaultTeamColors() TeamColors {
	return TeamColors{
		"Red Bull Racing": "#1E3A8A",
		"Ferrari":         "#DC2626",
		"Mercedes":        "#0891B2",
		"McLaren":         "#F97316",
	}
}

// Merge returns a copy of c with the entries of overrides replacing or adding to it
func (c TeamColors) Merge(overrides map[string]string) TeamColors {
	out := make(TeamColors, len(c)+len(overrides))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ColorFor returns the colour for a team, or DefaultTeamColor
func (c TeamColors) ColorFor(team string) string {
	if color, ok := c[team]; ok {
		return color
	}
	return DefaultTeamColor
}

// TeamStanding is a team's derived championship entry. Teams are never stored
type TeamStanding struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Points int    `json:"points"`
}

// Standings is a complete rebuild of the championship from one roster snapshot
type Standings struct {
	Drivers []store.Driver `json:"drivers"`
	Teams   []TeamStanding `json:"teams"`
}

// DriverStats is the per driver summary shown on the dashboard
type DriverStats struct {
	Points int    `json:"points"`
	Wins   int    `json:"wins"`
	Team   string `json:"team"`
}

// BuildStandings rebuilds the driver and team tables from a roster snapshot
// Preconditions: receives the roster in arrival order and the colour table
// Postconditions: returns Standings with drivers sorted by points descending and teams sorted by summed points descending,
// ties keep arrival order. The input slice is not modified
func BuildStandings(drivers []store.Driver, colors TeamColors) Standings {
	return Standings{
		Drivers: SortDrivers(drivers),
		Teams:   BuildTeamStandings(drivers, colors),
	}
}

// SortDrivers returns a copy of drivers sorted by total points descending, ties keep arrival order
func SortDrivers(drivers []store.Driver) []store.Driver {
	sorted := make([]store.Driver, len(drivers))
	copy(sorted, drivers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPoints > sorted[j].TotalPoints
	})
	return sorted
}

// BuildTeamStandings sums driver points per team name. Drivers with no team are skipped
// Preconditions: receives the roster in arrival order and the colour table
// Postconditions: returns the teams sorted by points descending, a team's position among equals is the order it was first seen
func BuildTeamStandings(drivers []store.Driver, colors TeamColors) []TeamStanding {
	index := make(map[string]int)
	teams := []TeamStanding{}
	for _, d := range drivers {
		if d.Team == "" {
			continue
		}
		i, ok := index[d.Team]
		if !ok {
			i = len(teams)
			index[d.Team] = i
			teams = append(teams, TeamStanding{Name: d.Team, Color: colors.ColorFor(d.Team)})
		}
		teams[i].Points += d.TotalPoints
	}
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Points > teams[j].Points
	})
	return teams
}

// CountWins returns the number of events the driver finished first in
func CountWins(driver store.Driver) int {
	wins := 0
	for _, result := range driver.Results {
		if result.Position == 1 {
			wins++
		}
	}
	return wins
}

// StatsFor returns the dashboard stats for a viewer
// Preconditions: receives the roster and the viewer's uid
// Postconditions: returns the viewer's points, wins and team, or zero stats on the Free Agent team if the viewer has no roster entry
func StatsFor(drivers []store.Driver, uid string) DriverStats {
	d, ok := FindDriver(drivers, uid)
	if !ok {
		return DriverStats{Team: shared.FreeAgentTeam}
	}
	team := d.Team
	if team == "" {
		team = shared.FreeAgentTeam
	}
	return DriverStats{Points: d.TotalPoints, Wins: CountWins(d), Team: team}
}
