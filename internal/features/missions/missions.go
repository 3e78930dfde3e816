// Package missions tracks collection milestones: one-time missions that
// pay a coin reward and grant a title once a user's cumulative card count
// reaches the requirement.
package missions

import (
	"card-collection-bot/internal/features/economy"
	"card-collection-bot/internal/store"
)

// Mission is one milestone definition.
type Mission struct {
	ID          string
	Name        string
	Requirement int
	Reward      int64
	Title       string
}

// Table is the static mission set. Definitions happen to be in
// non-decreasing requirement order, but Evaluate never relies on it: every
// undone mission is checked independently each time.
var Table = []Mission{
	{ID: "collector", Name: "Collector", Requirement: 50, Reward: 1000, Title: "🎴 Collector"},
	{ID: "master", Name: "Master", Requirement: 100, Reward: 2500, Title: "🏆 Master"},
	{ID: "legend", Name: "Legend", Requirement: 200, Reward: 5000, Title: "⭐ Legend"},
	{ID: "champion", Name: "Champion", Requirement: 500, Reward: 10000, Title: "👑 Champion"},
}

// Evaluate marks every undone mission whose requirement the user now
// meets, crediting its reward and appending its title. A single call may
// complete several missions at once; calling it again with no new cards
// completes nothing. Must run inside a store Update.
func Evaluate(u *store.User) []Mission {
	total := u.TotalCards()

	var completed []Mission
	for _, m := range Table {
		if u.HasCompleted(m.ID) || total < m.Requirement {
			continue
		}
		u.CompletedMissions = append(u.CompletedMissions, m.ID)
		u.Titles = append(u.Titles, m.Title)
		// Credit cannot fail for a non-negative reward.
		_ = economy.Credit(u, m.Reward)
		completed = append(completed, m)
	}
	return completed
}
