package rbac

// Permissions.
const (
	PermAttemptsView = "attempts:view"
	PermStatsView    = "stats:view"
	PermPacksView    = "packs:view"
	PermPacksWrite   = "packs:write"
	PermEventsView   = "events:view"
)

// RolePermissions is the default policy. Learners are anonymous and never reach
// guarded routes.
var RolePermissions = map[string][]string{
	"viewer": {
		PermAttemptsView,
		PermStatsView,
		PermPacksView,
		PermEventsView,
	},
	"editor": {
		"packs:*",
		PermStatsView,
	},
	"admin": {
		"*", // everything
	},
}
