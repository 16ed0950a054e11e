package store

// Storage keys. One fixed key per slot; at most one entry per key exists at
// any time (last write wins).
const (
	// AuthTokenKey holds the raw bearer token string, no envelope.
	AuthTokenKey = "auth_token"
	// UserDataKey holds the current user record. It doubles as the profile
	// cache and the durable "current user" slot, so it carries no envelope
	// and never expires until the next successful update overwrites it.
	UserDataKey = "user_data"
	// DeviceIDKey holds the generated install identifier.
	DeviceIDKey = "device_id"

	// Resource list caches, each a {data, timestamp} envelope.
	ExpensesCacheKey    = "expenses_cache"
	CategoriesCacheKey  = "categories_cache"
	LeaderboardCacheKey = "leaderboard_cache"
	PostsCacheKey       = "posts_cache"
)
