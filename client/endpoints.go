package client

import "net/url"

// API endpoints. Resource list endpoints are fixed, not parameterized, and
// pair one-to-one with the cache keys in the store package.
const (
	expensesEndpoint    = "/api/expenses"
	categoriesEndpoint  = "/api/categories"
	leaderboardEndpoint = "/api/leaderboard"
	postsEndpoint       = "/api/posts"
	profileEndpoint     = "/api/profile"
)

func expenseEndpoint(id string) string {
	return expensesEndpoint + "/" + url.PathEscape(id)
}

func postLikeEndpoint(id string) string {
	return postsEndpoint + "/" + url.PathEscape(id) + "/like"
}

func postCommentsEndpoint(id string) string {
	return postsEndpoint + "/" + url.PathEscape(id) + "/comments"
}
