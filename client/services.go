package client

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/savvy-app/savvy/store"
	"github.com/savvy-app/savvy/store/cache"
)

// Services bundles one service per API resource, all sharing a client and a
// cache over the same store.
type Services struct {
	Expenses    *ExpensesService
	Categories  *CategoriesService
	Leaderboard *LeaderboardService
	Posts       *PostsService
	Profile     *ProfileService
}

// NewServices wires the per-resource services. maxAge bounds how long cached
// lists stay fresh; pass 0 for the default.
func NewServices(c *Client, s *store.Store, maxAge time.Duration) *Services {
	ch := cache.New(s, maxAge)
	return &Services{
		Expenses:    &ExpensesService{client: c, cache: ch},
		Categories:  &CategoriesService{client: c, cache: ch},
		Leaderboard: &LeaderboardService{client: c, cache: ch},
		Posts:       &PostsService{client: c, cache: ch},
		Profile:     &ProfileService{client: c, session: c.session},
	}
}

// Refresh refetches every cached resource, bypassing and repopulating the
// cache. The profile slot is durable rather than expiring, so it is left
// alone.
func (s *Services) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, _, err := s.Expenses.List(ctx, false)
		return err
	})
	g.Go(func() error {
		_, _, err := s.Categories.List(ctx, false)
		return err
	})
	g.Go(func() error {
		_, _, err := s.Leaderboard.List(ctx, false)
		return err
	})
	g.Go(func() error {
		_, _, err := s.Posts.List(ctx, false)
		return err
	})
	return g.Wait()
}

// fetchList implements the uniform read path shared by every list resource:
// consult the cache first (no network on a hit), otherwise GET the endpoint
// and write the decoded value through on success.
func fetchList[T any](ctx context.Context, c *Client, ch *cache.Cache, key, endpoint string, useCache bool) (T, bool, error) {
	var value T

	if useCache {
		if ch.Load(ctx, key, &value) {
			slog.Debug("cache hit", slog.String("key", key))
			return value, true, nil
		}
	}

	result, err := c.Get(ctx, endpoint)
	if err != nil {
		var zero T
		return zero, false, err
	}
	if err := result.Decode(&value); err != nil {
		var zero T
		return zero, false, err
	}

	ch.Save(ctx, key, value)
	return value, false, nil
}

// ExpensesService reads and mutates the expense list.
type ExpensesService struct {
	client *Client
	cache  *cache.Cache
}

// List returns the expenses, reporting whether they came from cache.
func (s *ExpensesService) List(ctx context.Context, useCache bool) ([]Expense, bool, error) {
	return fetchList[[]Expense](ctx, s.client, s.cache, store.ExpensesCacheKey, expensesEndpoint, useCache)
}

// Create records a new expense and invalidates the cached list so the next
// read refetches authoritative data.
func (s *ExpensesService) Create(ctx context.Context, create *CreateExpense) (*Expense, error) {
	result, err := s.client.Post(ctx, expensesEndpoint, create)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, store.ExpensesCacheKey)

	var expense Expense
	if err := result.Decode(&expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Delete removes an expense by id and invalidates the cached list.
func (s *ExpensesService) Delete(ctx context.Context, id string) error {
	result, err := s.client.Delete(ctx, expenseEndpoint(id))
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, store.ExpensesCacheKey)

	var resp deleteResponse
	if err := result.Decode(&resp); err != nil {
		return err
	}
	return nil
}

// CategoriesService reads and mutates the category list.
type CategoriesService struct {
	client *Client
	cache  *cache.Cache
}

func (s *CategoriesService) List(ctx context.Context, useCache bool) ([]Category, bool, error) {
	return fetchList[[]Category](ctx, s.client, s.cache, store.CategoriesCacheKey, categoriesEndpoint, useCache)
}

func (s *CategoriesService) Create(ctx context.Context, create *CreateCategory) (*Category, error) {
	result, err := s.client.Post(ctx, categoriesEndpoint, create)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, store.CategoriesCacheKey)

	var category Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// LeaderboardService reads the savings leaderboard. Read-only.
type LeaderboardService struct {
	client *Client
	cache  *cache.Cache
}

func (s *LeaderboardService) List(ctx context.Context, useCache bool) ([]LeaderboardEntry, bool, error) {
	return fetchList[[]LeaderboardEntry](ctx, s.client, s.cache, store.LeaderboardCacheKey, leaderboardEndpoint, useCache)
}

// PostsService reads and mutates the blog feed.
type PostsService struct {
	client *Client
	cache  *cache.Cache
}

func (s *PostsService) List(ctx context.Context, useCache bool) ([]Post, bool, error) {
	resp, fromCache, err := fetchList[postsListResponse](ctx, s.client, s.cache, store.PostsCacheKey, postsEndpoint, useCache)
	if err != nil {
		return nil, false, err
	}
	return resp.Posts, fromCache, nil
}

func (s *PostsService) Create(ctx context.Context, create *CreatePost) (*Post, error) {
	result, err := s.client.Post(ctx, postsEndpoint, create)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, store.PostsCacheKey)

	var resp createPostResponse
	if err := result.Decode(&resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

// Like toggles the current user's like on a post.
func (s *PostsService) Like(ctx context.Context, id string) error {
	if _, err := s.client.Post(ctx, postLikeEndpoint(id), nil); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, store.PostsCacheKey)
	return nil
}

// Comments returns the comments of a post. Comments are keyed per post and
// the cache holds only fixed singleton entries, so this path is uncached.
func (s *PostsService) Comments(ctx context.Context, id string) ([]Comment, error) {
	result, err := s.client.Get(ctx, postCommentsEndpoint(id))
	if err != nil {
		return nil, err
	}
	var comments []Comment
	if err := result.Decode(&comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment and invalidates the feed cache, since embedded
// comments and counts are now stale.
func (s *PostsService) AddComment(ctx context.Context, id, content string) (*Comment, error) {
	result, err := s.client.Post(ctx, postCommentsEndpoint(id), map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, store.PostsCacheKey)

	var comment Comment
	if err := result.Decode(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ProfileService reads and updates the current user. The persisted user slot
// doubles as both cache and durable record: it has no expiry and a
// successful update overwrites it in place instead of invalidating it.
type ProfileService struct {
	client  *Client
	session *Session
}

// Get returns the profile, reporting whether it came from the local slot.
func (s *ProfileService) Get(ctx context.Context) (*User, bool, error) {
	if user := s.session.User(ctx); user != nil {
		slog.Debug("cache hit", slog.String("key", store.UserDataKey))
		return user, true, nil
	}

	result, err := s.client.Get(ctx, profileEndpoint)
	if err != nil {
		return nil, false, err
	}
	var user User
	if err := result.Decode(&user); err != nil {
		return nil, false, err
	}

	s.session.SetUser(ctx, &user)
	return &user, false, nil
}

// Update applies a partial profile update and persists the returned record.
func (s *ProfileService) Update(ctx context.Context, update *UpdateProfile) (*User, error) {
	result, err := s.client.Put(ctx, profileEndpoint, update)
	if err != nil {
		return nil, err
	}
	var resp updateProfileResponse
	if err := result.Decode(&resp); err != nil {
		return nil, err
	}

	s.session.SetUser(ctx, &resp.User)
	return &resp.User, nil
}
