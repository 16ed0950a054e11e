package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the account record returned by /api/profile and embedded in posts.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Theme string `json:"theme,omitempty"`
}

// Category is an expense category.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// Expense is a single spend record. Amounts are decimal to keep money exact;
// the server serializes them as strings.
type Expense struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId,omitempty"`
	CategoryID string          `json:"categoryId,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Note       string          `json:"note,omitempty"`
	SpentAt    time.Time       `json:"spentAt,omitzero"`
	Category   *Category       `json:"category,omitempty"`
}

// CreateExpense is the payload for POST /api/expenses.
type CreateExpense struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Note       string          `json:"note,omitempty"`
	CategoryID string          `json:"categoryId,omitempty"`
	UserID     string          `json:"userId,omitempty"`
}

// CreateCategory is the payload for POST /api/categories.
type CreateCategory struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// LeaderboardEntry is one row of the savings leaderboard. The server returns
// rows ascending by total: whoever spent the least leads.
type LeaderboardEntry struct {
	UserID string          `json:"userId"`
	Total  decimal.Decimal `json:"total"`
	Name   string          `json:"name"`
	Image  string          `json:"image,omitempty"`
}

// Post is a blog feed entry with its author, likes and comments embedded.
type Post struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	AuthorID  string     `json:"authorId,omitempty"`
	Author    *User      `json:"author,omitempty"`
	Likes     []Like     `json:"likes,omitempty"`
	Comments  []Comment  `json:"comments,omitempty"`
	Counts    PostCounts `json:"_count"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
}

// PostCounts mirrors the aggregate counts block embedded in each post.
type PostCounts struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Like is a single like on a post.
type Like struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId,omitempty"`
	User   *User  `json:"user,omitempty"`
}

// Comment is a single comment on a post.
type Comment struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	Author    *User     `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// CreatePost is the payload for POST /api/posts.
type CreatePost struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// UpdateProfile is the payload for PUT /api/profile. Nil fields are left
// untouched by the server, so all fields are pointers.
type UpdateProfile struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
	Theme *string `json:"theme,omitempty"`
}

// Tagged response envelopes. Each endpoint that wraps its payload gets an
// explicit shape instead of shape-sniffing the decoded body.
type postsListResponse struct {
	Posts []Post `json:"posts"`
}

type createPostResponse struct {
	Post Post `json:"post"`
}

type updateProfileResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}
