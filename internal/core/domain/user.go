package domain

import "time"

// User statuses. Anything other than active is treated as disabled.
const (
	StatusActive   int16 = 1
	StatusDisabled int16 = 0
)

// User is the full database representation of an account, including the
// password digest. It never leaves the service layer.
type User struct {
	ID        int64
	Username  string
	Password  string // hex digest, never the plaintext
	Nickname  string
	Email     string
	Phone     string
	Status    int16
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public view of a user: everything except the password
// digest. It is what handlers return and what the session cache stores
// (JSON-encoded) under the token key.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    int16     `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToProfile strips the password digest from a User.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		Nickname:  u.Nickname,
		Email:     u.Email,
		Phone:     u.Phone,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Nickname string `json:"nickname"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateRequest is a partial update of the account identified by ID.
// Zero-valued fields are left untouched.
type UpdateRequest struct {
	ID       int64  `json:"id" binding:"required,gt=0"`
	Nickname string `json:"nickname"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// DefaultPageSize bounds the page size when the caller supplies none;
// MaxPageSize caps it.
const (
	DefaultPageNum  = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest holds paging parameters. Normalize must be called before use.
type PageRequest struct {
	PageNum  int `form:"pageNum"`
	PageSize int `form:"pageSize"`
}

// Normalize clamps paging parameters into a usable range.
func (p *PageRequest) Normalize() {
	if p.PageNum < 1 {
		p.PageNum = DefaultPageNum
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the row offset for the normalized page.
func (p *PageRequest) Offset() int {
	return (p.PageNum - 1) * p.PageSize
}

// PageResult is one page of profiles plus the total active-user count.
type PageResult struct {
	Total   int64      `json:"total"`
	Records []*Profile `json:"records"`
}
