package admin

import (
	"github.com/anand-5154/edurise-server/internal/modules/user"
)

// Report is the dashboard summary: platform-wide counts and the revenue sum
// over paid orders, in minor currency units.
type Report struct {
	Students    int64 `json:"students" redis:"students"`
	Instructors int64 `json:"instructors" redis:"instructors"`
	Courses     int64 `json:"courses" redis:"courses"`
	Enrollments int64 `json:"enrollments" redis:"enrollments"`
	Revenue     int64 `json:"revenue" redis:"revenue"`
}

// ListUsersParams narrows and pages an account listing.
type ListUsersParams struct {
	Role     user.Role
	Search   string
	Page     int
	PageSize int
}

func (p *ListUsersParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

// UserPage is one page of accounts plus the total match count.
type UserPage struct {
	Users    []user.User
	Total    int64
	PageNum  int
	PageSize int
}
