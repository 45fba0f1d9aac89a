package course

import (
	"time"
)

// Level grades the difficulty of a course.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Category groups courses for browsing and filtering. Managed by admins.
type Category struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Course is an instructor-owned catalog entry. Price is stored in minor
// currency units (paise) so it can be handed to the payment gateway as-is.
// Unpublished courses are visible only to their owner and admins.
type Course struct {
	ID           string    `db:"id"`
	InstructorID string    `db:"instructor_id"`
	CategoryID   string    `db:"category_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Price        int64     `db:"price"`
	Level        Level     `db:"level"`
	Duration     int       `db:"duration"` // total hours, informational
	ThumbnailURL string    `db:"thumbnail_url"`
	DemoVideoURL string    `db:"demo_video_url"`
	Published    bool      `db:"published"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Module is an ordered chapter within a course. Position is a zero-based
// contiguous index; the first module of a course is always unlocked for
// enrolled learners.
type Module struct {
	ID        string    `db:"id"`
	CourseID  string    `db:"course_id"`
	Title     string    `db:"title"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Lecture is an ordered unit of content within a module.
type Lecture struct {
	ID            string    `db:"id"`
	ModuleID      string    `db:"module_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	VideoURL      string    `db:"video_url"`
	Duration      int       `db:"duration"` // minutes
	Position      int       `db:"position"`
	ResourceLinks []string  `db:"resource_links"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ModuleWithLectures is a module paired with its ordered lectures, used by
// the course detail view.
type ModuleWithLectures struct {
	Module
	Lectures []Lecture
}

// CourseDetail is a course with its full content tree and category name.
type CourseDetail struct {
	Course
	CategoryName   string
	InstructorName string
	Modules        []ModuleWithLectures
}

// SortOrder enumerates the public listing sort options.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// ListParams narrows and pages a course listing.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Category string
	Level    Level
	Sort     SortOrder
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	switch p.Sort {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc:
	default:
		p.Sort = SortNewest
	}
}

func (p ListParams) offset() uint64 {
	return uint64((p.Page - 1) * p.PageSize)
}

// Page is one page of a course listing plus the total match count.
type Page struct {
	Courses  []Course
	Total    int64
	PageNum  int
	PageSize int
}
