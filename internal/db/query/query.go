// Package query provides the pagination, search and sorting helpers of list endpoints.
package query

import (
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 10
	// MaxLimit caps the requested page size.
	MaxLimit = 100
	// MaxPage caps the requested page number so offsets stay small.
	MaxPage = 1 << 20
)

// Params are the list parameters of a request.
type Params struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Search   string `query:"search"`
	OrderBy  string `query:"orderBy"`
	OrderDir string `query:"orderDir"`
}

// Pagination describes the returned page.
type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	StartItem   int64 `json:"startItem"`
	EndItem     int64 `json:"endItem"`
}

// Normalize applies the defaults and bounds to p.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.Page > MaxPage {
		p.Page = MaxPage
	}

	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}

func (p Params) offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginate returns a scope selecting the requested page.
func Paginate(p Params) func(*gorm.DB) *gorm.DB {
	p = p.Normalize()

	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.offset()).Limit(p.Limit)
	}
}

// Search returns a scope matching p.Search against any of fields.
func Search(p Params, fields ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Search == "" || len(fields) == 0 {
			return db
		}

		like := "%" + p.Search + "%"
		clauses := make([]string, 0, len(fields))
		args := make([]any, 0, len(fields))

		for _, f := range fields {
			clauses = append(clauses, f+" LIKE ?")
			args = append(args, like)
		}

		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// Order returns a scope sorting by p.OrderBy when it is one of allowed.
// The fallback column is used otherwise.
func Order(p Params, fallback string, allowed ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := fallback

		for _, a := range allowed {
			if a == p.OrderBy {
				column = a
				break
			}
		}

		if strings.EqualFold(p.OrderDir, "desc") {
			return db.Order(column + " DESC")
		}

		return db.Order(column + " ASC")
	}
}

// Build describes the page of p within total items.
func Build(p Params, total int64) Pagination {
	p = p.Normalize()

	offset := int64(p.offset())
	out := Pagination{
		TotalItems:  total,
		CurrentPage: p.Page,
		TotalPages:  int((total + int64(p.Limit) - 1) / int64(p.Limit)),
		EndItem:     min(offset+int64(p.Limit), total),
	}

	if total > 0 {
		out.StartItem = offset + 1
	}

	return out
}
