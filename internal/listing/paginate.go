package listing

import (
	"github.com/timvest/intake-server-go/internal/config"
	"github.com/timvest/intake-server-go/internal/model"
)

type Page struct {
	Items      []model.Application `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// Paginate slices apps into 1-based pages. A page below 1 is treated as 1 and
// a non-positive pageSize falls back to config.DefaultPageSize. A page past the
// end yields no items but still reports the totals.
func Paginate(apps []model.Application, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(apps)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	result := Page{
		Items:      []model.Application{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}

	// Compared before multiplying so a huge page cannot overflow the offset.
	if page > totalPages {
		return result
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, total-start)
	result.Items = apps[start:end]
	return result
}
