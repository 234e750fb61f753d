package handler

import (
	"net/http"
	"strconv"

	"github.com/timvest/intake-server-go/internal/config"
)

type PaginationParams struct {
	Page     int
	PageSize int
}

func ParsePagination(r *http.Request) PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	if pageSize <= 0 || pageSize > config.MaxPageSize {
		pageSize = config.DefaultPageSize
	}

	if page < 1 {
		page = 1
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
	}
}
