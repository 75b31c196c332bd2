package catalog

import "github.com/Kathiriniyan/SukanFood-sub001/internal/shared"

// ListParams drives the in-memory filter/sort/paginate pipeline.
type ListParams struct {
	Search     string `json:"search" validate:"max=100"`
	SortBy     string `json:"sort_by" validate:"omitempty,oneof=code name sell_rate"`
	Desc       bool   `json:"desc"`
	ActiveOnly bool   `json:"active_only"`
	Page       int    `json:"page" validate:"gte=0"`
	PerPage    int    `json:"per_page" validate:"gte=0,lte=200"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T               `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}
