package repository

import (
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	MinLimit     = 10
	MaxLimit     = 100
	DefaultSort  = "created_at"
	SortOrderAsc = "asc"
	SortOrderDsc = "desc"
)

// 一覧APIで共通のページング/ソート/検索条件
type ListQuery struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
	Search string
}

// Normalizeは範囲外の値を丸める。
// page<1 は1、limitは10〜100、sortByは許可リスト外ならcreated_at、orderはasc以外desc。
func (q ListQuery) Normalize(allowedSort map[string]string) ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < MinLimit {
		q.Limit = MinLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if _, ok := allowedSort[q.SortBy]; !ok {
		q.SortBy = DefaultSort
	}
	if strings.ToLower(q.Order) == SortOrderAsc {
		q.Order = SortOrderAsc
	} else {
		q.Order = SortOrderDsc
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// OrderClauseは "列 asc|desc" を返す。allowedSortの値が実際の列名。
func (q ListQuery) OrderClause(allowedSort map[string]string) string {
	col, ok := allowedSort[q.SortBy]
	if !ok {
		col = allowedSort[DefaultSort]
	}
	return col + " " + q.Order
}

// レスポンスのpagination
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(q ListQuery, total int64) Pagination {
	pages := 0
	if q.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}
	return Pagination{Page: q.Page, Limit: q.Limit, Total: total, TotalPages: pages}
}
