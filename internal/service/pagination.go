package service

import (
	"math"

	"gorm.io/gorm"
)

const (
	maxPageSize = 100
	// maxPage 保证 (page-1)*limit 不会溢出 int32。
	maxPage = math.MaxInt32 / maxPageSize
)

// PageRequest 描述分页参数，零值表示使用默认值。
type PageRequest struct {
	Page  int
	Limit int
}

func (r PageRequest) normalize(defaultLimit int) PageRequest {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Page > maxPage {
		r.Page = maxPage
	}
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxPageSize {
		r.Limit = maxPageSize
	}
	return r
}

// Page mirrors the paginator payload clients already consume.
type Page[T any] struct {
	CurrentPage int   `json:"current_page"`
	Data        []T   `json:"data"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// paginate counts query, then loads the requested window into a Page.
// query must not carry Limit/Offset yet; load applies ordering and preloads.
func paginate[T any](query *gorm.DB, req PageRequest, load func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	page := &Page[T]{CurrentPage: req.Page, PerPage: req.Limit, Data: []T{}}

	if err := query.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
		return nil, err
	}

	if page.Total == 0 {
		page.LastPage = 1
		return page, nil
	}
	page.LastPage = int((page.Total + int64(req.Limit) - 1) / int64(req.Limit))

	offset := (req.Page - 1) * req.Limit
	var rows []T
	if err := load(query.Session(&gorm.Session{})).Limit(req.Limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		from := offset + 1
		to := offset + len(rows)
		page.From = &from
		page.To = &to
		page.Data = rows
	}
	return page, nil
}
