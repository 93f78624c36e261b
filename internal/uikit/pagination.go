// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit holds view helpers shared by the dashboard pages.
package uikit

import (
	"fmt"
	"net/http"
	"strconv"
)

// Pagination describes one page of a list for templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PerPage     int
	BaseURL     string
	Pages       []Page
}

// Page is one link in the pager. Ellipsis entries have no number.
type Page struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// Paginate clamps page to the items available and builds the pager for baseURL.
func Paginate(page, totalItems, perPage int, baseURL string) Pagination {
	if perPage <= 0 {
		perPage = 1
	}
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	p := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		BaseURL:     baseURL,
	}
	p.Pages = buildPages(page, totalPages, p.PageURL)
	return p
}

// PageURL returns the link to page n.
func (p Pagination) PageURL(n int) string {
	return fmt.Sprintf("%s?page=%d", p.BaseURL, n)
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.CurrentPage < p.TotalPages }

// PrevURL links the previous page.
func (p Pagination) PrevURL() string { return p.PageURL(p.CurrentPage - 1) }

// NextURL links the following page.
func (p Pagination) NextURL() string { return p.PageURL(p.CurrentPage + 1) }

// ShouldShow reports whether there is more than one page.
func (p Pagination) ShouldShow() bool { return p.TotalPages > 1 }

// Bounds returns the slice bounds of the current page within the full list.
func (p Pagination) Bounds() (start, end int) {
	start = (p.CurrentPage - 1) * p.PerPage
	end = min(start+p.PerPage, p.TotalItems)
	return min(start, end), end
}

// buildPages shows five numbers centered on current, always including the
// first and last page with an ellipsis across any gap.
func buildPages(current, total int, url func(int) string) []Page {
	start, end := current-2, current+2
	if start < 1 {
		start, end = 1, 5
	}
	if end > total {
		end = total
		start = max(end-4, 1)
	}

	var pages []Page
	if start > 1 {
		pages = append(pages, Page{Number: 1, URL: url(1)})
		if start > 2 {
			pages = append(pages, Page{IsEllipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		pages = append(pages, Page{Number: i, URL: url(i), IsCurrent: i == current})
	}
	if end < total {
		if end < total-1 {
			pages = append(pages, Page{IsEllipsis: true})
		}
		pages = append(pages, Page{Number: total, URL: url(total)})
	}
	return pages
}

// ParsePageParam reads the "page" query parameter, defaulting to 1.
func ParsePageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
