// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package result

import (
	"encoding/json"
	"math"
	"slices"
)

// PagedEnvelope is a list response carrying paging metadata.
type PagedEnvelope[T any] struct {
	success  bool
	code     string
	message  string
	data     []T
	current  int
	pageSize int
	totals   int
}

type pagedJSON[T any] struct {
	Success  bool   `json:"success"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Data     []T    `json:"data"`
	Current  int    `json:"current"`
	PageSize int    `json:"pageSize"`
	Totals   int    `json:"totals"`
}

// PagedSuccess returns a default success page of items.
func PagedSuccess[T any](items []T, current, pageSize, totals int) PagedEnvelope[T] {
	return NewPagedSuccess(SuccessMessageDefault, SuccessCodeDefault, items, current, pageSize, totals)
}

// NewPagedSuccess returns a fully specified success page.
// items is copied so later changes by the caller are not observed.
func NewPagedSuccess[T any](message, code string, items []T, current, pageSize, totals int) PagedEnvelope[T] {
	return PagedEnvelope[T]{
		success:  true,
		code:     code,
		message:  message,
		data:     slices.Clone(items),
		current:  current,
		pageSize: pageSize,
		totals:   totals,
	}
}

// PagedFail returns a failure page with the default failure code.
func PagedFail[T any](message string) PagedEnvelope[T] {
	return NewPagedFail[T](message, FailCodeDefault)
}

// NewPagedFail returns a failure page with a custom code and no items.
func NewPagedFail[T any](message, code string) PagedEnvelope[T] {
	return PagedEnvelope[T]{success: false, code: code, message: message}
}

// IsSuccess reports the success flag.
func (p PagedEnvelope[T]) IsSuccess() bool { return p.success }

// Code returns the status code string.
func (p PagedEnvelope[T]) Code() string { return p.code }

// Message returns the human readable message.
func (p PagedEnvelope[T]) Message() string { return p.message }

// Items returns a copy of the page items. A failure page has none.
func (p PagedEnvelope[T]) Items() []T { return slices.Clone(p.data) }

// Current returns the 1-based page number.
func (p PagedEnvelope[T]) Current() int { return p.current }

// PageSize returns the requested page size.
func (p PagedEnvelope[T]) PageSize() int { return p.pageSize }

// Totals returns the total number of items across all pages.
func (p PagedEnvelope[T]) Totals() int { return p.totals }

// MarshalJSON implements json.Marshaler. A success page always encodes data as an array.
func (p PagedEnvelope[T]) MarshalJSON() ([]byte, error) {
	data := p.data
	if p.success && data == nil {
		data = []T{}
	}
	return json.Marshal(pagedJSON[T]{
		Success:  p.success,
		Code:     p.code,
		Message:  p.message,
		Data:     data,
		Current:  p.current,
		PageSize: p.pageSize,
		Totals:   p.totals,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PagedEnvelope[T]) UnmarshalJSON(b []byte) error {
	var raw pagedJSON[T]
	if err := json.Unmarshal(b, &raw); err != nil {
		return err //nolint:wrapcheck // json errors pass through unchanged
	}
	*p = PagedEnvelope[T]{
		success:  raw.Success,
		code:     raw.Code,
		message:  raw.Message,
		data:     raw.Data,
		current:  raw.Current,
		pageSize: raw.PageSize,
		totals:   raw.Totals,
	}
	return nil
}

// Page describes a normalized page request.
type Page struct {
	Current  int
	PageSize int
}

// Paging limits applied by NormalizePage.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage clamps current to at least 1 and pageSize to [1, MaxPageSize],
// substituting DefaultPageSize for non-positive sizes.
func NormalizePage(current, pageSize int) Page {
	if current < 1 {
		current = 1
	}
	switch {
	case pageSize < 1:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return Page{Current: current, PageSize: pageSize}
}

// Offset returns the index of the first item on the page, saturating at
// math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Current <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Current-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Current - 1) * p.PageSize
}

// Slice returns the items of all that fall on page p.
// Pages past the end, and pages with a non-positive size, are empty.
func Slice[T any](all []T, p Page) []T {
	if p.PageSize <= 0 || len(all) == 0 {
		return []T{}
	}
	start := p.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + min(p.PageSize, len(all)-start)
	return all[start:end]
}
