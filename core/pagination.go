package core

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100

	// offsets stay within 32 bits so that offset+limit cannot overflow an int anywhere
	maxOffset = math.MaxInt32 - MaxLimit
)

// Pagination is a 1-based page window.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination parses raw query values. Missing, non-numeric or non-positive values fall back to the defaults.
// The limit is capped at MaxLimit and the page at the last one reachable by an offset.
func NewPagination(page, limit string) Pagination {
	p := Pagination{
		Page:  parsePositive(page, DefaultPage),
		Limit: parsePositive(limit, DefaultLimit),
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if maxPage := maxOffset/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages is the number of pages needed to hold `total` items.
func (p Pagination) Pages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(CleanString(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
