package service

import (
	"math"
	"strconv"
	"strings"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100

	// maxPage keeps (page-1)*maxPageSize within int.
	maxPage = math.MaxInt / maxPageSize
)

// pagination parses page and pageSize query values. Missing, non-numeric or
// non-positive values fall back to the defaults; both are capped.
func pagination(page, pageSize string) (int, int) {
	p := positiveInt(page, defaultPage)
	ps := positiveInt(pageSize, defaultPageSize)
	if ps > maxPageSize {
		ps = maxPageSize
	}
	if p > maxPage {
		p = maxPage
	}
	return p, ps
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
