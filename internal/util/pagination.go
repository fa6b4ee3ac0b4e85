package util

import "strconv"

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	MaxPage         = 1_000_000 // bounds the offset well below int overflow
)

// Calculate normalizes page/size and returns the page actually served
// with the offset and limit for it.
func Calculate(page, size int) (served, from, limit int) {
	page = min(max(page, 1), MaxPage)
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	from = (page - 1) * size
	return page, from, size
}

func Pages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
