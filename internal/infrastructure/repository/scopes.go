package repository

import (
	"strings"

	"gorm.io/gorm"
)

// BranchScope filters by branch. An empty branch leaves the query unfiltered.
func BranchScope(branch string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if branch == "" {
			return db
		}
		return db.Where("branch = ?", branch)
	}
}

// SearchScope matches search case-insensitively against any of columns.
// LOWER/LIKE is used instead of ILIKE so the query runs on every supported driver.
func SearchScope(search string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			clauses[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}
