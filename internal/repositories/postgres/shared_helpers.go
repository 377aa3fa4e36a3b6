package postgres

import (
	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

// applyUserFilters applies common filters to user queries
func applyUserFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	return query
}

// applyCourseFilters applies common filters to course queries
func applyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.TrainerID != nil {
		query = query.Where("trainer_id = ?", *filters.TrainerID)
	}
	if filters.Query != "" {
		query = query.Where("course_name ILIKE ?", "%"+filters.Query+"%")
	}
	return query
}

// applyBatchFilters applies common filters to batch queries
func applyBatchFilters(query *gorm.DB, filters repositories.BatchFilters) *gorm.DB {
	if filters.TrainerID != nil {
		query = query.Where("trainer_id = ?", *filters.TrainerID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	return query
}

// applyPaginationAndSort applies pagination and sorting with SQL injection protection
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":       true,
		"updated_at":       true,
		"id":               true,
		"name":             true,
		"email":            true,
		"course_name":      true,
		"batch_start_date": true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
