package service

import (
	"sort"
	"strings"

	"realty-insights-backend/models"
)

// FilterArea returns the rows where any location-like column equals area,
// compared case-insensitively on the cell's string form.
func FilterArea(ds *models.Dataset, area string) *models.Dataset {
	cols := ds.Schema.LocationColumns
	if len(cols) == 0 {
		return ds.Subset([]models.Row{})
	}

	target := strings.ToLower(area)
	rows := make([]models.Row, 0)
	for _, row := range ds.Rows {
		for _, col := range cols {
			if strings.ToLower(models.CellString(row[col])) == target {
				rows = append(rows, row)
				break
			}
		}
	}

	return ds.Subset(rows)
}

// RestrictToRecentYears keeps rows whose year is at least fromYear.
// Rows without a year are dropped.
func RestrictToRecentYears(ds *models.Dataset, fromYear float64) *models.Dataset {
	rows := make([]models.Row, 0, ds.Len())
	for _, row := range ds.Rows {
		if y, ok := ds.Year(row); ok && y >= fromYear {
			rows = append(rows, row)
		}
	}
	return ds.Subset(rows)
}

// yearGroup is the rows of one year
type yearGroup struct {
	year float64
	rows []models.Row
}

// groupByYear groups rows by year in ascending order, skipping rows without a year
func groupByYear(ds *models.Dataset) []yearGroup {
	index := make(map[float64]int)
	var groups []yearGroup
	for _, row := range ds.Rows {
		y, ok := ds.Year(row)
		if !ok {
			continue
		}
		i, exists := index[y]
		if !exists {
			i = len(groups)
			index[y] = i
			groups = append(groups, yearGroup{year: y})
		}
		groups[i].rows = append(groups[i].rows, row)
	}

	sort.Slice(groups, func(a, b int) bool { return groups[a].year < groups[b].year })
	return groups
}
