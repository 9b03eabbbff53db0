// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Rating is a single user-item rating row.
type Rating struct {
	// UserID is the rating user.
	UserID int

	// ItemID is the catalog item ID (anime_id), not the catalog index.
	ItemID int

	// Score is the explicit rating on the 1-10 scale.
	Score float64
}

// LoadStore reads the anime catalog CSV and builds an immutable Store.
//
// Expected columns: anime_id, name, genre, type, episodes, rating, members.
// Column order is taken from the header. Rows without genres are dropped,
// matching the upstream data cleaning. Missing rating or member values are
// imputed with the column median so they act as a neutral signal.
func LoadStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	items, err := parseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return NewStore(items), nil
}

// parseCatalog reads catalog rows from r.
func parseCatalog(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := indexColumns(header)
	for _, required := range []string{"anime_id", "name", "genre"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var items []Item
	var missingRating, missingMembers []int

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		genres := parseGenres(field(record, col, "genre"))
		if len(genres) == 0 {
			// Upstream cleaning drops entries without genres
			continue
		}

		id, err := strconv.Atoi(field(record, col, "anime_id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad anime_id: %w", line, err)
		}

		item := Item{
			ID:     id,
			Title:  strings.ReplaceAll(field(record, col, "name"), "&#039;", "'"),
			Genres: genres,
			Type:   strings.ToLower(field(record, col, "type")),
		}

		if v, err := strconv.ParseFloat(field(record, col, "rating"), 64); err == nil {
			item.Rating = v
		} else {
			missingRating = append(missingRating, len(items))
		}
		if v, err := strconv.Atoi(field(record, col, "members")); err == nil {
			item.Members = v
		} else {
			missingMembers = append(missingMembers, len(items))
		}

		items = append(items, item)
	}

	imputeMedians(items, missingRating, missingMembers)
	return items, nil
}

// imputeMedians fills missing rating and member values with the median of
// the present values, the neutral treatment for absent quality signals.
func imputeMedians(items []Item, missingRating, missingMembers []int) {
	if len(missingRating) > 0 && len(missingRating) < len(items) {
		present := make([]float64, 0, len(items)-len(missingRating))
		missing := make(map[int]struct{}, len(missingRating))
		for _, i := range missingRating {
			missing[i] = struct{}{}
		}
		for i := range items {
			if _, ok := missing[i]; !ok {
				present = append(present, items[i].Rating)
			}
		}
		med := median(present)
		for _, i := range missingRating {
			items[i].Rating = med
		}
	}

	if len(missingMembers) > 0 && len(missingMembers) < len(items) {
		present := make([]float64, 0, len(items)-len(missingMembers))
		missing := make(map[int]struct{}, len(missingMembers))
		for _, i := range missingMembers {
			missing[i] = struct{}{}
		}
		for i := range items {
			if _, ok := missing[i]; !ok {
				present = append(present, float64(items[i].Members))
			}
		}
		med := int(median(present))
		for _, i := range missingMembers {
			items[i].Members = med
		}
	}
}

// median returns the median of vals. vals is sorted in place.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}

// parseGenres splits a genre cell into tags. The cleaned dataset stores
// genres either as a comma-separated string or as a Python-style list
// literal ("['Action', 'Adventure']"); both forms are handled.
func parseGenres(cell string) []string {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, "[")
	cell = strings.TrimSuffix(cell, "]")
	if cell == "" {
		return nil
	}

	parts := strings.Split(cell, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		g := strings.Trim(strings.TrimSpace(p), `'"`)
		if g != "" && !strings.EqualFold(g, "unknown") {
			genres = append(genres, g)
		}
	}
	return genres
}

// LoadRatings reads the ratings CSV (user_id, anime_id, rating).
//
// Rows with non-positive ratings mark watched-but-unrated entries in the
// source dataset and are dropped. When the file holds more than maxRows
// rows, every k-th row is kept so the load stays deterministic without
// holding the full file in memory. maxRows <= 0 means no cap.
func LoadRatings(path string, maxRows int) ([]Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings: %w", err)
	}
	defer f.Close()

	ratings, err := parseRatings(f)
	if err != nil {
		return nil, fmt.Errorf("parse ratings %s: %w", path, err)
	}

	if maxRows > 0 && len(ratings) > maxRows {
		step := len(ratings) / maxRows
		sampled := make([]Rating, 0, maxRows)
		for i := 0; i < len(ratings) && len(sampled) < maxRows; i += step {
			sampled = append(sampled, ratings[i])
		}
		ratings = sampled
	}

	return ratings, nil
}

// parseRatings reads rating rows from r.
func parseRatings(r io.Reader) ([]Rating, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := indexColumns(header)
	for _, required := range []string{"user_id", "anime_id", "rating"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var ratings []Rating
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		userID, err := strconv.Atoi(field(record, col, "user_id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad user_id: %w", line, err)
		}
		itemID, err := strconv.Atoi(field(record, col, "anime_id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad anime_id: %w", line, err)
		}
		score, err := strconv.ParseFloat(field(record, col, "rating"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad rating: %w", line, err)
		}
		if score <= 0 {
			continue
		}

		ratings = append(ratings, Rating{UserID: userID, ItemID: itemID, Score: score})
	}

	return ratings, nil
}

// indexColumns maps lowercase header names to column positions.
func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}

// field returns the named column from record, or empty string when absent.
func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
