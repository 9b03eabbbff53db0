// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	t.Run("reads header-ordered columns", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"anime_id,name,genre,type,episodes,rating,members",
			`20,Naruto,"Action, Adventure",TV,220,8.0,500000`,
			`199,Sen to Chihiro,"Adventure, Drama",Movie,1,8.9,600000`,
		}, "\n")

		items, err := parseCatalog(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 20, items[0].ID)
		assert.Equal(t, "Naruto", items[0].Title)
		assert.Equal(t, []string{"Action", "Adventure"}, items[0].Genres)
		assert.Equal(t, "tv", items[0].Type)
		assert.Equal(t, 8.0, items[0].Rating)
		assert.Equal(t, 500000, items[0].Members)
	})

	t.Run("drops rows without genres", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"anime_id,name,genre,type,episodes,rating,members",
			`1,Keep,"Action",TV,12,7.0,1000`,
			`2,Drop,,TV,12,7.0,1000`,
		}, "\n")

		items, err := parseCatalog(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Keep", items[0].Title)
	})

	t.Run("decodes html apostrophe entity", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"anime_id,name,genre,type,episodes,rating,members",
			`1,Gintama&#039;,"Comedy",TV,51,9.0,1000`,
		}, "\n")

		items, err := parseCatalog(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Gintama'", items[0].Title)
	})

	t.Run("imputes missing rating with median", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"anime_id,name,genre,type,episodes,rating,members",
			`1,A,"Action",TV,12,6.0,100`,
			`2,B,"Action",TV,12,8.0,200`,
			`3,C,"Action",TV,12,,300`,
		}, "\n")

		items, err := parseCatalog(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, 7.0, items[2].Rating)
	})

	t.Run("parses python list literal genres", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"anime_id,name,genre,type,episodes,rating,members",
			`1,A,"['Action', 'Adventure']",TV,12,7.0,100`,
		}, "\n")

		items, err := parseCatalog(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, []string{"Action", "Adventure"}, items[0].Genres)
	})

	t.Run("missing required column", func(t *testing.T) {
		t.Parallel()
		_, err := parseCatalog(strings.NewReader("anime_id,type\n1,TV"))
		assert.Error(t, err)
	})
}

func TestParseRatings(t *testing.T) {
	t.Parallel()

	t.Run("reads rows and drops unrated sentinels", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"user_id,anime_id,rating",
			"1,20,9",
			"1,269,-1",
			"2,20,7.5",
		}, "\n")

		ratings, err := parseRatings(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, ratings, 2)
		assert.Equal(t, Rating{UserID: 1, ItemID: 20, Score: 9}, ratings[0])
		assert.Equal(t, Rating{UserID: 2, ItemID: 20, Score: 7.5}, ratings[1])
	})

	t.Run("bad row errors with line number", func(t *testing.T) {
		t.Parallel()
		csv := "user_id,anime_id,rating\nnotanumber,20,9"
		_, err := parseRatings(strings.NewReader(csv))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestMedian(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, median(nil))
}
