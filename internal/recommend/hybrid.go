// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import "sort"

// sourceScore is one candidate from a single ranking source.
type sourceScore struct {
	index int
	score float64
}

// blended is a combined candidate. Content and collab hold the percentile
// ranks from each source; a negative value marks a source that did not
// score the item.
type blended struct {
	index    int
	combined float64
	content  float64
	collab   float64

	// raw per-source scores for response metadata.
	rawContent float64
	rawCollab  float64
}

// percentileRanks converts raw scores to percentile ranks in [0, 1].
//
// For m candidates, an item's percentile is the fraction of other items it
// strictly beats: (count of strictly lower scores) / (m - 1). Ties share a
// percentile. A single candidate ranks 1.0. Percentiles make the two score
// scales (cosine similarity versus predicted rating) comparable before
// blending.
func percentileRanks(scores []sourceScore) map[int]float64 {
	ranks := make(map[int]float64, len(scores))
	if len(scores) == 0 {
		return ranks
	}
	if len(scores) == 1 {
		ranks[scores[0].index] = 1.0
		return ranks
	}

	sorted := make([]sourceScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].score < sorted[b].score
	})

	m := float64(len(sorted) - 1)
	below := 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].score == sorted[i].score {
			j++
		}
		p := float64(below) / m
		for ; i < j; i++ {
			ranks[sorted[i].index] = p
		}
		below = j
	}

	return ranks
}

// blend combines two ranked candidate lists into a single ranking.
//
// Each source's raw scores become percentile ranks, then each candidate
// gets a weighted sum of the percentiles from the sources that scored it.
// Candidates scored by only one source use that source's weight renormalized
// to 1, so a single-source item is not penalized for the other source's
// silence. Ordering is combined score descending; ties keep first-appearance
// order with content candidates ahead of collaborative ones.
func blend(content, collab []sourceScore, w HybridWeights) []blended {
	contentRank := percentileRanks(content)
	collabRank := percentileRanks(collab)

	rawContent := make(map[int]float64, len(content))
	for _, s := range content {
		rawContent[s.index] = s.score
	}
	rawCollab := make(map[int]float64, len(collab))
	for _, s := range collab {
		rawCollab[s.index] = s.score
	}

	order := make([]int, 0, len(content)+len(collab))
	seen := make(map[int]struct{}, len(content)+len(collab))
	for _, s := range content {
		if _, ok := seen[s.index]; !ok {
			seen[s.index] = struct{}{}
			order = append(order, s.index)
		}
	}
	for _, s := range collab {
		if _, ok := seen[s.index]; !ok {
			seen[s.index] = struct{}{}
			order = append(order, s.index)
		}
	}

	out := make([]blended, 0, len(order))
	for _, idx := range order {
		b := blended{index: idx, content: -1, collab: -1}

		cp, hasContent := contentRank[idx]
		kp, hasCollab := collabRank[idx]

		switch {
		case hasContent && hasCollab:
			b.combined = w.Content*cp + w.Collaborative*kp
			b.content = cp
			b.collab = kp
		case hasContent:
			b.combined = cp
			b.content = cp
		case hasCollab:
			b.combined = kp
			b.collab = kp
		}
		b.rawContent = rawContent[idx]
		b.rawCollab = rawCollab[idx]

		out = append(out, b)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].combined > out[b].combined
	})

	return out
}
