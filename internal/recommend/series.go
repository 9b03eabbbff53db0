// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package recommend

import (
	"strings"

	"github.com/hoshizora-labs/animerec/internal/catalog"
)

// seasonSuffixes are trailing tokens that mark a sequel, season, or spin-off
// of the same franchise. Stripped greedily from the end of a cleaned title
// when extracting the series name.
var seasonSuffixes = []string{
	"2nd season", "3rd season", "4th season", "5th season",
	"second season", "third season", "fourth season", "fifth season",
	"season 2", "season 3", "season 4", "season 5",
	"part 2", "part 3", "part ii", "part iii",
	"ii", "iii", "iv", "vi",
	"2", "3", "4", "5",
	"movie", "ova", "special", "specials", "recap",
	"final", "shippuuden", "shippuden", "kai", "brotherhood",
	"zoku", "after story", "next", "try", "go",
}

// knownFamilies groups franchise aliases whose titles share no usable
// prefix. Each inner slice is one family; membership in the same family
// marks two titles as the same series.
var knownFamilies = [][]string{
	{"fullmetal alchemist", "hagane no renkinjutsushi"},
	{"hunter x hunter", "hunter × hunter"},
	{"fate/stay night", "fate/zero", "fate/kaleid", "fate/apocrypha", "fate/extra"},
	{"code geass", "code geass hangyaku no lelouch"},
	{"gintama", "gintama'"},
	{"haikyuu", "haikyu"},
	{"jojo no kimyou na bouken", "jojo's bizarre adventure"},
}

// seriesName extracts the franchise stem from a title: clean it, then
// repeatedly strip season and sequel suffixes.
func seriesName(title string) string {
	name := catalog.CleanTitle(title)
	for changed := true; changed; {
		changed = false
		for _, suffix := range seasonSuffixes {
			if trimmed, ok := strings.CutSuffix(name, " "+suffix); ok {
				name = strings.TrimSpace(trimmed)
				changed = true
			}
		}
	}
	return name
}

// sameSeries reports whether two titles belong to the same franchise:
// equal stems, one stem containing the other, or shared membership in a
// known family. Very short stems only match exactly, so one-word titles do
// not swallow unrelated shows.
func sameSeries(a, b string) bool {
	sa, sb := seriesName(a), seriesName(b)
	if sa == "" || sb == "" {
		return false
	}
	if sa == sb {
		return true
	}

	if len(sa) >= 4 && len(sb) >= 4 {
		if strings.Contains(sa, sb) || strings.Contains(sb, sa) {
			return true
		}
	}

	for _, family := range knownFamilies {
		inA, inB := false, false
		for _, member := range family {
			if strings.Contains(sa, member) {
				inA = true
			}
			if strings.Contains(sb, member) {
				inB = true
			}
		}
		if inA && inB {
			return true
		}
	}

	return false
}
