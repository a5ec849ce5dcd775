package media

import (
	"sort"
	"strconv"
)

// NormalizeFormats filters a raw backend format list down to the visual
// renditions worth showing: audio-only entries are dropped, only the first
// occurrence of each height survives, and the result is sorted highest
// resolution first and truncated to limit. Already-normalized input passes
// through unchanged.
func NormalizeFormats(raw []Format, limit int) []Format {
	out := make([]Format, 0, len(raw))
	seen := make(map[int]bool, len(raw))

	for _, f := range raw {
		if !f.HasVideo || f.Height <= 0 {
			continue
		}
		if seen[f.Height] {
			continue
		}
		seen[f.Height] = true
		if f.Quality == "" {
			f.Quality = heightLabel(f.Height)
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Height > out[j].Height })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func heightLabel(h int) string {
	return strconv.Itoa(h) + "p"
}
