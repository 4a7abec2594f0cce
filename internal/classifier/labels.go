package classifier

import (
	"sort"
	"strings"
)

// LabelFrame is the per-second classifier output: the top-ranked class names
// for one one-second window, colon-joined and most probable first. Frames
// are addressable by second offset: frame i covers seconds [i, i+1).
type LabelFrame struct {
	TimeIndex int
	Labels    string
}

// TopLabels ranks a probability row and joins the k most probable class
// display names with ":". Indices missing from the class map are skipped.
func TopLabels(classMap ClassMap, probabilities []float64, k int) string {
	if k <= 0 || len(probabilities) == 0 {
		return ""
	}

	order := make([]int, len(probabilities))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probabilities[order[a]] > probabilities[order[b]]
	})

	names := make([]string, 0, k)
	for _, idx := range order {
		name, ok := classMap[idx]
		if !ok {
			continue
		}
		names = append(names, name)
		if len(names) == k {
			break
		}
	}
	return strings.Join(names, ":")
}
