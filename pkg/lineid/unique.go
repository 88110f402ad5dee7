package lineid

import "strconv"

const (
	numSuffix  = "_num_"
	lineSuffix = "_line"
)

// UniqueLabels returns one identifier per label. Labels that occur once are
// returned unchanged. A label that occurs k times gets the suffixes
// _num_k, _num_(k-1), ..., _num_1 in sequence order, so the first
// occurrence carries the highest number.
//
// The input slice is not modified.
func UniqueLabels(labels []string) []string {
	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}

	out := make([]string, len(labels))
	remaining := make(map[string]int, len(counts))
	for i, l := range labels {
		if counts[l] == 1 {
			out[i] = l
			continue
		}
		k, seen := remaining[l]
		if !seen {
			k = counts[l]
		}
		out[i] = l + numSuffix + strconv.Itoa(k)
		remaining[l] = k - 1
	}
	return out
}

// ConnectorID returns the identifier of the connector belonging to the
// label identified by id.
func ConnectorID(id string) string {
	return id + lineSuffix
}

// ConnectorIDs maps ConnectorID over ids.
func ConnectorIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ConnectorID(id)
	}
	return out
}
