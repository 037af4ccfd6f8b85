package fuzzy

// prefixDistance returns the smallest Levenshtein distance between fragment
// and any prefix of word, including the empty prefix and word itself.
// Rows are computed one word rune at a time; once every cell of a row exceeds
// bound no later row can go below it, so the scan stops and ok is false.
// The row buffers are supplied by the caller to keep the hot loop allocation free.
func prefixDistance(fragment, word []rune, bound int, prev, curr []int) (dist int, ok bool) {
	m := len(fragment)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}
	best := m

	for i := 1; i <= len(word); i++ {
		curr[0] = i
		rowMin := curr[0]
		wr := word[i-1]

		for j := 1; j <= m; j++ {
			cost := 1
			if fragment[j-1] == wr {
				cost = 0
			}
			v := prev[j-1] + cost
			if d := prev[j] + 1; d < v {
				v = d
			}
			if ins := curr[j-1] + 1; ins < v {
				v = ins
			}
			curr[j] = v
			if v < rowMin {
				rowMin = v
			}
		}

		if curr[m] < best {
			best = curr[m]
		}
		if rowMin > bound {
			break
		}
		prev, curr = curr, prev
	}

	if best > bound {
		return best, false
	}
	return best, true
}

// score turns the prefix distance into the ranking cost.
// The word equal to the fragment costs 0, exact continuations cost 1 and
// anything that needed edits costs its distance.
func score(fragment, word string, dist int) int {
	switch {
	case word == fragment:
		return 0
	case dist == 0:
		return 1
	}
	return dist
}
