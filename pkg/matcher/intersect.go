package matcher

import "slices"

// intersect returns the items present in every list. Lists must be sorted
// ascending but may repeat values; repeats in the shortest list survive.
// No lists means no items.
func intersect(lists [][]int) []int {
	if len(lists) == 0 {
		return nil
	}

	shortest := 0
	for i, list := range lists {
		if len(list) < len(lists[shortest]) {
			shortest = i
		}
	}

	result := slices.Clone(lists[shortest])
	for i, list := range lists {
		if i == shortest {
			continue
		}
		result = slices.DeleteFunc(result, func(item int) bool {
			_, found := slices.BinarySearch(list, item)
			return !found
		})
		if len(result) == 0 {
			break
		}
	}
	return result
}
