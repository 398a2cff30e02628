package utils

import (
	"math/rand"
)

func GetRandomGameId(size int) string {
	r := make([]byte, size)
	for i := 0; i < size; i += 1 {
		offset := rand.Intn(26)
		r[i] = byte(97 + offset)
	}
	return string(r)
}

// RandomExcluding draws a random item different from exclude. When no
// other choice exists the excluded item is returned.
func RandomExcluding(items []string, exclude string) string {
	candidates := make([]string, 0, len(items))
	for _, item := range items {
		if item != exclude {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return exclude
	}
	return candidates[rand.Intn(len(candidates))]
}

func Remove(items []string, item string) []string {
	kept := make([]string, 0, len(items))
	for _, other := range items {
		if other != item {
			kept = append(kept, other)
		}
	}
	return kept
}
