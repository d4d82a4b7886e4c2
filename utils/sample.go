package utils

import "math/rand"

// SampleEnglish draws n independent letters from the English monogram
// distribution. The result has English single-letter statistics but no
// word structure.
func SampleEnglish(rng *rand.Rand, n int) []int {
	var cum [AlphabetSize]float64
	var total float64
	for i, f := range EnglishMonograms {
		total += f
		cum[i] = total
	}
	out := make([]int, n)
	for i := range out {
		r := rng.Float64() * total
		j := 0
		for j < AlphabetSize-1 && cum[j] < r {
			j++
		}
		out[i] = j
	}
	return out
}
