package utils

const AlphabetSize = 26

var (
	// http://practicalcryptography.com/cryptanalysis/letter-frequencies-various-languages/english-letter-frequencies/
	EnglishMonograms = [AlphabetSize]float64{
		0.0855, // A
		0.0160, // B
		0.0316, // C
		0.0387, // D
		0.1210, // E
		0.0218, // F
		0.0209, // G
		0.0496, // H
		0.0733, // I
		0.0022, // J
		0.0081, // K
		0.0421, // L
		0.0253, // M
		0.0717, // N
		0.0747, // O
		0.0207, // P
		0.0010, // Q
		0.0633, // R
		0.0673, // S
		0.0894, // T
		0.0268, // U
		0.0106, // V
		0.0183, // W
		0.0019, // X
		0.0172, // Y
		0.0011, // Z
	}

	// EnglishWordLengths[i] is the relative frequency of English words with
	// i+1 letters, from Norvig's Google books counts.
	EnglishWordLengths = []float64{
		0.02998, 0.17651, 0.20511, 0.14787, 0.10700,
		0.08388, 0.07939, 0.05943, 0.04437, 0.03076,
		0.01761, 0.00958, 0.00518, 0.00222, 0.00076,
		0.00027, 0.00008, 0.00002, 0.00001, 0.00001,
	}
)

const (
	// 26 * IoC of English text
	EnglishNormalisedIoC = 1.742
	// Shannon entropy of English letters, in nats
	EnglishEntropy = 2.85
)
