// Package stats holds the statistical primitives used to turn raw timing
// samples into confidence-bounded estimates and to decide whether two
// samples differ.
package stats

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
)

// largeSampleCritical is the two-tailed 95% critical value of the normal
// distribution, used once the t-table runs out.
const largeSampleCritical = 1.96

// distributionSize is the number of bootstrap means built by Resample.
const distributionSize = 10000

// tTable holds the two-tailed Student's t critical values for 95%
// confidence, indexed by degrees of freedom (index 0 is unused).
var tTable = [...]float64{
	0,
	12.706, 4.303, 3.182, 2.776, 2.571, 2.447,
	2.365, 2.306, 2.262, 2.228, 2.201, 2.179,
	2.16, 2.145, 2.131, 2.12, 2.11, 2.101,
	2.093, 2.086, 2.08, 2.074, 2.069, 2.064,
	2.06, 2.056, 2.052, 2.048, 2.045, 2.042,
}

// uTable holds critical Mann-Whitney U values for 95% confidence. The row
// is the larger sample size, the column is the smaller sample size minus 3.
var uTable = map[int][]float64{
	5:  {0, 1, 2},
	6:  {1, 2, 3, 5},
	7:  {1, 3, 5, 6, 8},
	8:  {2, 4, 6, 8, 10, 13},
	9:  {2, 4, 7, 10, 12, 15, 17},
	10: {3, 5, 8, 11, 14, 17, 20, 23},
	11: {3, 6, 9, 13, 16, 19, 23, 26, 30},
	12: {4, 7, 11, 14, 18, 22, 26, 29, 33, 37},
	13: {4, 8, 12, 16, 20, 24, 28, 33, 37, 41, 45},
	14: {5, 9, 13, 17, 22, 26, 31, 36, 40, 45, 50, 55},
	15: {5, 10, 14, 19, 24, 29, 34, 39, 44, 49, 54, 59, 64},
	16: {6, 11, 15, 21, 26, 31, 37, 42, 47, 53, 59, 64, 70, 75},
	17: {6, 11, 17, 22, 28, 34, 39, 45, 51, 57, 63, 67, 75, 81, 87},
	18: {7, 12, 18, 24, 30, 36, 42, 48, 55, 61, 67, 74, 80, 86, 93, 99},
	19: {7, 13, 19, 25, 32, 38, 45, 52, 58, 65, 72, 78, 85, 92, 99, 106, 113},
	20: {8, 14, 20, 27, 34, 41, 48, 55, 62, 69, 76, 83, 90, 98, 105, 112, 119, 127},
	21: {8, 15, 22, 29, 36, 43, 50, 58, 65, 73, 80, 88, 96, 103, 111, 119, 126, 134, 142},
	22: {9, 16, 23, 30, 38, 45, 53, 61, 69, 77, 85, 93, 101, 109, 117, 125, 133, 141, 150, 158},
	23: {9, 17, 24, 32, 40, 48, 56, 64, 73, 81, 89, 98, 106, 115, 123, 132, 140, 149, 157, 166, 175},
	24: {10, 17, 25, 33, 42, 50, 59, 67, 76, 85, 94, 102, 111, 120, 129, 138, 147, 156, 165, 174, 183, 192},
	25: {10, 18, 27, 35, 44, 53, 62, 71, 80, 89, 98, 107, 117, 126, 135, 145, 154, 163, 173, 182, 192, 201, 211},
	26: {11, 19, 28, 37, 46, 55, 64, 74, 83, 93, 102, 112, 122, 132, 141, 151, 161, 171, 181, 191, 200, 210, 220, 230},
	27: {11, 20, 29, 38, 48, 57, 67, 77, 87, 97, 107, 118, 125, 138, 147, 158, 168, 178, 188, 199, 209, 219, 230, 240, 250},
	28: {12, 21, 30, 40, 50, 60, 70, 80, 90, 101, 111, 122, 132, 143, 154, 164, 175, 186, 196, 207, 218, 228, 239, 250, 261, 272},
	29: {13, 22, 32, 42, 52, 62, 73, 83, 94, 105, 116, 127, 138, 149, 160, 171, 182, 193, 204, 215, 226, 238, 249, 260, 271, 282, 294},
	30: {13, 23, 33, 43, 54, 65, 76, 87, 98, 109, 120, 131, 143, 154, 166, 177, 189, 200, 212, 223, 235, 247, 258, 270, 282, 293, 305, 317},
}

// Mean returns the arithmetic mean of sample, or 0 for an empty sample.
func Mean(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	return moremath.Sample{Xs: sample}.Mean()
}

// Variance returns the unbiased sample variance of sample. It is 0 when
// the sample has fewer than two points.
func Variance(sample []float64) float64 {
	if len(sample) <= 1 {
		return 0
	}
	return moremath.Sample{Xs: sample}.Variance()
}

// CriticalValue returns the two-tailed 95% Student's t critical value for
// df degrees of freedom. Degrees of freedom that round to zero or below
// are treated as 1; values beyond the table use the normal approximation.
func CriticalValue(df float64) float64 {
	n := int(math.Round(df))
	if n <= 0 {
		n = 1
	}
	if n < len(tTable) {
		return tTable[n]
	}
	return largeSampleCritical
}

// MannWhitneyUTest performs a two-sample rank test on a and b. It returns
// 1 if a is significantly lower than b, -1 if it is significantly higher,
// and 0 when the difference is indeterminate. Passing the same slice
// twice always yields 0.
func MannWhitneyUTest(a, b []float64) int {
	if sameSample(a, b) {
		return 0
	}

	sizeA, sizeB := len(a), len(b)
	maxSize, minSize := max(sizeA, sizeB), min(sizeA, sizeB)
	u1 := rankSum(a, b)
	u2 := rankSum(b, a)
	u := math.Min(u1, u2)

	direction := -1
	if u == u1 {
		direction = 1
	}

	if sizeA+sizeB > 30 {
		n1, n2 := float64(sizeA), float64(sizeB)
		z := (u - n1*n2/2) / math.Sqrt(n1*n2*(n1+n2+1)/12)
		if math.Abs(z) > largeSampleCritical {
			return direction
		}
		return 0
	}

	var critical float64
	if maxSize >= 5 && minSize >= 3 {
		critical = uTable[maxSize][minSize-3]
	}
	if u <= critical {
		return direction
	}
	return 0
}

// rankSum is the U statistic of a against b: every point of b below a
// point of a scores one, ties score half.
func rankSum(a, b []float64) float64 {
	var total float64
	for _, xa := range a {
		for _, xb := range b {
			switch {
			case xb < xa:
				total++
			case xb == xa:
				total += 0.5
			}
		}
	}
	return total
}

func sameSample(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return a == nil && b == nil
	}
	return &a[0] == &b[0]
}

// Resample builds a bootstrap distribution of means: each of the
// distribution's points is the mean of sampleSize values drawn uniformly
// with replacement from population. The result is sorted ascending.
func Resample(population []float64, sampleSize int) ([]float64, error) {
	return NewRandom(nil).Resample(population, sampleSize)
}

// Resample is like the package-level Resample but draws from r.
func (r *Random) Resample(population []float64, sampleSize int) ([]float64, error) {
	if len(population) == 0 || sampleSize <= 0 {
		return nil, nil
	}
	distribution := make([]float64, distributionSize)
	for j := range distribution {
		var sum float64
		for k := 0; k < sampleSize; k++ {
			i := 0
			if len(population) > 1 {
				var err error
				if i, err = r.Integer(0, len(population)-1); err != nil {
					return nil, err
				}
			}
			sum += population[i]
		}
		distribution[j] = sum / float64(sampleSize)
	}
	sorted := moremath.Sample{Xs: distribution}
	sorted.Sort()
	return sorted.Xs, nil
}
