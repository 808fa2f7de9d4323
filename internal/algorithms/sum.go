package algorithms

// Number is the element constraint for SumArray.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// SumArray follows SUM-ARRAY(A, n) with CLRS one-based indexing over the
// first n elements of a. n larger than len(a) is clamped.
func SumArray[T Number](a []T, n int) T {
	n = min(n, len(a))
	var sum T
	for i := 1; i <= n; i++ {
		sum += a[i-1]
	}
	return sum
}

// SumArrayIter sums every element of a with a range loop.
func SumArrayIter[T Number](a []T) T {
	var sum T
	for _, v := range a {
		sum += v
	}
	return sum
}
