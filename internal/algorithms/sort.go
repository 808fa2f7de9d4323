package algorithms

import "cmp"

// StepFunc observes the slice after the element at index i has been
// inserted into the sorted prefix.
type StepFunc[T any] func(i int, a []T)

// InsertionSort sorts a in place in nondecreasing order. It is stable.
func InsertionSort[T cmp.Ordered](a []T) {
	insertionSort(a, func(x, key T) bool { return x > key }, nil)
}

// InsertionSortDecreasing sorts a in place in nonincreasing order.
func InsertionSortDecreasing[T cmp.Ordered](a []T) {
	insertionSort(a, func(x, key T) bool { return x < key }, nil)
}

// InsertionSortSteps sorts a in nondecreasing order and calls step after
// every insertion. Slices shorter than two elements produce no steps.
func InsertionSortSteps[T cmp.Ordered](a []T, step StepFunc[T]) {
	insertionSort(a, func(x, key T) bool { return x > key }, step)
}

// InsertionSortDecreasingSteps is InsertionSortDecreasing with a step callback.
func InsertionSortDecreasingSteps[T cmp.Ordered](a []T, step StepFunc[T]) {
	insertionSort(a, func(x, key T) bool { return x < key }, step)
}

// insertionSort shifts every element for which shift(elem, key) holds one
// slot right, then drops key into the gap.
func insertionSort[T any](a []T, shift func(x, key T) bool, step StepFunc[T]) {
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i
		for j > 0 && shift(a[j-1], key) {
			a[j] = a[j-1]
			j--
		}
		a[j] = key
		if step != nil {
			step(i, a)
		}
	}
}
