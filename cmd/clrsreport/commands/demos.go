package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/clrsreport/internal/algorithms"
)

func demoInsertionSort(_ context.Context, c *CLI) error {
	data := []int{5, 2, 4, 6, 1, 3}
	_, _ = fmt.Fprintln(c.stdout, "--- Running Insertion Sort ---")
	_, _ = fmt.Fprintf(c.stdout, "Input: %v\n", data)
	algorithms.InsertionSort(data)
	_, _ = fmt.Fprintf(c.stdout, "Output: %v\n", data)
	return nil
}

func demoInsertionSortSteps(_ context.Context, c *CLI) error {
	data := []int{31, 41, 59, 26, 41, 58}
	_, _ = fmt.Fprintf(c.stdout, "Initial array: %v\n", data)
	_, _ = fmt.Fprintln(c.stdout, "--- Starting Insertion Sort Steps ---")
	algorithms.InsertionSortSteps(data, printStep(c))
	_, _ = fmt.Fprintln(c.stdout, "--- End of Sort ---")
	_, _ = fmt.Fprintf(c.stdout, "Sorted array: %v\n", data)
	return nil
}

func demoInsertionSortDecreasing(_ context.Context, c *CLI) error {
	data := []int{31, 41, 59, 26, 41, 58}
	_, _ = fmt.Fprintf(c.stdout, "Initial array: %v\n", data)
	_, _ = fmt.Fprintln(c.stdout, "--- Starting Insertion Sort (Decreasing) Steps ---")
	algorithms.InsertionSortDecreasingSteps(data, printStep(c))
	_, _ = fmt.Fprintln(c.stdout, "--- End of Sort ---")
	_, _ = fmt.Fprintf(c.stdout, "Sorted array: %v\n", data)
	return nil
}

func printStep(c *CLI) algorithms.StepFunc[int] {
	return func(i int, a []int) {
		_, _ = fmt.Fprintf(c.stdout, "After inserting element at index %d: %v\n", i, a)
	}
}

func demoSumArray(_ context.Context, c *CLI) error {
	a := []int{5, 2, 4, 6, 1, 3}
	_, _ = fmt.Fprintf(c.stdout, "Initial array A: %v\n", a)
	_, _ = fmt.Fprintf(c.stdout, "Array length n: %d\n", len(a))
	_, _ = fmt.Fprintf(c.stdout, "[1] Sum (CLRS indexing): %d\n", algorithms.SumArray(a, len(a)))
	_, _ = fmt.Fprintf(c.stdout, "[2] Sum (range loop): %d\n", algorithms.SumArrayIter(a))
	return nil
}

func demoAddBinary(_ context.Context, c *CLI) error {
	examples := []struct {
		label string
		a, b  []uint8
	}{
		{"11 + 13", []uint8{1, 0, 1, 1}, []uint8{1, 1, 0, 1}},
		{"2 + 3", []uint8{0, 0, 1, 0}, []uint8{0, 0, 1, 1}},
	}
	_, _ = fmt.Fprintln(c.stdout, "--- Binary Addition (2.1-5) ---")
	for _, ex := range examples {
		sum, err := algorithms.AddBinaryIntegers(ex.a, ex.b)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(c.stdout, "%s: A=%v B=%v C=%v\n", ex.label, ex.a, ex.b, sum)
	}
	return nil
}
