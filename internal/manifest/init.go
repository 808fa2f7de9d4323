package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Example returns the starter manifest written by Init.
func Example() *Manifest {
	insertion := `INSERTION-SORT(A, n)
for i = 2 to n
    key = A[i]
    j = i - 1
    while j > 0 and A[j] > key
        A[j + 1] = A[j]
        j = j - 1
    A[j + 1] = key`
	sum := `SUM-ARRAY(A, n)
sum = 0
for i = 1 to n
    sum = sum + A[i]
return sum`
	add := `ADD-BINARY-INTEGERS(A, B, n)
carry = 0
for i = 1 to n
    sum = A[n - i] + B[n - i] + carry
    C[n - i + 1] = sum mod 2
    carry = floor(sum / 2)
C[0] = carry
return C`
	return &Manifest{
		Chapters: []Item{
			{ID: "insertion_sort", Title: "Insertion Sort", Pseudocode: &insertion},
			{ID: "analysis", Title: "Analyzing Algorithms"},
		},
		Exercises: []Item{
			{ID: "exercise_2_1_2", Title: "Exercise 2.1-2: Sum of an Array", Pseudocode: &sum},
			{ID: "exercise_2_1_5", Title: "Exercise 2.1-5: Adding Binary Integers", Pseudocode: &add},
		},
	}
}

// Init writes the example manifest to path, refusing to overwrite unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("manifest already exists: %s (use --force to overwrite)", path)
	}
	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
