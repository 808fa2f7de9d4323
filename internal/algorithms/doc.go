// Package algorithms holds the CLRS chapter 2 procedures documented by the
// report: insertion sort in both directions, array summation and binary
// addition.
package algorithms
