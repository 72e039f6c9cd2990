package util

import (
	"fmt"
	"math"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Round Method to round to 2 decimals
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}

var units = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// HumanSize formats a size in bytes with a binary unit, e.g. 1.5 KiB.
func HumanSize[T ~int | ~int64 | ~uint64](bytes T) string {
	v := float64(bytes)
	i := 0
	for math.Abs(v) >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", int64(bytes), units[0])
	}
	return fmt.Sprintf("%g %s", Round(v), units[i])
}
