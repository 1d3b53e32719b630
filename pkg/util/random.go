package util

import (
	"math/rand"
)

// GenerateRandomNumber generates a random number between min and max (inclusive)
func GenerateRandomNumber(min, max int) int {
	return min + rand.Intn(max-min+1)
}
