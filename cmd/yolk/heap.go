package main

import (
	"github.com/vovakirdan/yolk/internal/config"
)

// heapBallast reserves the initial script heap. The collector sizes its
// next goal from the live heap, so a live ballast of n bytes lets the game
// allocate about n bytes before each collection without capping growth.
// The pages are never touched and stay out of resident memory.
func heapBallast(mb int) []byte {
	return make([]byte, config.HeapBytes(mb))
}
