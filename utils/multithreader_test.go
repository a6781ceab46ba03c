package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiThreadCoversRange(t *testing.T) {
	const start, end = 3, 250

	hits := make([]int32, end)
	MultiThread(start, end, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, 7, 2)

	for i := 0; i < start; i++ {
		assert.Zero(t, hits[i], "index %d", i)
	}
	for i := start; i < end; i++ {
		assert.Equal(t, int32(1), hits[i], "index %d", i)
	}
}

func TestMultiThreadEmptyRange(t *testing.T) {
	called := int32(0)
	MultiThread(5, 5, func(i int) {
		atomic.AddInt32(&called, 1)
	}, 10, 1)

	assert.Zero(t, called)
}

func TestMultiThreadBadArgs(t *testing.T) {
	// nonsense thread parameters are clamped, not fatal
	hits := make([]int32, 10)
	MultiThread(0, 10, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, 0, -4)

	for i := range hits {
		assert.Equal(t, int32(1), hits[i])
	}
}
