package notification

import (
	"errors"
	"sync"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskQueue_Panics(t *testing.T) {
	assert.Panics(t, func() { NewTaskQueue("", 1, log.NewNopLogger()) })
	assert.Panics(t, func() { NewTaskQueue("q", 0, log.NewNopLogger()) })
	assert.Panics(t, func() { NewTaskQueue("q", 1, nil) })
}

func TestTaskQueue_RunsInOrderAndDrainsOnClose(t *testing.T) {
	q := NewTaskQueue("replication", 100, log.NewNopLogger())

	var got []int
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, q.Submit(func() { got = append(got, i) }))
	}
	q.Close()

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
	assert.ErrorIs(t, q.Submit(func() {}), ErrQueueClosed)
	q.Close()
}

func TestTaskQueue_Full(t *testing.T) {
	q := NewTaskQueue("small", 1, log.NewNopLogger())
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, q.Submit(func() {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, q.Submit(func() {}))

	err := q.Submit(func() {})
	assert.True(t, errors.Is(err, ErrQueueFull))
	assert.Equal(t, 1, q.Len())

	close(release)
	q.Close()
}

func TestTaskQueue_SurvivesPanic(t *testing.T) {
	q := NewTaskQueue("panicky", 4, log.NewNopLogger())
	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	require.NoError(t, q.Submit(func() { panic("boom") }))
	require.NoError(t, q.Submit(func() {
		defer wg.Done()
		ran = true
	}))
	wg.Wait()
	q.Close()
	assert.True(t, ran)
}
