package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intego360/intego-ui/internal/domain/sector"
)

func TestSectorSelection_DefaultsToAgriculture(t *testing.T) {
	assert.Equal(t, sector.Agriculture, NewSectorSelection().Current())
}

func TestSectorSelection_SelectRejectsInvalid(t *testing.T) {
	sel := NewSectorSelection()
	require.NoError(t, sel.Select(sector.Health))
	assert.Equal(t, sector.Health, sel.Current())

	require.Error(t, sel.Select(sector.Sector("transport")))
	require.Error(t, sel.Select(sector.Sector("")))
	assert.Equal(t, sector.Health, sel.Current())
}

func TestSectorSelection_Follow(t *testing.T) {
	sel := NewSectorSelection()

	assert.True(t, sel.Follow("/education/schools"))
	assert.Equal(t, sector.Education, sel.Current())

	assert.True(t, sel.Follow("/farmers"))
	assert.Equal(t, sector.Agriculture, sel.Current())

	assert.False(t, sel.Follow("/profile"))
	assert.Equal(t, sector.Agriculture, sel.Current())
}

func TestSectorSelection_ConcurrentUse(t *testing.T) {
	sel := NewSectorSelection()
	var wg sync.WaitGroup
	for i := range 30 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = sel.Select(sector.All[i%len(sector.All)])
			assert.True(t, sel.Current().Valid())
		}(i)
	}
	wg.Wait()
	assert.True(t, sel.Current().Valid())
}
