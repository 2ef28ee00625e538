package pager

import (
	"testing"
	"time"

	"github.com/runnerr0/bikeshare/internal/trips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewWith(n int) *trips.Table {
	view := &trips.Table{Dataset: "test"}
	base := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		view.Trips = append(view.Trips, trips.NewTrip(base.Add(time.Duration(i)*time.Hour), "A", "B", float64(i)))
	}
	return view
}

func TestPaginator_SevenRowsPageSizeFive(t *testing.T) {
	p := New(viewWith(7), 5)

	page, err := p.Next()
	require.NoError(t, err)
	assert.Len(t, page.Rows, 5)
	assert.Equal(t, 0, page.Start)
	assert.Equal(t, 5, page.End)
	assert.True(t, page.HasMore)
	assert.Equal(t, 0.0, page.Rows[0].Duration)

	page, err = p.Next()
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, 5, page.Start)
	assert.Equal(t, 7, page.End)
	assert.False(t, page.HasMore)
	assert.Equal(t, 6.0, page.Rows[1].Duration)

	page, err = p.Next()
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.False(t, page.HasMore)

	// Still safe after exhaustion
	page, err = p.Next()
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.False(t, page.HasMore)
}

func TestPaginator_ExactMultiple(t *testing.T) {
	p := New(viewWith(10), 5)

	page, err := p.Next()
	require.NoError(t, err)
	assert.True(t, page.HasMore)

	page, err = p.Next()
	require.NoError(t, err)
	assert.Len(t, page.Rows, 5)
	assert.False(t, page.HasMore)
	assert.Zero(t, p.Remaining())
}

func TestPaginator_EmptyViewReportsNoData(t *testing.T) {
	p := New(viewWith(0), 5)

	page, err := p.Next()
	assert.ErrorIs(t, err, trips.ErrNoData)
	assert.Empty(t, page.Rows)
	assert.False(t, page.HasMore)

	// Later calls look like ordinary exhaustion.
	page, err = p.Next()
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.False(t, page.HasMore)
}

func TestPaginator_DefaultPageSize(t *testing.T) {
	p := New(viewWith(12), 0)

	page, err := p.Next()
	require.NoError(t, err)
	assert.Len(t, page.Rows, DefaultPageSize)
	assert.Equal(t, DefaultPageSize, p.Offset())
	assert.Equal(t, 7, p.Remaining())
}

func TestPaginator_PagesDoNotAliasView(t *testing.T) {
	view := viewWith(3)
	p := New(view, 2)

	page, err := p.Next()
	require.NoError(t, err)
	page.Rows = append(page.Rows, trips.Trip{StartStation: "Z"})

	assert.Equal(t, "A", view.Trips[2].StartStation, "appending to a page must not overwrite the view")
}
