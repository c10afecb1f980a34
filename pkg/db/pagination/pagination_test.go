package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id string
	at time.Time
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 123, time.FixedZone("WIB", 7*3600))
	token, err := EncodeCursor(NewCursor("01JTESTRUN", at))
	require.NoError(t, err)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "01JTESTRUN", cursor.ID)
	got, err := cursor.Time()
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
}

func TestDecodeCursor_Rejects(t *testing.T) {
	for _, token := range []string{"%%", "bm90LWpzb24", "e30"} {
		_, err := DecodeCursor(token)
		assert.ErrorIs(t, err, ErrInvalidCursor, token)
	}
}

func TestPaginationSize(t *testing.T) {
	assert.Equal(t, 50, Pagination{}.Size(50, 250))
	assert.Equal(t, 250, Pagination{PageSize: 1000}.Size(50, 250))
	assert.Equal(t, 1000, Pagination{PageSize: 1000}.Size(50, 0))
	assert.Equal(t, 7, Pagination{PageSize: 7}.Size(50, 250))
}

func TestBuildCursorPageInfo(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []*row{{"c", base.Add(2 * time.Minute)}, {"b", base.Add(time.Minute)}, {"a", base}}
	extract := func(r *row) Cursor { return NewCursor(r.id, r.at) }

	info := BuildCursorPageInfo(rows, 2, extract)
	require.True(t, info.HasMore)
	cursor, err := DecodeCursor(info.NextPageToken)
	require.NoError(t, err)
	assert.Equal(t, "b", cursor.ID)

	last := BuildCursorPageInfo(rows, 3, extract)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.NextPageToken)

	assert.False(t, BuildCursorPageInfo([]*row{}, 2, extract).HasMore)
}
