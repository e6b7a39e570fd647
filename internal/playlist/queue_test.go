package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/errmsg"
)

func mustAppend(t *testing.T, q *Queue, urls ...string) []*Item {
	t.Helper()
	items, err := q.Append(urls...)
	require.NoError(t, err)
	return items
}

func urls(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.SourceURL
	}
	return out
}

const (
	urlA = "https://example.com/a.mp3"
	urlB = "https://example.com/b.mp3"
	urlC = "https://example.com/c.mp3"
	urlD = "https://example.com/d.mp3"
)

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	assert.Equal(t, -1, q.Cursor())
	assert.Nil(t, q.Current())
	assert.True(t, q.IsEmpty())
	assert.False(t, q.HasNext())
}

func TestQueue_AppendDoesNotMoveCursor(t *testing.T) {
	q := NewQueue()
	mustAppend(t, q, urlA, urlB)
	assert.Equal(t, -1, q.Cursor())

	q.JumpTo(1)
	mustAppend(t, q, urlC)

	assert.Equal(t, 1, q.Cursor())
	assert.Equal(t, urlB, q.Current().SourceURL)
	assert.Equal(t, 3, q.Len())
}

func TestQueue_AppendAllOrNothing(t *testing.T) {
	q := NewQueue()
	mustAppend(t, q, urlA)

	_, err := q.Append(urlB, "not a url", urlC)

	require.ErrorIs(t, err, errmsg.ErrMalformedURL)
	assert.Equal(t, []string{urlA}, urls(q.Items()))
}

func TestQueue_AppendAssignsUniqueIDs(t *testing.T) {
	q := NewQueue()
	items := mustAppend(t, q, urlA, urlA)

	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, items[0].Key, items[1].Key)
	assert.Equal(t, StatusUnknown, items[0].Status)
}

func TestQueue_Navigation(t *testing.T) {
	q := NewQueue()
	mustAppend(t, q, urlA, urlB, urlC)

	assert.Nil(t, q.JumpTo(3))
	assert.Nil(t, q.JumpTo(-1))
	assert.Equal(t, urlA, q.JumpTo(0).SourceURL)
	assert.Equal(t, urlB, q.Peek().SourceURL)
	assert.Equal(t, 0, q.Cursor(), "Peek must not move the cursor")

	assert.Equal(t, urlB, q.Next().SourceURL)
	assert.Equal(t, urlC, q.Next().SourceURL)
	assert.Nil(t, q.Next())
	assert.Equal(t, 2, q.Cursor())

	assert.Equal(t, urlB, q.Previous().SourceURL)
	assert.Equal(t, urlA, q.Previous().SourceURL)
	assert.Nil(t, q.Previous())
	assert.Equal(t, 0, q.Cursor())
}

func TestQueue_RemoveURL(t *testing.T) {
	tests := []struct {
		name       string
		initial    []string
		cursor     int
		remove     string
		wantItems  []string
		wantCursor int
		wantCount  int
	}{
		{
			name:       "remove before cursor shifts cursor",
			initial:    []string{urlA, urlB, urlC},
			cursor:     1,
			remove:     urlA,
			wantItems:  []string{urlB, urlC},
			wantCursor: 0,
			wantCount:  1,
		},
		{
			name:       "remove after cursor keeps cursor",
			initial:    []string{urlA, urlB, urlC},
			cursor:     1,
			remove:     urlC,
			wantItems:  []string{urlA, urlB},
			wantCursor: 1,
			wantCount:  1,
		},
		{
			name:       "remove current moves to following item",
			initial:    []string{urlA, urlB, urlC},
			cursor:     1,
			remove:     urlB,
			wantItems:  []string{urlA, urlC},
			wantCursor: 1,
			wantCount:  1,
		},
		{
			name:       "remove current last item clears cursor",
			initial:    []string{urlA, urlB},
			cursor:     1,
			remove:     urlB,
			wantItems:  []string{urlA},
			wantCursor: -1,
			wantCount:  1,
		},
		{
			name:       "remove only item empties queue",
			initial:    []string{urlA},
			cursor:     0,
			remove:     urlA,
			wantItems:  []string{},
			wantCursor: -1,
			wantCount:  1,
		},
		{
			name:       "remove all duplicates",
			initial:    []string{urlA, urlB, urlA, urlC},
			cursor:     2,
			remove:     urlA,
			wantItems:  []string{urlB, urlC},
			wantCursor: 1,
			wantCount:  2,
		},
		{
			name:       "no match",
			initial:    []string{urlA, urlB},
			cursor:     0,
			remove:     urlC,
			wantItems:  []string{urlA, urlB},
			wantCursor: 0,
			wantCount:  0,
		},
		{
			name:       "no cursor stays none",
			initial:    []string{urlA, urlB},
			cursor:     -1,
			remove:     urlA,
			wantItems:  []string{urlB},
			wantCursor: -1,
			wantCount:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			mustAppend(t, q, tt.initial...)
			if tt.cursor >= 0 {
				q.JumpTo(tt.cursor)
			}

			removed := q.RemoveURL(tt.remove)

			assert.Len(t, removed, tt.wantCount)
			assert.Equal(t, tt.wantItems, urls(q.Items()))
			assert.Equal(t, tt.wantCursor, q.Cursor())
		})
	}
}

func TestQueue_RemoveKeepsCurrentIdentity(t *testing.T) {
	q := NewQueue()
	items := mustAppend(t, q, urlA, urlB, urlC)
	q.JumpTo(2)

	q.RemoveURL(urlA)

	assert.Equal(t, items[2].ID, q.Current().ID)
	assert.Equal(t, 1, q.IndexOf(items[2].ID))
	assert.Equal(t, -1, q.IndexOf(items[0].ID))
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	mustAppend(t, q, urlA, urlB)
	q.JumpTo(1)

	removed := q.Clear()

	assert.Len(t, removed, 2)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, -1, q.Cursor())
	assert.Nil(t, q.Current())
}

func TestQueue_ReplaceCurrent(t *testing.T) {
	t.Run("replaces item at cursor", func(t *testing.T) {
		q := NewQueue()
		items := mustAppend(t, q, urlA, urlB, urlC)
		q.JumpTo(1)

		it, err := q.ReplaceCurrent(urlD)

		require.NoError(t, err)
		assert.Equal(t, []string{urlA, urlD, urlC}, urls(q.Items()))
		assert.Equal(t, 1, q.Cursor())
		assert.Equal(t, it.ID, q.Current().ID)
		assert.NotEqual(t, items[1].ID, it.ID)
		assert.Equal(t, -1, q.IndexOf(items[1].ID))
	})

	t.Run("appends without cursor", func(t *testing.T) {
		q := NewQueue()
		mustAppend(t, q, urlA)

		it, err := q.ReplaceCurrent(urlB)

		require.NoError(t, err)
		assert.Equal(t, []string{urlA, urlB}, urls(q.Items()))
		assert.Equal(t, 1, q.Cursor())
		assert.Equal(t, it.ID, q.Current().ID)
	})

	t.Run("empty queue", func(t *testing.T) {
		q := NewQueue()

		_, err := q.ReplaceCurrent(urlA)

		require.NoError(t, err)
		assert.Equal(t, 0, q.Cursor())
		assert.Equal(t, 1, q.Len())
	})

	t.Run("malformed url leaves queue unchanged", func(t *testing.T) {
		q := NewQueue()
		mustAppend(t, q, urlA)
		q.JumpTo(0)

		_, err := q.ReplaceCurrent("not a url")

		require.ErrorIs(t, err, errmsg.ErrMalformedURL)
		assert.Equal(t, []string{urlA}, urls(q.Items()))
		assert.Equal(t, 0, q.Cursor())
	})
}
