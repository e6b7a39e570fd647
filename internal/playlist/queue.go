package playlist

import (
	"github.com/samber/lo"
)

// Queue wraps a Playlist with a playback cursor.
type Queue struct {
	playlist *Playlist
	cursor   int // -1 if nothing selected
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{
		playlist: NewPlaylist(),
		cursor:   -1,
	}
}

// Current returns the item at the cursor, or nil if none.
func (q *Queue) Current() *Item {
	return q.playlist.Item(q.cursor)
}

// Cursor returns the index of the current item (-1 if none).
func (q *Queue) Cursor() int {
	return q.cursor
}

// Item returns the item at index, or nil.
func (q *Queue) Item(index int) *Item {
	return q.playlist.Item(index)
}

// Next advances to the next item and returns it.
// Returns nil if there is no next item.
func (q *Queue) Next() *Item {
	if !q.HasNext() {
		return nil
	}
	q.cursor++
	return q.Current()
}

// HasNext returns true if there's an item after the current one.
func (q *Queue) HasNext() bool {
	return q.cursor < q.playlist.Len()-1
}

// Peek returns the item after the current one without moving the cursor.
func (q *Queue) Peek() *Item {
	if !q.HasNext() {
		return nil
	}
	return q.playlist.Item(q.cursor + 1)
}

// Previous moves back one item and returns it.
// Returns nil if the cursor is at the start or unset.
func (q *Queue) Previous() *Item {
	if q.cursor <= 0 {
		return nil
	}
	q.cursor--
	return q.Current()
}

// JumpTo sets the cursor to the specified position.
// Returns the item at that position, or nil if invalid.
func (q *Queue) JumpTo(index int) *Item {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.cursor = index
	return q.Current()
}

// Add appends items without moving the cursor.
func (q *Queue) Add(items ...*Item) {
	q.playlist.Add(items...)
}

// Append validates every URL and appends one item per URL. If any URL is
// malformed nothing is appended and the first validation error is returned.
func (q *Queue) Append(urls ...string) ([]*Item, error) {
	items := make([]*Item, 0, len(urls))
	for _, u := range urls {
		it, err := NewItem(u)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	q.Add(items...)
	return items, nil
}

// ReplaceCurrent puts a new item for url at the cursor and returns it. With
// no current item the new item is appended and the cursor moved onto it.
func (q *Queue) ReplaceCurrent(url string) (*Item, error) {
	it, err := NewItem(url)
	if err != nil {
		return nil, err
	}
	if q.Current() == nil {
		q.Add(it)
		q.cursor = q.playlist.Len() - 1
		return it, nil
	}
	q.playlist.items[q.cursor] = it
	return it, nil
}

// RemoveURL removes every item whose source is url and returns them.
//
// When the current item is removed the cursor moves to the item that followed
// it, or to none if no later item survives. Otherwise the cursor keeps
// pointing at the same item.
func (q *Queue) RemoveURL(url string) []*Item {
	items := q.playlist.items
	removed := lo.Filter(items, func(it *Item, _ int) bool { return it.SourceURL == url })
	if len(removed) == 0 {
		return nil
	}

	kept := make([]*Item, 0, len(items)-len(removed))
	cursor := -1
	for i, it := range items {
		if it.SourceURL == url {
			continue
		}
		if q.cursor >= 0 && cursor < 0 && i >= q.cursor {
			cursor = len(kept)
		}
		kept = append(kept, it)
	}

	q.playlist.items = kept
	q.cursor = cursor
	return removed
}

// Clear removes all items, resets the cursor and returns what was removed.
func (q *Queue) Clear() []*Item {
	removed := q.playlist.Items()
	q.playlist.Clear()
	q.cursor = -1
	return removed
}

// Items returns all items in order.
func (q *Queue) Items() []*Item {
	return q.playlist.Items()
}

// IndexOf returns the index of the item with the given ID, or -1.
func (q *Queue) IndexOf(id string) int {
	return q.playlist.IndexOf(id)
}

// Len returns the number of items in the queue.
func (q *Queue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no items.
func (q *Queue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
