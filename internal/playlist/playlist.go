package playlist

import "github.com/samber/lo"

// Playlist holds an ordered collection of items.
type Playlist struct {
	items []*Item
}

// NewPlaylist creates a new empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{
		items: make([]*Item, 0),
	}
}

// Add appends items to the playlist.
func (p *Playlist) Add(items ...*Item) {
	p.items = append(p.items, items...)
}

// Remove removes the item at the given index.
// Returns false if index is out of bounds.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.items) {
		return false
	}
	p.items = append(p.items[:index], p.items[index+1:]...)
	return true
}

// Clear removes all items from the playlist.
func (p *Playlist) Clear() {
	clear(p.items)
	p.items = p.items[:0]
}

// Items returns a copy of the item list.
func (p *Playlist) Items() []*Item {
	result := make([]*Item, len(p.items))
	copy(result, p.items)
	return result
}

// Item returns the item at the given index, or nil if out of bounds.
func (p *Playlist) Item(index int) *Item {
	if index < 0 || index >= len(p.items) {
		return nil
	}
	return p.items[index]
}

// IndexOf returns the index of the item with the given ID, or -1.
func (p *Playlist) IndexOf(id string) int {
	_, idx, ok := lo.FindIndexOf(p.items, func(it *Item) bool { return it.ID == id })
	if !ok {
		return -1
	}
	return idx
}

// Len returns the number of items.
func (p *Playlist) Len() int {
	return len(p.items)
}
