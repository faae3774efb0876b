package review

import "iter"

// Thread is a root comment with its replies and its display number.
// Number is derived from the root's position in a per-device listing and
// is never stored.
type Thread struct {
	Number  int       `json:"number"`
	Root    Comment   `json:"root"`
	Replies []Comment `json:"replies"`
}

// Threads is a snapshot of a screen's comments for one device. Iterating
// it builds threads lazily and can be repeated.
type Threads struct {
	device   Device
	roots    []Comment
	children map[string][]Comment
}

// NewThreads groups comments (assumed sorted by creation time) into
// threads for device. Replies whose parent is missing are dropped.
func NewThreads(comments []Comment, device Device) Threads {
	t := Threads{device: device, children: make(map[string][]Comment)}
	for _, c := range comments {
		if c.ParentID != nil {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], c)
			continue
		}
		if c.DeviceType == device {
			t.roots = append(t.roots, c)
		}
	}
	return t
}

// Device returns the device this snapshot was filtered by.
func (t Threads) Device() Device { return t.device }

// Len returns the number of root comments.
func (t Threads) Len() int { return len(t.roots) }

// All yields threads in ascending root creation order, numbered from 1.
func (t Threads) All() iter.Seq[Thread] {
	return func(yield func(Thread) bool) {
		for i, root := range t.roots {
			replies := t.children[root.ID]
			if replies == nil {
				replies = []Comment{}
			}
			if !yield(Thread{Number: i + 1, Root: root, Replies: replies}) {
				return
			}
		}
	}
}

// Collect materializes every thread.
func (t Threads) Collect() []Thread {
	out := make([]Thread, 0, len(t.roots))
	for th := range t.All() {
		out = append(out, th)
	}
	return out
}
