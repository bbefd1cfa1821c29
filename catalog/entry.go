package catalog

import (
	"encoding/json"
	"fmt"
)

// Entry is one content item of the catalogue.
// Two entries with the same ID are the same logical item.
type Entry struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Catalog is the ordered list of entries for a session, in load order.
type Catalog []Entry

// payload is the wire shape of a catalogue document.
type payload struct {
	Elements []Entry `json:"elements"`
}

// Parse decodes a catalogue document of the form {"elements": [...]}.
// Entries without an id, or with an id already taken earlier in the document, get a fresh one.
func Parse(data []byte) (Catalog, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue JSON: %w", err)
	}
	c := Catalog(p.Elements)
	c.EnsureIDs()
	return c, nil
}

// Marshal encodes the catalogue in the same document shape Parse accepts.
func Marshal(c Catalog) ([]byte, error) {
	elements := c
	if elements == nil {
		elements = Catalog{}
	}
	return json.Marshal(payload{Elements: elements})
}

// EnsureIDs assigns ids to entries that have none and re-keys duplicates so every id is unique.
func (c Catalog) EnsureIDs() {
	seen := make(map[string]struct{}, len(c))
	for i := range c {
		if c[i].ID == "" {
			continue
		}
		if _, dup := seen[c[i].ID]; dup {
			c[i].ID = ""
			continue
		}
		seen[c[i].ID] = struct{}{}
	}
	for i := range c {
		if c[i].ID != "" {
			continue
		}
		id := NewID()
		for {
			if _, taken := seen[id]; !taken {
				break
			}
			id = NewID()
		}
		c[i].ID = id
		seen[id] = struct{}{}
	}
}

// IndexOf returns the position of the entry with the given id, or -1.
func (c Catalog) IndexOf(id string) int {
	for i, e := range c {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}
