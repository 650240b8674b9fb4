package graph

import "github.com/danielpatrickdp/mbneck/internal/neck"

// #region state-table
// StateTable collects the states of one layer, merging equal states.
// Entries keep the order in which their state was first added.
type StateTable struct {
	index   map[neck.State]uint32
	entries Layer
}

// NewStateTable returns an empty table sized for about n states.
func NewStateTable(n int) *StateTable {
	return &StateTable{
		index:   make(map[neck.State]uint32, n),
		entries: make(Layer, 0, n),
	}
}

// Add records that edge leads to s. An equal state already in the table
// gets the edge appended instead of a new entry.
func (t *StateTable) Add(s neck.State, edge Edge) uint32 {
	if i, ok := t.index[s]; ok {
		t.entries[i].Parents = append(t.entries[i].Parents, edge)
		return i
	}
	i := uint32(len(t.entries))
	t.index[s] = i
	t.entries = append(t.entries, Entry{State: s, Parents: []Edge{edge}})
	return i
}

// Lookup returns the index of s, if present.
func (t *StateTable) Lookup(s neck.State) (uint32, bool) {
	i, ok := t.index[s]
	return i, ok
}

// Len returns the number of distinct states.
func (t *StateTable) Len() int { return len(t.entries) }

// Layer returns the collected entries. The table must not be used afterwards.
func (t *StateTable) Layer() Layer {
	l := t.entries
	t.entries = nil
	t.index = nil
	return l
}

// #endregion state-table
