package export

// Selection is the set of job ids the user has ticked, in the order they
// were ticked.
type Selection struct {
	order []string
	set   map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{set: make(map[string]struct{})}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Selection) Add(id string) {
	if id == "" || s.Has(id) {
		return
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Selection) Remove(id string) {
	if !s.Has(id) {
		return
	}
	delete(s.set, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle flips id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return s.Has(id)
}

func (s *Selection) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.order)
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Selection) Clear() {
	s.order = nil
	s.set = make(map[string]struct{})
}

// Apply drops the ids that exported successfully so only failures stay
// selected for a retry.
func (s *Selection) Apply(o Outcome) {
	for _, id := range o.Succeeded {
		s.Remove(id)
	}
}
