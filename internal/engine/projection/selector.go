package projection

// Selector holds the currently chosen projection. Names are validated when
// they are set, so the current value is always resolvable.
type Selector struct {
	current Name
}

// NewSelector starts a selector on initial.
func NewSelector(initial string) (*Selector, error) {
	if _, err := Lookup(initial); err != nil {
		return nil, err
	}
	return &Selector{current: Name(initial)}, nil
}

// Current returns the selected projection name.
func (s *Selector) Current() Name {
	return s.current
}

// Set selects name. An unknown name is rejected and the selection is kept.
// It reports whether the selection changed.
func (s *Selector) Set(name string) (bool, error) {
	if _, err := Lookup(name); err != nil {
		return false, err
	}
	changed := s.current != Name(name)
	s.current = Name(name)
	return changed, nil
}

// Projection resolves the current selection.
func (s *Selector) Projection() *Projection {
	p, _ := Lookup(string(s.current))
	return p
}
