package store

// A row is Viewing until BeginEdit opens a draft. Drafts are client-only:
// EditDraft changes them without touching the stored entity, CancelEdit
// discards them and EndEdit closes them once a save went through.

// BeginEdit opens an edit session seeded with the stored entity. An existing
// draft is kept.
func (s *Store[T]) BeginEdit(id int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft, ok := s.drafts[id]; ok {
		return draft, nil
	}
	i := s.kind.IndexOf(s.items, id)
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}
	s.drafts[id] = s.items[i]
	return s.items[i], nil
}

// EditDraft changes the open draft.
func (s *Store[T]) EditDraft(id int, patch func(*T)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[id]
	if !ok {
		var zero T
		return zero, ErrNotEditing
	}
	patch(&draft)
	s.kind.SetID(&draft, id)
	s.drafts[id] = draft
	return draft, nil
}

// Draft returns the open draft.
func (s *Store[T]) Draft(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[id]
	return draft, ok
}

// Editing reports whether the row has an open draft.
func (s *Store[T]) Editing(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.drafts[id]
	return ok
}

// CancelEdit discards the draft.
func (s *Store[T]) CancelEdit(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// EndEdit closes the draft after a successful save.
func (s *Store[T]) EndEdit(id int) {
	s.CancelEdit(id)
}
