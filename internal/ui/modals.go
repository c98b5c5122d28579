package ui

import tea "github.com/charmbracelet/bubbletea"

// ModalStack runs the app's dialogs: league create/join, report, confirm.
// Modals stack in opening order and only the top one receives input; the
// app closes the top modal on the Back binding before the modal sees the
// key, so every dialog dismisses the same way.
type ModalStack struct {
	views []View
}

// Push opens a modal on top of the stack.
func (s *ModalStack) Push(v View) {
	s.views = append(s.views, v)
}

// Pop closes the top modal. Popping an empty stack is a no-op so message
// handlers can dismiss without checking whether the user already did.
func (s *ModalStack) Pop() {
	if len(s.views) == 0 {
		return
	}
	s.views = s.views[:len(s.views)-1]
}

// Top returns the modal that currently owns input.
func (s *ModalStack) Top() (View, bool) {
	if len(s.views) == 0 {
		return nil, false
	}
	return s.views[len(s.views)-1], true
}

// Len returns the number of open modals.
func (s *ModalStack) Len() int { return len(s.views) }

// Views returns the open modals bottom first, for rendering.
func (s *ModalStack) Views() []View { return s.views }

// Update routes msg to the top modal and replaces its view with the result.
// ok is false when no modal is open.
func (s *ModalStack) Update(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.views) == 0 {
		return nil, false
	}
	v, cmd := s.views[len(s.views)-1].Update(msg)
	s.views[len(s.views)-1] = v
	return cmd, true
}
