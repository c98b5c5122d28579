package ui

// AppMode selects which top-level screen owns the terminal. The modal
// stack floats over either mode; the pub card only over the browse list.
type AppMode int

const (
	ModeBrowse AppMode = iota
	ModeProfile
)
