// Package term implements a VT/ANSI terminal emulator core: a byte-stream
// parser driving a styled cell grid, a bounded scrollback ring, a linear
// selection, a mouse-reporting state machine, and damage tracking for
// renderers.
//
// The Grid is the single mutable object; everything else (Parser, Scrollback,
// Selection, Mouse, Damage) either feeds it or is owned by it. Grid is safe
// for concurrent use: one mutex guards the grid, its scrollback, selection,
// and damage state as a unit, matching how a single terminal tab is driven
// by one parser goroutine while a renderer and input handler read it from
// others.
package term
