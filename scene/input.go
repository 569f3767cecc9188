// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "time"

// Key identifies a keyboard key. Values are chosen by the windowing layer;
// the constants below are the keys game objects in this package react to.
type Key uint8

// Keys read by Player.
const (
	KeyW Key = iota + 1
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyR
	KeySpace
	KeyShift
	KeyLeftControl
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyF11
)

// MouseButton identifies a mouse button.
type MouseButton uint8

// Mouse buttons.
const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// keySet is a fixed-size bit set over all Key values.
type keySet [4]uint64

func (s *keySet) set(k Key, down bool) {
	if down {
		s[k/64] |= 1 << (k % 64)
	} else {
		s[k/64] &^= 1 << (k % 64)
	}
}

func (s keySet) has(k Key) bool { return s[k/64]&(1<<(k%64)) != 0 }

// Input accumulates window events between frames. It is owned by the event
// loop and is not safe for concurrent use.
type Input struct {
	keys    keySet
	buttons keySet
	mouse   [3]float64

	prev   Frame
	primed bool
}

// SetKey records a key press or release.
func (in *Input) SetKey(k Key, down bool) { in.keys.set(k, down) }

// SetMouseButton records a mouse button press or release.
func (in *Input) SetMouseButton(b MouseButton, down bool) { in.buttons.set(Key(b), down) }

// MoveMouse records the cursor position.
func (in *Input) MoveMouse(x, y float64) {
	in.mouse[0], in.mouse[1] = x, y
}

// Scroll records the absolute scroll wheel position.
func (in *Input) Scroll(z float64) { in.mouse[2] = z }

// Next snapshots the accumulated state into a Frame. Edge queries on the
// returned frame compare against the frame returned by the previous call.
// The first frame reports no mouse motion.
func (in *Input) Next(dt time.Duration) Frame {
	f := Frame{
		Delta:     dt,
		keys:      in.keys,
		prevKeys:  in.prev.keys,
		buttons:   in.buttons,
		prevBtns:  in.prev.buttons,
		mouse:     in.mouse,
		prevMouse: in.prev.mouse,
	}
	if !in.primed {
		f.prevMouse = f.mouse
		in.primed = true
	}
	in.prev = f
	return f
}

// Frame is the input and timing state of a single frame. It is a value:
// game objects receive it explicitly instead of reading global state.
type Frame struct {
	// Delta is the time elapsed since the previous frame.
	Delta time.Duration

	keys, prevKeys    keySet
	buttons, prevBtns keySet
	mouse, prevMouse  [3]float64
}

// Seconds returns Delta in seconds.
func (f *Frame) Seconds() float64 { return f.Delta.Seconds() }

// KeyDown reports whether k is held this frame.
func (f *Frame) KeyDown(k Key) bool { return f.keys.has(k) }

// KeyPressed reports whether k went down since the previous frame.
func (f *Frame) KeyPressed(k Key) bool { return f.keys.has(k) && !f.prevKeys.has(k) }

// KeyReleased reports whether k went up since the previous frame.
func (f *Frame) KeyReleased(k Key) bool { return !f.keys.has(k) && f.prevKeys.has(k) }

// ButtonDown reports whether b is held this frame.
func (f *Frame) ButtonDown(b MouseButton) bool { return f.buttons.has(Key(b)) }

// ButtonPressed reports whether b went down since the previous frame.
func (f *Frame) ButtonPressed(b MouseButton) bool {
	return f.buttons.has(Key(b)) && !f.prevBtns.has(Key(b))
}

// Mouse returns the cursor position.
func (f *Frame) Mouse() (x, y float64) { return f.mouse[0], f.mouse[1] }

// MouseDelta returns cursor and scroll motion since the previous frame.
func (f *Frame) MouseDelta() (dx, dy, dz float64) {
	return f.mouse[0] - f.prevMouse[0], f.mouse[1] - f.prevMouse[1], f.mouse[2] - f.prevMouse[2]
}
