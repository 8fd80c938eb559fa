// Package control runs one time-range selection control.
//
// A Control wraps a timerange.State behind a mutex. Every exported method is a
// single transition; outbound callbacks fire after the new state is committed
// and the lock is released, so a callback may call back into the Control.
// Playback ticks come from an animation.Driver and enter through the same
// lock as user input and external pushes.
package control
