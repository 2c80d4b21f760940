// Package ui implements the interactive terminal now-playing view.
//
// The view mirrors what a system tray would show: the track currently
// playing, its library status, and single-key actions to like, unlike, or
// save it. Verification runs asynchronously with a spinner; outcomes are
// rendered inline when they land.
package ui
