// Package tasks orchestrates library actions against the streaming provider.
//
// The core abstraction is [ActionEngine], which toggles library membership of
// the currently playing track: it resolves the track, issues the write through
// an exclusively held session, then drives the verification loop in
// [verify.Converge] until the remote state is confirmed. Outcomes are recorded
// to the action history.
//
// [Poller] samples the currently playing track on an interval and emits
// [NowPlayingUpdate] values on a channel for non-blocking display by the CLI
// or UI layers, deduplicating consecutive samples of the same track.
package tasks
