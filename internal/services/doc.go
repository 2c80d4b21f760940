// Package services defines the capability interfaces for the remote streaming
// provider and implements them for the Spotify Web API.
//
// # Interfaces
//
// [LibraryClient] covers the authenticated library operations the rest of the
// application consumes: reading the currently playing track and adding,
// removing, and checking membership of saved tracks.
//
// [SessionClient] covers the token lifecycle operations the auth package
// drives: authorization-code exchange, refresh, and a lightweight probe call.
//
// # Spotify Implementation
//
// [SpotifyService] implements both interfaces on top of [oauth2.Config] and
// net/http. The active access token is installed explicitly with
// [SpotifyService.SetToken]; loading a token from disk and installing it into
// the live client are deliberately separate steps, owned by the auth package.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token installed
//   - [shared.ErrTokenExpired] : the API rejected the access token
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrNoCurrentTrack] : nothing is playing
package services
