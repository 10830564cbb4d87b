// Package session provides the per-player game sessions and the registry that
// owns them.
//
// The session package implements:
//   - One live game per player, replaced atomically by a new game
//   - Ownership checks on every reveal
//   - Removal of a session as soon as its game is won or lost
//   - Eviction of sessions idle beyond a timeout by a background sweeper
//
// Core Types:
//
// Session wraps one engine.Board with its game id, owner and activity
// timestamps. Manager is the registry: it is the only long-lived holder of
// sessions and hands out Handles and value snapshots, never the sessions
// themselves.
//
// Concurrency:
//
// Every session has its own mutex and a reveal holds it for the whole move.
// The registry mutex only guards the map. Locks are always taken session
// first, registry second. Removal, whether after a terminal move or by the
// sweeper, is a compare-and-delete: an entry is deleted only if it still maps
// to the session the caller holds, so a replaced game is never affected by
// work done on behalf of its predecessor.
//
// Usage:
//
//	manager, err := session.NewManager(5, 5)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	handle, _ := manager.StartGame("alice")
//	result, err := manager.RevealGame(handle, "alice", 2, 3)
//	switch {
//	case errors.Is(err, session.ErrOwnership):
//	case errors.Is(err, session.ErrNoSession):
//	case result.Terminal():
//		// the session is already gone from the registry
//	}
//
//	go manager.RunSweeper(ctx, 5*time.Minute, 30*time.Minute)
package session
