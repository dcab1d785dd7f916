package cache

import "errors"

var (
	// ErrSaturated is returned by FindOrInsert when every slot in the
	// directory is Loading and none can be evicted or reused.
	ErrSaturated = errors.New("cache: saturated, all slots loading")
	// ErrNoLeader is returned by Slot.Append when called on a slot that has
	// no payload attached (not currently Loading).
	ErrNoLeader = errors.New("cache: slot has no attached leader")
	// ErrNotFound is returned by Directory.Delete when no entry matches.
	ErrNotFound = errors.New("cache: no entry for that key")
	// ErrAlreadyPublished is returned by LeaderToken methods when the token
	// has already been consumed once.
	ErrAlreadyPublished = errors.New("cache: leader token already published")
	// ErrShutdownPkg is returned by FindOrInsert once the directory has been
	// shut down.
	ErrShutdownPkg = errors.New("cache: directory is shut down")
)
