// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"strconv"
)

type sessionContextKey struct{}

// session is the per-call state a sandboxed module sees through the host
// functions. [storage] is a private copy of the contract's storage; it is
// copied back onto the contract only when the invoked export returns cleanly.
type session struct {
	storage map[string]string
	// gasUsed accumulates host-side charges. It is added to the VM's gas
	// meter after the export returns.
	gasUsed uint64
	// remaining is the VM budget left when the session was opened.
	remaining uint64
	writeCost uint64
}

func newSession(storage map[string]string, remaining uint64, writeCost uint64) *session {
	return &session{
		storage:   copyStorage(storage),
		remaining: remaining,
		writeCost: writeCost,
	}
}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func sessionFromContext(ctx context.Context) (*session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*session)
	return s, ok
}

// get returns the integer stored under the decimal form of [key], or 0 if the
// key is absent or its value isn't an int32.
func (s *session) get(key int32) int32 {
	value, ok := s.storage[strconv.FormatInt(int64(key), 10)]
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}

func (s *session) set(key, value int32) {
	s.storage[strconv.FormatInt(int64(key), 10)] = strconv.FormatInt(int64(value), 10)
	s.gasUsed += s.writeCost
}
