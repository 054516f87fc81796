package ws

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	written []any
	closed  bool
}

func (f *fakeConn) WriteJSON(v any) error {
	if f.closed {
		return errors.New("write on closed conn")
	}
	f.written = append(f.written, v)
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	return 0, nil, errors.New("no client")
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	// nothing draining the queue; overfilling it must not deadlock
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Publish("dashboard_updates", map[string]any{"type": "report_update"})
	}

	assert.EqualValues(t, 10, hub.dropped.Load())
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}

func TestGroupMembership(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := &fakeConn{}

	hub.conns[conn] = make(map[string]bool)
	hub.join(conn, []string{"report_updates", "user_1"})

	assert.Contains(t, hub.groups["report_updates"], wsConn(conn))
	assert.Contains(t, hub.groups["user_1"], wsConn(conn))
	assert.Len(t, hub.conns[conn], 2)

	hub.leave(conn, "user_1")
	assert.NotContains(t, hub.groups, "user_1")

	hub.drop(conn)
	assert.Empty(t, hub.groups)
	assert.Empty(t, hub.conns)
	assert.True(t, conn.closed)
}

func TestBroadcastReachesGroupOnly(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	inGroup := &fakeConn{}
	outside := &fakeConn{}

	hub.conns[inGroup] = make(map[string]bool)
	hub.conns[outside] = make(map[string]bool)
	hub.join(inGroup, []string{"report_updates"})
	hub.join(outside, []string{"dashboard_updates"})

	for conn := range hub.groups["report_updates"] {
		hub.write(conn, map[string]any{"type": "report_created"})
	}

	assert.Len(t, inGroup.written, 1)
	assert.Empty(t, outside.written)
}

func TestFailedWriteDropsConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := &fakeConn{closed: true}

	hub.conns[conn] = make(map[string]bool)
	hub.join(conn, []string{"report_updates"})

	hub.write(conn, map[string]any{"type": "report_created"})

	assert.Empty(t, hub.conns)
	assert.Empty(t, hub.groups)
}
