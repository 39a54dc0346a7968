package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/tablesync/internal/errors"
	"github.com/vango-dev/tablesync/pkg/middleware"
	"github.com/vango-dev/tablesync/pkg/protocol"
	"github.com/vango-dev/tablesync/pkg/table"
	"github.com/vango-dev/tablesync/pkg/urlquery"
)

// Session is one websocket connection bound to one table.
//
// Events are read and handled on a single goroutine, so the table sees them
// in the order the client sent them. Writes are serialized with the ping loop.
type Session struct {
	ID string

	conn   *websocket.Conn
	nav    *urlquery.Navigator
	table  *table.Table
	logger *slog.Logger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   []protocol.Patch

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, location string, logger *slog.Logger) *Session {
	s := &Session{
		ID:     id,
		conn:   conn,
		logger: logger.With("session_id", id),
		done:   make(chan struct{}),
	}
	s.nav = urlquery.NewNavigator(location, s.queue)
	return s
}

// Location returns the URL the client is showing, as far as the session knows.
func (s *Session) Location() string {
	return s.nav.Location()
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// queue buffers a history patch until the current event is answered.
func (s *Session) queue(p protocol.Patch) {
	s.pendingMu.Lock()
	s.pending = append(s.pending, p)
	s.pendingMu.Unlock()
}

func (s *Session) drain() []protocol.Patch {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Serve mounts the table, then handles client events until the connection
// closes or ctx is canceled.
func (s *Session) Serve(ctx context.Context) {
	defer s.Close()

	patches, err := s.dispatch(ctx, nil)
	if err := s.reply(0, patches, err); err != nil {
		s.logger.Error("mount failed", "error", err)
		return
	}

	go s.pingLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	s.readLoop(ctx)
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(WriteTimeout))
		s.writeMu.Unlock()
		s.conn.Close()
	})
}

func (s *Session) readLoop(ctx context.Context) {
	s.conn.SetReadDeadline(time.Now().Add(PongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err)
				middleware.RecordWebSocketError("read")
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(PongWait))

		if err := s.handleMessage(ctx, msg); err != nil {
			s.logger.Error("session aborted", "error", NewSessionError(s.ID, "handle", err))
			return
		}
	}
}

// handleMessage processes one client frame. Only write failures end the
// session; malformed frames and handler errors are reported to the client.
func (s *Session) handleMessage(ctx context.Context, msg []byte) error {
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return s.sendError(protocol.NewError(protocol.ErrInvalidFrame, err.Error()))
	}
	if frame.Type != protocol.FrameEvent {
		return s.sendError(protocol.NewError(protocol.ErrInvalidFrame, "unexpected "+frame.Type.String()+" frame"))
	}

	ev, err := protocol.DecodeEvent(frame.Payload)
	if err != nil {
		s.logger.Debug("bad event", "error", errors.New("E203").Wrap(err))
		return s.sendError(protocol.NewError(protocol.ErrInvalidEvent, err.Error()))
	}

	if ev.Type == protocol.EventPopState {
		s.nav.SetLocation(ev.Value())
	} else if !s.table.Owns(ev.HID) {
		return s.sendError(protocol.NewError(protocol.ErrHandlerNotFound, "no element "+ev.HID))
	}

	patches, err := s.dispatch(ctx, ev)
	return s.reply(ev.Seq, patches, err)
}

// dispatch runs the table on ev, or mounts it when ev is nil. A panic is
// turned into ErrHandlerPanic.
func (s *Session) dispatch(ctx context.Context, ev *protocol.Event) (patches []protocol.Patch, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panic", "panic", r, "stack", string(debug.Stack()))
			patches, err = nil, fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	if ev == nil {
		return s.table.Mount(ctx)
	}
	return s.table.HandleEvent(ctx, ev)
}

// reply sends the table patches followed by the queued history patches,
// then the error, if any. Fetch failures are reported as non-fatal.
func (s *Session) reply(seq uint64, patches []protocol.Patch, handleErr error) error {
	queued := s.drain()
	if len(queued) > 0 {
		middleware.RecordPatches(len(queued))
	}
	for _, p := range queued {
		switch p.Op {
		case protocol.PatchHistoryPush:
			middleware.RecordHistoryUpdate(urlquery.ModePush.String())
		case protocol.PatchHistoryReplace:
			middleware.RecordHistoryUpdate(urlquery.ModeReplace.String())
		}
		patches = append(patches, p)
	}

	if len(patches) > 0 || handleErr == nil {
		if err := s.writePatches(seq, patches); err != nil {
			return err
		}
	}

	if handleErr == nil {
		return nil
	}
	s.logger.Warn("event failed", "seq", seq, "error", handleErr)
	switch {
	case errors.CodeOf(handleErr) == "E300":
		return s.sendError(protocol.NewError(protocol.ErrFetchFailed, handleErr.Error()))
	case stderrors.Is(handleErr, ErrHandlerPanic):
		return s.sendError(protocol.NewError(protocol.ErrHandlerPanic, "internal error"))
	default:
		return s.sendError(protocol.NewError(protocol.ErrServerError, handleErr.Error()))
	}
}

// writePatches sends patches in as many frames as needed to stay under the
// frame payload limit. All frames carry the same sequence number.
func (s *Session) writePatches(seq uint64, patches []protocol.Patch) error {
	if len(patches) > protocol.MaxPatchesPerFrame {
		if err := s.writePatches(seq, patches[:protocol.MaxPatchesPerFrame]); err != nil {
			return err
		}
		return s.writePatches(seq, patches[protocol.MaxPatchesPerFrame:])
	}

	payload := protocol.EncodePatches(&protocol.PatchesFrame{Seq: seq, Patches: patches})
	if len(payload) > protocol.MaxPayloadSize {
		if len(patches) < 2 {
			return NewSessionError(s.ID, "write", protocol.ErrFrameTooLarge)
		}
		half := len(patches) / 2
		if err := s.writePatches(seq, patches[:half]); err != nil {
			return err
		}
		return s.writePatches(seq, patches[half:])
	}
	return s.writeFrame(protocol.FramePatches, payload)
}

func (s *Session) sendError(em *protocol.ErrorMessage) error {
	if err := s.writeFrame(protocol.FrameError, protocol.EncodeErrorMessage(em)); err != nil {
		return err
	}
	if em.Fatal {
		return em
	}
	return nil
}

func (s *Session) writeFrame(ft protocol.FrameType, payload []byte) error {
	data, err := protocol.NewFrame(ft, payload).Encode()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	s.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		middleware.RecordWebSocketError("write")
		return NewSessionError(s.ID, "write", err)
	}
	return nil
}

func (s *Session) pingLoop() {
	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteTimeout))
			s.writeMu.Unlock()
			if err != nil {
				s.logger.Debug("ping failed", "error", err)
				s.Close()
				return
			}
		}
	}
}
