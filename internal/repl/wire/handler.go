package wire

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/repl/autocomplete"
	"github.com/matthewbaird/umlgen/internal/repl/meta"
	"github.com/matthewbaird/umlgen/internal/repl/session"
	"github.com/matthewbaird/umlgen/internal/repl/shell"
	"github.com/matthewbaird/umlgen/internal/repository"
)

// Handler manages WebSocket connections for the REPL.
type Handler struct {
	sessions     *session.Manager
	shell        *shell.Shell
	autocomplete *autocomplete.Engine
	log          *zap.SugaredLogger
}

// NewHandler creates a WebSocket handler with all dependencies.
func NewHandler(sessions *session.Manager, sh *shell.Shell, ac *autocomplete.Engine) *Handler {
	return &Handler{
		sessions:     sessions,
		shell:        sh,
		autocomplete: ac,
		log:          logger.Named("repl"),
	}
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warnw("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	sess := h.sessions.Create()
	defer h.sessions.Remove(sess.ID)
	ctx := r.Context()

	h.send(ctx, conn, ServerMessage{
		Type: TypeSession,
		Data: SessionData{SessionID: sess.ID},
	})

	for {
		var msg ClientMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				h.log.Debugw("connection closed", "session", sess.ID, "status", status)
			}
			return
		}

		switch msg.Type {
		case TypeExecute:
			h.handleExecute(ctx, conn, sess, msg)
		case TypeAutocomplete:
			h.handleAutocomplete(ctx, conn, msg)
		case TypePing:
			h.send(ctx, conn, ServerMessage{Type: TypePong, RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", errors.Newf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleExecute(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	start := time.Now()

	var data ExecuteData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", errors.New("invalid execute data"))
		return
	}

	res, err := h.shell.Execute(ctx, sess, data.Line)
	if res != nil {
		h.send(ctx, conn, ServerMessage{Type: TypeOutput, RequestID: msg.ID, Data: res})
	}
	if err != nil {
		h.sendError(ctx, conn, msg.ID, errorCode(err), err)
		return
	}

	h.send(ctx, conn, ServerMessage{
		Type:      TypeDone,
		RequestID: msg.ID,
		Data:      DoneData{Elapsed: time.Since(start).String()},
	})
}

func (h *Handler) handleAutocomplete(ctx context.Context, conn *websocket.Conn, msg ClientMessage) {
	var data AutocompleteData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", errors.New("invalid autocomplete data"))
		return
	}

	items := h.autocomplete.Complete(data.Line, data.Cursor)
	h.send(ctx, conn, ServerMessage{
		Type:      TypeCompletions,
		RequestID: msg.ID,
		Data:      CompletionsData{Items: items},
	})
}

func errorCode(err error) string {
	switch {
	case errors.IsAny(err, shell.ErrEmptyLine, shell.ErrSyntax, shell.ErrUsage):
		return "usage_error"
	case errors.IsAny(err, shell.ErrUnknownVerb, meta.ErrUnknownMeta, command.ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.IsAny(err, repository.ErrNothingToUndo, repository.ErrNothingToRedo):
		return "nothing_to_do"
	default:
		return "exec_error"
	}
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		h.log.Debugw("write failed", "type", msg.Type, "error", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code string, err error) {
	h.send(ctx, conn, ServerMessage{
		Type:      TypeError,
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: err.Error(),
			Hints:   errors.GetAllHints(err),
		},
	})
}
