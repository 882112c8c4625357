package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/chapter"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveMaxMessage = 4 << 20
)

// live message types
const (
	liveAutosave = "autosave"
	liveFlush    = "flush"
	liveSaved    = "saved"
	liveHeld     = "held"
	liveError    = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type (
	// LiveMessage is sent by the editor on every change.
	LiveMessage struct {
		Type    string                  `json:"type"`
		Chapter chapter.ChapterDocument `json:"chapter"`
	}

	LiveReply struct {
		Type     string            `json:"type"`
		Progress float64           `json:"progress,omitempty"`
		Error    string            `json:"error,omitempty"`
		Fields   map[string]string `json:"fields,omitempty"`
	}
)

// live autosaves the chapter on every message of a websocket session.
// Held back autosaves are flushed when the session ends.
func (api *chapterApi) live(ctx echo.Context) error {
	key, err := getContextKey(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.Get(ctx.Request().Context(), key); err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return nil // the upgrader already replied
	}
	defer func() { _ = conn.Close() }()
	defer func() {
		if err := api.svc.Flush(context.Background()); err != nil {
			api.logger.Error(fmt.Sprintf("flushing %s: %v", key, err), err)
		}
	}()

	conn.SetReadLimit(liveMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(livePongWait)) })

	done := make(chan struct{})
	defer close(done)
	go api.ping(conn, done)

	for {
		var msg LiveMessage
		if err = conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				api.logger.Warn(fmt.Sprintf("live session %s closed: %v", key, err))
			}
			return nil
		}
		reply := api.handleLive(ctx.Request().Context(), key, msg)
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err = conn.WriteJSON(reply); err != nil {
			return nil
		}
	}
}

func (api *chapterApi) ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

func (api *chapterApi) handleLive(ctx context.Context, key chapter.Key, msg LiveMessage) LiveReply {
	switch msg.Type {
	case liveFlush:
		if err := api.svc.Flush(ctx); err != nil {
			return api.liveError(err)
		}
		return LiveReply{Type: liveSaved}
	case liveAutosave, "":
	default:
		return LiveReply{Type: liveError, Error: "unknown message type " + msg.Type}
	}

	doc := msg.Chapter
	doc.ClassNum, doc.Subject, doc.ChapterNumber = key.Class, key.Subject, key.Chapter
	if err := doc.Validate(api.validate); err != nil {
		return api.liveError(err)
	}
	saved, err := api.svc.Autosave(ctx, doc)
	if err != nil {
		return api.liveError(err)
	}

	reply := LiveReply{Type: liveHeld, Progress: chapter.ComputeProgress(doc).Overall}
	if saved {
		reply.Type = liveSaved
	}
	return reply
}

func (api *chapterApi) liveError(err error) LiveReply {
	reply := LiveReply{Type: liveError}
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		reply.Error = "invalid chapter"
		reply.Fields = make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			reply.Fields[vErr.Field()] = vErr.Translate(api.translator)
		}
	case *core.ValidationError:
		reply.Error = origErr.Error()
		reply.Fields = origErr.FieldMap()
	default:
		reply.Error = http.StatusText(http.StatusInternalServerError)
		api.logger.Error(reply.Error, errors.Wrap(err, "live autosave"))
	}
	return reply
}
