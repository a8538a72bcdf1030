package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	commandTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Request is one console line sent by an operator
type Request struct {
	ID   string `json:"id,omitempty"`
	Line string `json:"line"`
}

// Response answers one Request
type Response struct {
	ID     string `json:"id,omitempty"`
	OK     bool   `json:"ok"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// client pumps one operator connection
type client struct {
	exec Executor
	conn *websocket.Conn
	send chan Response
	log  *logrus.Entry
}

func newClient(exec Executor, conn *websocket.Conn) *client {
	return &client{
		exec: exec,
		conn: conn,
		send: make(chan Response, 16),
		log:  logger.Log.WithField("remote", conn.RemoteAddr().String()),
	}
}

// readPump executes every request in order and queues the replies
func (c *client) readPump(ctx context.Context) {
	defer func() {
		close(c.send)
		c.log.Info("admin client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req Request
		if err := c.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("admin read failed")
			}
			return
		}
		c.send <- c.handle(ctx, req)
	}
}

func (c *client) handle(ctx context.Context, req Request) Response {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := c.exec.Execute(ctx, req.Line)
	resp := Response{ID: req.ID, OK: err == nil, Output: out}
	if err != nil {
		resp.Error = err.Error()
	}
	c.log.WithFields(logrus.Fields{
		"line": req.Line,
		"ok":   resp.OK,
	}).Info("admin command")
	return resp
}

// writePump writes replies and keeps the connection alive with pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close admin connection")
		}
	}()

	for {
		select {
		case resp, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(resp); err != nil {
				c.log.WithError(err).Debug("admin write failed")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
