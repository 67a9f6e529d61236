package chat

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"snappy/logger"
	"snappy/tools/ids"
	"snappy/tools/safe"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const mirrorTimeout = 2 * time.Second

// HandleWS upgrades the request and runs the connection until its transport
// reports closure. The handler goroutine is the only reader; a dedicated
// goroutine is the only writer.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error: %v", err)
		return
	}

	client := NewClient(ids.GenerateString(), ws, s.opts.SendQueueSize)
	s.reg.AddConn(client)
	safe.Go(client.WritePump)
	logger.Debugf("[ws] open conn=%s remote=%s", client.ConnID, ws.RemoteAddr())

	s.readLoop(client, ws)
	s.teardown(client)
}

func (s *Server) readLoop(client *Client, ws *websocket.Conn) {
	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Debugf("[ws] peer closed conn=%s err=%v", client.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s err=%v", client.ConnID, rerr)
			} else {
				logger.Debugf("[ws] read err conn=%s err=%v", client.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			// Malformed event: drop the single frame, keep the connection.
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[ws] bad frame conn=%s err=%v sample=%q", client.ConnID, perr, sample)
			continue
		}

		h := s.disp.Get(frame.Type)
		if h == nil {
			logger.Debugf("[ws] no handler for type=%s conn=%s", frame.Type, client.ConnID)
			continue
		}
		if err := h.Handle(&Context{S: s}, frame, client); err != nil {
			logger.Errorf("[ws] handler err type=%s conn=%s: %v", frame.Type, client.ConnID, err)
		}
	}
}

// teardown runs exactly once per connection, whatever ended the read loop.
// Unregister is compare-and-delete: when a newer connection already replaced
// this one, the registry entry stays and no roster broadcast happens.
func (s *Server) teardown(client *Client) {
	client.Close()
	s.reg.DropConn(client)

	removed := s.reg.Unregister(client)
	logger.Debugf("[ws] close conn=%s user=%s removed=%v", client.ConnID, client.UserID(), removed)
	if !removed {
		return
	}

	if m := s.opts.Mirror; m != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		if err := m.Offline(ctx, client.UserID()); err != nil {
			logger.Warnf("[ws] presence mirror offline err user=%s: %v", client.UserID(), err)
		}
		cancel()
	}
	s.BroadcastRoster()
}
