package transport

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// handleWebSocket upgrades the connection and serves one JSON-RPC message
// per text frame until the client goes away.
func (s *HTTPServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "server closing")

	ctx := r.Context()
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				s.log.Debug("websocket closed by client")
			} else if ctx.Err() == nil {
				s.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var req Request
		var resp *Response
		if err := json.Unmarshal(data, &req); err != nil {
			resp = parseErrorResponse(nil)
		} else {
			resp = s.dispatcher.Handle(ctx, &req)
		}
		if resp == nil {
			continue
		}
		payload, err := json.Marshal(resp)
		if err != nil {
			s.log.Error("websocket marshal failed", zap.Error(err))
			continue
		}
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			s.log.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}
