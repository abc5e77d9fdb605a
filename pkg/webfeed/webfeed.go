// Package webfeed exposes the RX table and TX log of a bridge over HTTP and
// streams snapshots over a websocket.
package webfeed

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/roffe/canbridge/pkg/frame"
	"github.com/roffe/canbridge/pkg/rxtable"
	"github.com/roffe/canbridge/pkg/txlog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const DefaultInterval = 500 * time.Millisecond

type Source interface {
	RX() *rxtable.Table
	TX() *txlog.Log
	Send(rawID string, rawBytes ...string) (frame.CANFrame, error)
}

type Snapshot struct {
	RX []rxtable.Entry `json:"rx"`
	TX []txlog.Record  `json:"tx"`
}

type SendRequest struct {
	ID   string   `json:"id"`
	Data []string `json:"data"`
}

type Server struct {
	src      Source
	interval time.Duration
	mux      *http.ServeMux
	// OriginPatterns is passed on to websocket.Accept
	OriginPatterns []string
}

func New(src Source, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Server{
		src:      src,
		interval: interval,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("/rx", s.handleRX)
	s.mux.HandleFunc("/tx", s.handleTX)
	s.mux.HandleFunc("/send", s.handleSend)
	s.mux.HandleFunc("/stream", s.handleStream)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) snapshot() Snapshot {
	return Snapshot{RX: s.src.RX().Snapshot(), TX: s.src.TX().Snapshot()}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.Header().Add("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	w.Write(b)
}

func (s *Server) handleRX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.src.RX().Snapshot())
}

func (s *Server) handleTX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.src.TX().Snapshot())
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		log.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req SendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f, err := s.src.Send(req.ID, req.Data...)
	if err != nil {
		var verr *frame.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.OriginPatterns})
	if err != nil {
		log.Print(err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")
	log.Printf("accepted websocket request from %s", r.RemoteAddr)

	// We never expect data from the client, CloseRead handles control frames
	// and cancels ctx when the peer goes away.
	ctx := c.CloseRead(r.Context())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if err := wsjson.Write(ctx, c, s.snapshot()); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
		}
	}
}
