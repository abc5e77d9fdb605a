package webfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/roffe/canbridge/pkg/frame"
	"github.com/roffe/canbridge/pkg/rxtable"
	"github.com/roffe/canbridge/pkg/txlog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type testSource struct {
	rx *rxtable.Table
	tx *txlog.Log
}

func (s *testSource) RX() *rxtable.Table { return s.rx }
func (s *testSource) TX() *txlog.Log     { return s.tx }

func (s *testSource) Send(rawID string, rawBytes ...string) (frame.CANFrame, error) {
	f, err := frame.Encode(rawID, rawBytes)
	if err != nil {
		return f, err
	}
	s.tx.Append(f, "12:00:00:000")
	return f, nil
}

func newTestServer() (*Server, *testSource) {
	src := &testSource{rx: rxtable.New(), tx: txlog.New()}
	src.rx.Observe(frame.New("0x1A3", []string{"11", "22"}))
	src.rx.Observe(frame.New("0x1A3", []string{"33"}))
	src.rx.Observe(frame.New("0x100", nil))
	return New(src, 10*time.Millisecond), src
}

func TestHandleRX(t *testing.T) {
	s, _ := newTestServer()
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rx", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var entries []rxtable.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != "0x1A3" || entries[0].Count != 2 || entries[0].Data[1] != "22" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestHandleSend(t *testing.T) {
	s, src := newTestServer()
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"ok", http.MethodPost, `{"id":"1A3","data":["11","22"]}`, http.StatusOK},
		{"empty id", http.MethodPost, `{"id":" ","data":["11"]}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, `{"id":`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(tt.method, "/send", bytes.NewBufferString(tt.body)))
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
		})
	}
	if src.tx.Len() != 1 {
		t.Errorf("tx records = %d, want 1", src.tx.Len())
	}

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tx", nil))
	var recs []txlog.Record
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Frame.String() != "0x1A3 11 22 00 00 00 00 00 00" {
		t.Errorf("tx = %+v", recs)
	}
}

func TestStream(t *testing.T) {
	s, src := newTestServer()
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, strings.Replace(srv.URL, "http", "ws", 1)+"/stream", nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	var snap Snapshot
	if err := wsjson.Read(ctx, c, &snap); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(snap.RX) != 2 || len(snap.TX) != 0 {
		t.Fatalf("first snapshot = %+v", snap)
	}

	src.Send("7E0", "02")
	for len(snap.TX) == 0 {
		if err := wsjson.Read(ctx, c, &snap); err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if snap.TX[0].Frame.ID != "0x7E0" {
		t.Errorf("tx = %+v", snap.TX)
	}
}
