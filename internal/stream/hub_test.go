package stream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type frameCounter struct {
	mu     sync.Mutex
	frames int
}

func (f *frameCounter) ObserveFrame(time.Duration, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
}

func (f *frameCounter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

func startHub(t *testing.T, cfg Config) (*Hub, *httptest.Server) {
	t.Helper()
	scn, err := scenario.BinaryStars()
	if err != nil {
		t.Fatal(err)
	}
	hub, err := NewHub(scn, cfg, discard)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		cancel()
		<-stopped
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if f.Type != "frame" {
		t.Fatalf("Type = %q, want frame", f.Type)
	}
	return f
}

func readMetadata(t *testing.T, conn *websocket.Conn) Metadata {
	t.Helper()
	var meta Metadata
	if err := conn.ReadJSON(&meta); err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	return meta
}

func TestHub_MetadataThenFrames(t *testing.T) {
	_, srv := startHub(t, Config{FPS: 50, Speed: dynamo.SecondsInDay})
	conn := dial(t, srv, "")

	meta := readMetadata(t, conn)
	if meta.Type != "metadata" || len(meta.Bodies) != 3 || meta.FPS != 50 {
		t.Errorf("metadata = %+v", meta)
	}

	first := readFrame(t, conn)
	if len(first.Bodies) != 3 {
		t.Fatalf("frame has %d bodies, want 3", len(first.Bodies))
	}
	if first.Speed != dynamo.SecondsInDay {
		t.Errorf("Speed = %g", first.Speed)
	}

	var later Frame
	for i := 0; i < 5; i++ {
		later = readFrame(t, conn)
	}
	if !(later.Time > first.Time) {
		t.Errorf("time did not advance: %g then %g", first.Time, later.Time)
	}
}

func TestHub_PauseCommand(t *testing.T) {
	_, srv := startHub(t, Config{FPS: 50})
	conn := dial(t, srv, "")
	if meta := readMetadata(t, conn); meta.Type != "metadata" {
		t.Fatalf("first message type = %q, want metadata", meta.Type)
	}

	if err := conn.WriteJSON(Command{Cmd: "pause"}); err != nil {
		t.Fatal(err)
	}

	var paused Frame
	for i := 0; i < 200; i++ {
		if paused = readFrame(t, conn); !paused.Running {
			break
		}
	}
	if paused.Running {
		t.Fatal("pause never took effect")
	}
	next := readFrame(t, conn)
	if next.Time != paused.Time {
		t.Errorf("time moved while paused: %g then %g", paused.Time, next.Time)
	}

	if err := conn.WriteJSON(Command{Cmd: "speed", Value: 100}); err != nil {
		t.Fatal(err)
	}
	top := float64(scenario.DefaultSpeedIntervals[len(scenario.DefaultSpeedIntervals)-1])
	for i := 0; i < 200; i++ {
		if f := readFrame(t, conn); f.Speed == top {
			return
		}
	}
	t.Error("speed command never took effect")
}

func TestHub_BadRequests(t *testing.T) {
	_, srv := startHub(t, Config{FPS: 10, MaxClients: 1})

	resp, err := http.Get(srv.URL + "?fps=abc")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("fps=abc status = %d, want 400", resp.StatusCode)
	}

	dial(t, srv, "?fps=5")
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second client should be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("second client response = %v, want 503", resp)
	}
}

func TestHub_FrameObserver(t *testing.T) {
	scn, err := scenario.BinaryStars()
	if err != nil {
		t.Fatal(err)
	}
	steps := 0
	hub, err := NewHub(scn, Config{FPS: 100}, discard,
		physics.ObserverFunc(func(float64, []physics.Body) { steps++ }))
	if err != nil {
		t.Fatal(err)
	}
	fc := &frameCounter{}
	hub.SetFrameObserver(fc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := hub.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if fc.count() == 0 || fc.count() != steps {
		t.Errorf("frames observed = %d, engine steps = %d", fc.count(), steps)
	}
}

func TestSnapshot(t *testing.T) {
	scn, err := scenario.SolarSystem()
	if err != nil {
		t.Fatal(err)
	}
	eng := physics.NewEngine()
	if err := scn.Setup(eng); err != nil {
		t.Fatal(err)
	}
	if err := eng.Simulate(dynamo.SecondsInDay); err != nil {
		t.Fatal(err)
	}

	f := Snapshot(eng, 1, true, true)
	byName := make(map[string]BodyState)
	for _, b := range f.Bodies {
		byName[b.Name] = b
	}
	moon := byName["Moon"]
	if moon.Parent != "Earth" || moon.Kind == "" {
		t.Errorf("Moon = %+v", moon)
	}
	if len(byName["Earth"].Trail) == 0 {
		t.Error("Earth has no trail")
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name":"Jupiter"`) {
		t.Error("encoded frame lacks Jupiter")
	}

	if f := Snapshot(eng, 1, true, false); f.Bodies[0].Trail != nil {
		t.Error("trail included without asking")
	}
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		cmd     Command
		wantErr bool
	}{
		{Command{Cmd: "pause"}, false},
		{Command{Cmd: "resume"}, false},
		{Command{Cmd: "speed", Value: 3}, false},
		{Command{Cmd: "rewind"}, true},
	}
	for _, tt := range tests {
		if err := tt.cmd.validate(); (err != nil) != tt.wantErr {
			t.Errorf("validate(%+v) error = %v, wantErr %v", tt.cmd, err, tt.wantErr)
		}
	}
}
