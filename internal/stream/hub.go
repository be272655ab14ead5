package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

const (
	DefaultFPS        = 20
	DefaultSendBuffer = 8
)

// Config holds hub settings.
type Config struct {
	// FPS is how many frames the engine loop produces per second.
	FPS int
	// Speed is the initial speed in simulated seconds per real second; zero
	// picks the scenario's first non-zero stop.
	Speed      float64
	Settings   physics.StepSettings
	Scheme     physics.Scheme
	MaxClients int  // zero means unlimited
	SendBuffer int  // frames queued per client
	Trails     bool // include trail points in frames
}

// Command is sent by clients to steer the shared simulation.
type Command struct {
	Cmd string `json:"cmd"` // pause, resume or speed
	// Value is the slider position for speed.
	Value float64 `json:"value,omitempty"`
}

func (c Command) validate() error {
	switch c.Cmd {
	case "pause", "resume":
		return nil
	case "speed":
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return fmt.Errorf("%w: speed %g", dynamo.ErrParameterBounds, c.Value)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", dynamo.ErrParameterBounds, c.Cmd)
}

// FrameObserver is told how long each frame took and how many bodies were
// rolled back in it.
type FrameObserver interface {
	ObserveFrame(d time.Duration, rolledBack int)
}

// Hub runs one engine and fans its frames out to websocket clients. Only
// the Run goroutine touches the engine.
type Hub struct {
	scn       scenario.Scenario
	eng       *physics.Engine
	cfg       Config
	logger    *slog.Logger
	upgrader  websocket.Upgrader
	intervals []int
	frames    FrameObserver

	// owned by Run
	slider  float64
	running bool

	commands chan Command
	done     chan struct{}

	mu       sync.Mutex
	clients  map[*client]struct{}
	active   int
	latest   []byte
	metadata []byte
}

// NewHub sets up scn on a fresh engine with the given observers attached.
func NewHub(scn scenario.Scenario, cfg Config, logger *slog.Logger, observers ...physics.Observer) (*Hub, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultSendBuffer
	}
	if s, ok := scn.StepSettings(); ok && cfg.Settings == (physics.StepSettings{}) {
		cfg.Settings = s
	}
	if cfg.Settings == (physics.StepSettings{}) {
		cfg.Settings = physics.DefaultStepSettings()
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}

	eng := physics.NewEngine()
	eng.SetScheme(cfg.Scheme)
	for _, o := range observers {
		eng.AddObserver(o)
	}
	if err := scn.Setup(eng); err != nil {
		return nil, fmt.Errorf("setting up %s: %w", scn.Name(), err)
	}

	h := &Hub{
		scn:       scn,
		eng:       eng,
		cfg:       cfg,
		logger:    logger,
		intervals: scenario.SpeedIntervals(scn),
		running:   true,
		commands:  make(chan Command, 16),
		done:      make(chan struct{}),
		clients:   make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	h.slider = h.initialSlider()

	names := make([]string, 0, eng.Len())
	for _, b := range eng.Bodies() {
		names = append(names, b.State().Name)
	}
	h.metadata, _ = json.Marshal(Metadata{
		Type:           "metadata",
		Scenario:       scn.Name(),
		Bodies:         names,
		DefaultView:    scn.DefaultView(),
		SpeedIntervals: h.intervals,
		FPS:            cfg.FPS,
	})
	h.publish()
	return h, nil
}

// SetFrameObserver must be called before Run.
func (h *Hub) SetFrameObserver(o FrameObserver) { h.frames = o }

func (h *Hub) initialSlider() float64 {
	if h.cfg.Speed > 0 {
		return scenario.SliderFor(h.intervals, h.cfg.Speed)
	}
	for i, v := range h.intervals {
		if v > 0 {
			return float64(i)
		}
	}
	return 0
}

func (h *Hub) speed() float64 { return scenario.InterpolateSpeed(h.intervals, h.slider) }

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run advances the engine at the configured frame rate until ctx is done,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	defer close(h.done)

	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.FPS))
	defer ticker.Stop()

	h.logger.Info("stream started", "scenario", h.scn.Name(), "fps", h.cfg.FPS, "speed", h.speed())
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("stream stopped", "simulation_time", h.eng.SimulationTime(), "steps", h.eng.Steps())
			return nil
		case cmd := <-h.commands:
			h.apply(cmd)
		case <-ticker.C:
			h.step()
			h.publish()
		}
	}
}

func (h *Hub) apply(cmd Command) {
	switch cmd.Cmd {
	case "pause":
		h.running = false
	case "resume":
		h.running = true
	case "speed":
		h.slider = math.Max(0, math.Min(float64(len(h.intervals)-1), cmd.Value))
	}
	h.logger.Debug("command applied", "cmd", cmd.Cmd, "running", h.running, "speed", h.speed())
}

func (h *Hub) step() {
	speed := h.speed()
	if !h.running || speed <= 0 {
		return
	}
	frame := speed / float64(h.cfg.FPS)
	if err := h.eng.SetMaxSimulationStep(frame, h.cfg.Settings); err != nil {
		h.logger.Error("cannot pick a time step", "speed", speed, "error", err)
		h.running = false
		return
	}

	start := time.Now()
	rolled := 0
	if err := h.eng.Simulate(frame); err != nil {
		rolled = countRollbacks(err)
		h.logger.Warn("bodies rolled back", "count", rolled, "error", err)
	}
	if h.frames != nil {
		h.frames.ObserveFrame(time.Since(start), rolled)
	}
}

func countRollbacks(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, e := range joined.Unwrap() {
			n += countRollbacks(e)
		}
		return n
	}
	var se *dynamo.SimulationError
	if errors.As(err, &se) {
		return 1
	}
	return 0
}

// publish encodes the current frame and offers it to every client.
func (h *Hub) publish() {
	msg, err := json.Marshal(Snapshot(h.eng, h.speed(), h.running, h.cfg.Trails))
	if err != nil {
		h.logger.Error("frame encode failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	for c := range h.clients {
		c.offer(msg)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeHTTP upgrades to a websocket and streams frames.
// GET /ws?fps=10
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fps := float64(h.cfg.FPS)
	if v := r.URL.Query().Get("fps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > h.cfg.FPS {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid fps parameter, must be 1-%d", h.cfg.FPS))
			return
		}
		fps = float64(n)
	}

	ip := clientIP(r)
	if !h.reserve() {
		h.logger.Warn("client limit reached", "remote_ip", ip, "max_clients", h.cfg.MaxClients)
		writeError(w, http.StatusServiceUnavailable, "too many clients")
		return
	}
	defer h.release()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote_ip", ip, "error", err)
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, h.cfg.SendBuffer+2),
		limiter: rate.NewLimiter(rate.Limit(fps), 2),
		ip:      ip,
		logger:  h.logger,
	}
	if !h.register(c) {
		conn.Close()
		return
	}

	start := time.Now()
	h.logger.Info("client connected", "remote_ip", ip, "fps", fps)
	defer func() {
		h.unregister(c)
		h.logger.Info("client disconnected",
			"remote_ip", ip,
			"duration_seconds", int(time.Since(start).Seconds()),
			"dropped", c.dropped,
		)
	}()

	go c.writePump()
	c.readPump(h.commands, h.done)
}

func (h *Hub) reserve() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg.MaxClients > 0 && h.active >= h.cfg.MaxClients {
		return false
	}
	h.active++
	return true
}

func (h *Hub) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active--
}

// register queues the metadata and latest frame, then adds c. It fails
// once Run has finished.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return false
	default:
	}
	c.send <- h.metadata
	c.send <- h.latest
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
