package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/rtk_reader/internal/config"
	"github.com/relabs-tech/rtk_reader/internal/gps"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// gpsState holds the latest fix and base event received over MQTT and fans
// fixes out to websocket clients.
type gpsState struct {
	mu       sync.RWMutex
	lastFix  gps.Fix
	haveFix  bool
	base     gps.BaseEvent
	haveBase bool

	subsMu sync.Mutex
	subs   map[chan gps.Fix]struct{}
}

func newGPSState() *gpsState {
	return &gpsState{subs: make(map[chan gps.Fix]struct{})}
}

func (s *gpsState) updateFix(payload []byte) error {
	var f gps.Fix
	if err := json.Unmarshal(payload, &f); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastFix = f
	s.haveFix = true
	s.mu.Unlock()

	s.subsMu.Lock()
	for ch := range s.subs {
		select {
		case ch <- f:
		default:
			// slow client; it will catch up on the next fix
		}
	}
	s.subsMu.Unlock()
	return nil
}

func (s *gpsState) updateBase(payload []byte) error {
	var ev gps.BaseEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	s.mu.Lock()
	s.base = ev
	s.haveBase = true
	s.mu.Unlock()
	return nil
}

func (s *gpsState) subscribe() chan gps.Fix {
	ch := make(chan gps.Fix, 8)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()
	return ch
}

func (s *gpsState) unsubscribe(ch chan gps.Fix) {
	s.subsMu.Lock()
	delete(s.subs, ch)
	s.subsMu.Unlock()
}

func (s *gpsState) handleFix(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.haveFix {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.lastFix); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *gpsState) handleBase(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.haveBase {
		http.Error(w, "base not confirmed yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.base); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// handleWS streams every new fix to the client as JSON.
func (s *gpsState) handleWS(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no fix published after
	// the client sees the upgrade is missed.
	ch := s.subscribe()
	defer s.unsubscribe(ch)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case f := <-ch:
			if err := conn.WriteJSON(f); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}

func newWebMux(s *gpsState) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gps", s.handleFix)
	mux.HandleFunc("/api/gps/base", s.handleBase)
	mux.HandleFunc("/ws/gps", s.handleWS)
	return mux
}

// RunWeb subscribes to the GPS topics and serves the latest fix over HTTP
// and websocket.
func RunWeb() error {
	cfg := config.Get()
	state := newGPSState()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to fixes and base events
	token := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := state.updateFix(msg.Payload()); err != nil {
			log.Printf("web: fix unmarshal error: %v", err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicGPS)

	token = client.Subscribe(cfg.TopicGPSBase, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := state.updateBase(msg.Payload()); err != nil {
			log.Printf("web: base unmarshal error: %v", err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicGPSBase)

	// 3) API endpoints plus static files from ./web as the root
	mux := newWebMux(state)
	mux.Handle("/", http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
