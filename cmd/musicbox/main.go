package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/crankworks/musicbox/internal/audio"
	"github.com/crankworks/musicbox/internal/config"
	"github.com/crankworks/musicbox/internal/flipbook"
	"github.com/crankworks/musicbox/internal/session"
	"github.com/crankworks/musicbox/internal/stream"
	"github.com/crankworks/musicbox/internal/waveform"
	"github.com/crankworks/musicbox/internal/web"
)

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Println("musicbox starting up...")

	// The tune. A failed decode leaves the box silent but still crankable.
	player, err := audio.LoadPlayer(cfg.AudioPath)
	if err != nil {
		log.Printf("Audio unavailable (%v), widget continues silent", err)
	} else {
		log.Printf("Tune loaded: %s (%s)", cfg.AudioPath, player.Duration())
	}
	go player.Run(ctx)

	// Flipbook frames. Optional as well.
	book, err := flipbook.Load(cfg.FramesDir)
	if err != nil {
		log.Printf("Flipbook unavailable (%v), widget continues without photos", err)
		book = nil
	} else {
		log.Printf("Flipbook loaded: %d frames from %s", book.Count(), cfg.FramesDir)
	}

	// Waveform decoration, precomputed once.
	bars := waveform.Compute(player.PCM(), cfg.WaveformBars)

	// The session: one controller goroutine owns all crank and playback state.
	ctrl := session.NewController(session.Config{
		TotalAngle:     cfg.TotalAngle,
		Sensitivity:    cfg.Sensitivity,
		NoiseThreshold: cfg.NoiseThreshold,
		DebounceDelay:  cfg.DebounceDelay,
		FadeStep:       cfg.FadeStep,
		FadeInterval:   cfg.FadeInterval,
	}, player, book)
	go ctrl.Run(ctx)

	// Fan PCM frames out to every listening tab.
	broadcaster := stream.NewBroadcaster()
	go broadcaster.Run(ctx, player.Frames())

	webrtcHandler := stream.NewWebRTCHandler(broadcaster, ctrl)

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(web.IndexHTML)
	})

	mux.Handle("/ws", stream.NewWSHandler(ctrl))
	mux.Handle("/stream", stream.NewHTTPHandler(broadcaster))
	mux.Handle("/offer", webrtcHandler)

	if book != nil {
		mux.Handle("/frames/", book)
	}

	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.Snapshot())
	})

	mux.HandleFunc("/api/waveform", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		json.NewEncoder(w).Encode(bars)
	})

	mux.HandleFunc("/api/replay", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		ctrl.Replay()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		server.Close()
	}()

	log.Printf("musicbox live on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}
