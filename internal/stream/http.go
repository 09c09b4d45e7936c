package stream

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/exec"

	"github.com/crankworks/musicbox/internal/audio"
)

// HTTPHandler serves the box's audio as a chunked MP3 stream. Each
// connection spawns an FFmpeg process encoding PCM to MP3 in real time; the
// stream carries silence while the crank is at rest, so the browser's
// <audio> element never starves.
type HTTPHandler struct {
	broadcaster *Broadcaster
}

// NewHTTPHandler creates an HTTP stream handler backed by the broadcaster.
func NewHTTPHandler(b *Broadcaster) *HTTPHandler {
	return &HTTPHandler{broadcaster: b}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Connection", "close")
	w.Header().Set("ICY-Name", "music box")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "s16le",
		"-ar", "48000",
		"-ac", "2",
		"-i", "pipe:0",
		"-codec:a", "libmp3lame",
		"-b:a", "160k",
		"-f", "mp3",
		"-fflags", "nobuffer",
		"-flush_packets", "1",
		"-loglevel", "error",
		"pipe:1",
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Printf("MP3 stream: stdin pipe error: %v", err)
		return
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Printf("MP3 stream: stdout pipe error: %v", err)
		return
	}
	if err := cmd.Start(); err != nil {
		log.Printf("MP3 stream: ffmpeg start error: %v", err)
		return
	}

	listener := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(listener)

	log.Printf("MP3 listener connected (total: %d)", h.broadcaster.ListenerCount())
	defer log.Printf("MP3 listener disconnected")

	go feedEncoder(ctx, stdin, listener)

	// Relay encoded MP3 to the response.
	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				break
			}
			flusher.Flush()
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("MP3 stream: ffmpeg read error: %v", err)
			}
			break
		}
	}

	cmd.Wait()
}

// feedEncoder pumps PCM frames into the encoder's stdin until the listener
// goes away.
func feedEncoder(ctx context.Context, stdin io.WriteCloser, listener *Listener) {
	defer stdin.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-listener.Done():
			return
		case frame, ok := <-listener.C:
			if !ok {
				return
			}
			if _, err := stdin.Write(audio.SamplesToBytes(frame)); err != nil {
				return
			}
		}
	}
}
