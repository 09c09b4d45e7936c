package stream

import (
	"encoding/json"
	"fmt"

	"github.com/crankworks/musicbox/internal/session"
)

// Controls is the slice of the session controller the transports drive.
type Controls interface {
	Pointer(session.PointerEvent)
	Replay()
	Snapshot() session.Snapshot
}

// clientMsg is the wire format the widget sends over the websocket or the
// WebRTC data channel.
type clientMsg struct {
	Type  string  `json:"type"` // "pointer" or "replay"
	Phase string  `json:"phase,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	CX    float64 `json:"cx,omitempty"`
	CY    float64 `json:"cy,omitempty"`
}

// dispatchClientMsg decodes one widget message and applies it.
func dispatchClientMsg(ctrl Controls, data []byte) error {
	var msg clientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("client message: %w", err)
	}

	switch msg.Type {
	case "pointer":
		ctrl.Pointer(session.PointerEvent{
			Phase: session.ParsePhase(msg.Phase),
			X:     msg.X,
			Y:     msg.Y,
			CX:    msg.CX,
			CY:    msg.CY,
		})
	case "replay":
		ctrl.Replay()
	default:
		return fmt.Errorf("client message: unknown type %q", msg.Type)
	}
	return nil
}
