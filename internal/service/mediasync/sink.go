package mediasync

import "editor-media-sync/internal/model"

// Sink is the editor-facing delivery target for update events. The editor is
// a passive consumer: it never calls back into the upload pipeline.
//
// Ready reports whether the front-end is initialized enough to receive
// events. Events arriving while Ready is false are dropped; a later Resync
// re-surfaces anything the editor needs to redraw.
type Sink interface {
	Ready() bool
	EmitUpdate(event model.UpdateEvent)
}
