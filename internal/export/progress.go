// Package export implements the DocNest export/archival engine: it
// resolves an export scope against the data access port, stages
// attachment files into an ephemeral workspace, writes JSON manifests,
// and packages the workspace into a single tar.gz archive.
package export

// Phase identifies a stage of an export operation.
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseCopying    Phase = "copying-attachments"
	PhaseArchiving  Phase = "creating-archive"
	PhaseComplete   Phase = "complete"
	PhaseFailed     Phase = "failed"
)

// Phase boundaries on the 0-100 progress scale, for UI pacing.
const (
	progressCollectingEnd = 30
	progressCopyingEnd    = 70
	progressArchivingEnd  = 100
)

// Event is one progress update. Progress is an integer 0-100.
type Event struct {
	Phase       Phase  `json:"phase"`
	Progress    int    `json:"progress"`
	CurrentItem string `json:"current_item,omitempty"`
	Message     string `json:"message"`
}

// Sink receives progress events. It is invoked synchronously from the
// exporting goroutine at well-defined checkpoints; there is exactly one
// writer, so no ordering issues arise. A nil Sink is allowed.
type Sink func(Event)

// emit invokes the sink if one is set.
func (s Sink) emit(e Event) {
	if s != nil {
		s(e)
	}
}

// copyingProgress scales attempted/total into the copying phase sub-range.
func copyingProgress(attempted, total int) int {
	if total == 0 {
		return progressCopyingEnd
	}
	span := progressCopyingEnd - progressCollectingEnd
	return progressCollectingEnd + attempted*span/total
}
