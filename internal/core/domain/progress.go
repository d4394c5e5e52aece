package domain

// ProgressStage identifies a phase of a pipeline run.
type ProgressStage string

// Pipeline stages reported through progress events.
const (
	// StageExtract covers text extraction from the uploaded file.
	StageExtract ProgressStage = "extract"

	// StageDetect covers question detection.
	StageDetect ProgressStage = "detect"

	// StageAnswer covers per-question embedding, retrieval and generation.
	StageAnswer ProgressStage = "answer"

	// StageSummary covers executive summary generation.
	StageSummary ProgressStage = "summary"

	// StageChunk covers splitting a document during ingestion.
	StageChunk ProgressStage = "chunk"

	// StageEmbed covers chunk embedding during ingestion.
	StageEmbed ProgressStage = "embed"
)

// ProgressEvent is one observation of pipeline progress.
// Current and Total describe item counts within the stage; Total is 0
// when the stage has no meaningful item count.
type ProgressEvent struct {
	Stage   ProgressStage
	Current int
	Total   int
	Message string
}

// ProgressFunc receives progress events. Sinks are invoked synchronously
// from the pipeline goroutine and must return quickly.
type ProgressFunc func(ProgressEvent)

// Report invokes the sink with the event. Safe on a nil sink.
func (f ProgressFunc) Report(e ProgressEvent) {
	if f != nil {
		f(e)
	}
}
