package telemetry

import (
	"context"
	"testing"
)

// The engine records to these instruments whether or not Init ever
// ran, so package load alone must leave them usable.
func TestInstrumentsUsableWithoutInit(t *testing.T) {
	if Tracer == nil {
		t.Fatal("Tracer must be bound at package load")
	}
	if Meter == nil {
		t.Fatal("Meter must be bound at package load")
	}
	if EventsRecorded == nil || AnalysesRun == nil || PatternsActive == nil || AnalysisLatency == nil {
		t.Fatal("instruments must be bound at package load")
	}

	ctx := context.Background()
	EventsRecorded.Add(ctx, 1)
	AnalysesRun.Add(ctx, 1)
	PatternsActive.Add(ctx, 1)
	PatternsActive.Add(ctx, -1)
	AnalysisLatency.Record(ctx, 1.5)

	_, span := Tracer.Start(ctx, "noop")
	span.End()
}
