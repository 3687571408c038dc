package metrics

import "testing"

// TestMultiSink ensures events are forwarded to all sinks.

type recordSink struct {
	count int
}

func (r *recordSink) RecordGeneration(GenerationEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordRun(RunSummary) error {
	r.count++
	return nil
}

type generationOnly struct {
	count int
}

func (g *generationOnly) RecordGeneration(GenerationEvent) error {
	g.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	g := &generationOnly{}
	m := NewMultiSink(s1, s2, g)
	if err := m.RecordGeneration(GenerationEvent{}); err != nil {
		t.Fatalf("record generation: %v", err)
	}
	if err := m.RecordRun(RunSummary{}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
	if g.count != 1 {
		t.Fatalf("expected run summary skipped for generation-only sink")
	}
}
