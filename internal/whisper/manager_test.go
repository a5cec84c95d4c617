package whisper

import (
	"sync"
	"testing"
)

func TestClearAllDiscardsEverything(t *testing.T) {
	m := NewManager()
	m.Register(ModelState{Name: "whisper-small", Path: "/models/small.bin"})
	if !m.MarkLoaded("whisper-small") {
		t.Fatal("MarkLoaded() = false for registered model")
	}
	m.BeginSession("sess-1")

	m.ClearAll()

	if len(m.Models()) != 0 {
		t.Fatalf("Models() len = %d after ClearAll, want 0", len(m.Models()))
	}
	model, session := m.Active()
	if model != "" || session != "" {
		t.Fatalf("Active() = %q, %q after ClearAll, want empty", model, session)
	}
}

func TestMarkLoadedUnknownModel(t *testing.T) {
	m := NewManager()
	if m.MarkLoaded("nope") {
		t.Fatal("MarkLoaded() = true for unknown model")
	}
}

func TestClearAllIsSafeUnderConcurrency(t *testing.T) {
	m := NewManager()
	m.Register(ModelState{Name: "whisper-small"})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Register(ModelState{Name: "whisper-large"})
			_ = m.Models()
		}()
		go func() {
			defer wg.Done()
			m.ClearAll()
		}()
	}
	wg.Wait()
}
