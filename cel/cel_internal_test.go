package cel

import (
	"sync"
	"testing"
)

// Identical expressions compile once; the cached program is shared.
func TestProgramCache(t *testing.T) {
	c, err := New[map[string]any](func(m map[string]any) map[string]any { return m })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exprs := []string{
		`request.qty > 100`,
		`request.qty > 100`,
		`request.qty > 100`,
		`request.qty > 200`,
	}
	for _, e := range exprs {
		if _, err := c.Rule(e); err != nil {
			t.Fatalf("compiling %s: %v", e, err)
		}
	}

	if len(c.programs) != 2 {
		t.Fatalf("cached %d programs, want 2", len(c.programs))
	}
}

// Failed compilations must not poison the cache.
func TestProgramCacheSkipsErrors(t *testing.T) {
	c, err := New[map[string]any](func(m map[string]any) map[string]any { return m })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Rule(`request.qty >`); err == nil {
		t.Fatal("expected a compile error")
	}
	if len(c.programs) != 0 {
		t.Fatalf("cached %d programs after a failed compile, want 0", len(c.programs))
	}
}

func TestProgramCacheConcurrent(t *testing.T) {
	c, err := New[map[string]any](func(m map[string]any) map[string]any { return m })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r, err := c.Rule(`request.qty > 100`)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				r.Check(map[string]any{"qty": 500})
			}
		}()
	}
	wg.Wait()

	if len(c.programs) != 1 {
		t.Fatalf("cached %d programs, want 1", len(c.programs))
	}
}
