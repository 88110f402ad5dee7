package fonts

import (
	"strings"
	"sync"
	"testing"
)

func TestMeasureGrowsWithTextAndSize(t *testing.T) {
	short, err := Measure("N V", 12)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	long, err := Measure("Si II 1260.42", 12)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	big, err := Measure("N V", 24)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	if short.Width <= 0 || short.Height() <= 0 {
		t.Fatalf("Measure() = %+v, want a positive extent", short)
	}
	if long.Width <= short.Width {
		t.Errorf("longer text is not wider: %v <= %v", long.Width, short.Width)
	}
	if big.Width <= short.Width || big.Height() <= short.Height() {
		t.Errorf("larger size is not larger: %+v vs %+v", big, short)
	}
}

func TestMeasureEmpty(t *testing.T) {
	m, err := Measure("", 12)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if m.Width != 0 {
		t.Errorf("Width = %v, want 0", m.Width)
	}
}

func TestMeasureConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := Measure(strings.Repeat("x", i+1), float64(10+i%3)); err != nil {
				t.Errorf("Measure() error: %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestTTFBase64(t *testing.T) {
	if len(TTF()) == 0 {
		t.Fatal("TTF() is empty")
	}
	if a, b := TTFBase64(), TTFBase64(); a == "" || a != b {
		t.Error("TTFBase64() should be non-empty and stable")
	}
}
