package clipboard

import (
	"errors"
	"testing"

	"github.com/atotto/clipboard"
)

func TestMemoryRoundTrip(t *testing.T) {
	var m Memory
	got, err := m.ReadText()
	if err != nil || got != "" {
		t.Fatalf("empty Memory: got %q, %v", got, err)
	}

	const code = "func add(a, b int) int { return a + b }"
	if err := m.WriteText(code); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if got, err = m.ReadText(); err != nil || got != code {
		t.Errorf("ReadText = %q, %v; want %q", got, err, code)
	}
}

func TestSystemUnsupported(t *testing.T) {
	if !clipboard.Unsupported {
		t.Skip("a clipboard utility is installed")
	}
	if _, err := (System{}).ReadText(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ReadText err = %v, want ErrUnsupported", err)
	}
	if err := (System{}).WriteText("x"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("WriteText err = %v, want ErrUnsupported", err)
	}
}
