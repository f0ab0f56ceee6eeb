package message

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestInfoRespectsQuiet(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	defer func() {
		SetQuiet(false)
		SetNoColor(false)
	}()

	SetQuiet(true)
	Info("hidden %s", "message")
	if buf.Len() != 0 {
		t.Fatalf("expected no output in quiet mode, got %q", buf.String())
	}

	SetQuiet(false)
	Info("visible %s", "message")
	if got := buf.String(); !strings.Contains(got, "[*] visible message") {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestWarningIgnoresQuietButNotSilent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	defer func() {
		SetQuiet(false)
		SetSilent(false)
		SetNoColor(false)
	}()

	SetQuiet(true)
	Warning("still shown")
	if got := buf.String(); !strings.Contains(got, "[!] still shown") {
		t.Fatalf("warning should print in quiet mode, got %q", got)
	}

	buf.Reset()
	SetSilent(true)
	Warning("now hidden")
	if buf.Len() != 0 {
		t.Fatalf("warning should not print in silent mode, got %q", buf.String())
	}
}

type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// Catches unsynchronized reads of the quiet/silent switches under -race.
func TestConcurrentToggleAndPrint(t *testing.T) {
	SetOutput(&syncWriter{})
	SetNoColor(true)
	defer func() {
		SetQuiet(false)
		SetNoColor(false)
	}()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetQuiet(true)
			SetQuiet(false)
		}()
		go func() {
			defer wg.Done()
			Info("tick")
			Warning("tock")
		}()
	}
	wg.Wait()
}
