package exec

import "testing"

func TestBoundedBuffer(t *testing.T) {
	calls := 0
	buf := newBoundedBuffer(8, func() { calls++ })

	n, err := buf.Write([]byte("12345"))
	if err != nil || n != 5 {
		t.Fatalf("unexpected write result: %d, %v", n, err)
	}

	n, err = buf.Write([]byte("6789"))
	if err != nil || n != 4 {
		t.Fatalf("expected overflowing write to report full length, got: %d, %v", n, err)
	}

	if _, err := buf.Write([]byte("more")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.String() != "12345678" {
		t.Errorf("expected first 8 bytes, got: %q", buf.String())
	}

	if !buf.Overflowed() {
		t.Error("expected overflow flag")
	}

	if calls != 1 {
		t.Errorf("expected overflow hook to run once, got: %d", calls)
	}
}

func TestBoundedBufferExactLimit(t *testing.T) {
	buf := newBoundedBuffer(4, nil)
	_, _ = buf.Write([]byte("abcd"))

	if buf.Overflowed() {
		t.Error("expected no overflow at exactly the limit")
	}
}

func TestBoundedBufferUnlimited(t *testing.T) {
	buf := newBoundedBuffer(0, nil)
	for i := 0; i < 100; i++ {
		_, _ = buf.Write([]byte("0123456789"))
	}

	if len(buf.String()) != 1000 || buf.Overflowed() {
		t.Errorf("expected unbounded buffer, got %d bytes, overflow=%v", len(buf.String()), buf.Overflowed())
	}
}
