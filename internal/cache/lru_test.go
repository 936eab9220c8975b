package cache

import (
	"errors"
	"testing"
)

func TestGetOrBuild_MemoizesAndSkipsErrors(t *testing.T) {
	c := New[string, int](2)
	calls := 0
	build := func() (int, error) { calls++; return 42, nil }

	for i := 0; i < 3; i++ {
		v, err := c.GetOrBuild("a", build)
		if err != nil || v != 42 {
			t.Fatalf("unexpected result %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single build, got %d", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrBuild("b", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("failed builds must not be cached, len=%d", c.Len())
	}
}

func TestNew_EvictsBeyondSize(t *testing.T) {
	c := New[int, int](1)
	_, _ = c.GetOrBuild(1, func() (int, error) { return 1, nil })
	_, _ = c.GetOrBuild(2, func() (int, error) { return 2, nil })
	if c.Len() != 1 {
		t.Fatalf("expected eviction to keep one entry, got %d", c.Len())
	}
}
