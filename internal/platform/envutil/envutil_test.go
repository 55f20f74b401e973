package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 42 ")
	if got := Int("ENVUTIL_INT", 7); got != 42 {
		t.Fatalf("Int=%d, want 42", got)
	}
	t.Setenv("ENVUTIL_INT", "nope")
	if got := Int("ENVUTIL_INT", 7); got != 7 {
		t.Fatalf("Int(invalid)=%d, want default 7", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"on": true, "YES": true, "0": false, "off": false}
	for raw, want := range cases {
		t.Setenv("ENVUTIL_BOOL", raw)
		if got := Bool("ENVUTIL_BOOL", !want); got != want {
			t.Fatalf("Bool(%q)=%v, want %v", raw, got, want)
		}
	}
	t.Setenv("ENVUTIL_BOOL", "maybe")
	if got := Bool("ENVUTIL_BOOL", true); !got {
		t.Fatalf("Bool(maybe) should keep default")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_DUR", "1m30s")
	if got := Duration("ENVUTIL_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration=%v, want 1m30s", got)
	}
	t.Setenv("ENVUTIL_DUR", "15")
	if got := Duration("ENVUTIL_DUR", time.Second); got != 15*time.Second {
		t.Fatalf("Duration(bare seconds)=%v, want 15s", got)
	}
	t.Setenv("ENVUTIL_DUR", "")
	if got := Duration("ENVUTIL_DUR", time.Second); got != time.Second {
		t.Fatalf("Duration(empty)=%v, want default", got)
	}
}

func TestString(t *testing.T) {
	t.Setenv("ENVUTIL_STR", "  value ")
	if got := String("ENVUTIL_STR", "def"); got != "value" {
		t.Fatalf("String=%q, want value", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	if got := Float("ENVUTIL_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float=%v, want 0.25", got)
	}
	t.Setenv("ENVUTIL_FLOAT", "half")
	if got := Float("ENVUTIL_FLOAT", 1); got != 1 {
		t.Fatalf("Float(invalid)=%v, want default", got)
	}
}
