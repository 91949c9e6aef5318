package cstr

import (
	"runtime"
	"testing"
)

func TestWideUnit(t *testing.T) {
	want := 32
	if runtime.GOOS == "windows" {
		want = 16
	}
	if got := Width[WideUnit](); got != want {
		t.Errorf("Width[WideUnit] = %d, want %d", got, want)
	}
}

func TestOSString(t *testing.T) {
	w, err := FromOSString("héllo")
	if err != nil {
		t.Fatalf("FromOSString failed: %v", err)
	}
	if got := OSString(w.View()); got != "héllo" {
		t.Errorf("OSString = %q", got)
	}
	if _, err := FromOSString("a\x00b"); err == nil {
		t.Error("FromOSString should reject NUL")
	}
}

func TestWideAliases(t *testing.T) {
	var s StaticWide[[8]WideUnit]
	s.WriteString("wide")
	var v WideCStr = s.View()
	if !v.Equal(LitOwned[WideUnit]("wide")) {
		t.Errorf("View = %q", v.String())
	}
}
