package native

import (
	"testing"
	"unsafe"
)

func TestLoadCopiesCodeIntoMapping(t *testing.T) {
	code := []byte{0x90, 0x90, 0xC3} // nop; nop; ret
	exe, err := Load(code)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer exe.Close()

	got := *(*[3]byte)(unsafe.Pointer(exe.Pointer()))
	if got != [3]byte{0x90, 0x90, 0xC3} {
		t.Errorf("mapped bytes = %v, want [144 144 195]", got)
	}
}

func TestLoadRejectsEmptyCode(t *testing.T) {
	if _, err := Load(nil); err == nil {
		t.Fatal("expected an error loading empty code")
	}
}
