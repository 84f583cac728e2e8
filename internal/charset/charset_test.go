package charset

import (
	"bytes"
	"testing"
)

func TestDecode_StripsBOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Presenter,Title")...)
	out, err := Decode(in, "utf-8")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(out) != "Presenter,Title" {
		t.Errorf("Expected BOM to be stripped, got %q", out)
	}
}

func TestDecode_Latin1(t *testing.T) {
	// "café" in ISO-8859-1
	in := []byte{'c', 'a', 'f', 0xE9}
	out, err := Decode(in, "latin1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(out) != "café" {
		t.Errorf("Expected café, got %q", out)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	enc, err := Encode([]byte("café"), "windows-1252")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bytes.Equal(enc, []byte{'c', 'a', 'f', 0xE9}) {
		t.Errorf("unexpected encoding: % x", enc)
	}

	dec, err := Decode(enc, "windows-1252")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(dec) != "café" {
		t.Errorf("Expected café, got %q", dec)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := Lookup("klingon-8"); err == nil {
		t.Error("Expected error for unknown encoding")
	}
}
