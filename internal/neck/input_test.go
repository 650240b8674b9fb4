package neck

import "testing"

func TestSequenceCodec_RoundTrip(t *testing.T) {
	seq := []Input{InputAny, InputTrue, InputTrue, InputFalse, InputAny}
	s := EncodeSequence(seq)
	if s != ".JJ-." {
		t.Fatalf("expected .JJ-., got %q", s)
	}
	back, err := DecodeSequence(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range seq {
		if back[i] != seq[i] {
			t.Errorf("position %d: expected %v, got %v", i, seq[i], back[i])
		}
	}
}

func TestDecodeSequence_UnknownSymbol(t *testing.T) {
	if _, err := DecodeSequence(".JX"); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestInput_Value(t *testing.T) {
	if _, ok := InputAny.Value(); ok {
		t.Error("expected no demand for InputAny")
	}
	if v, ok := Require(true).Value(); !ok || !v {
		t.Error("expected Require(true) to demand true")
	}
	if v, ok := Require(false).Value(); !ok || v {
		t.Error("expected Require(false) to demand false")
	}
}
