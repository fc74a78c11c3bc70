package riff

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildSimpleVP8LFile(t *testing.T, w, h int, alpha bool) []byte {
	t.Helper()
	bits := uint32(w-1) | uint32(h-1)<<14
	if alpha {
		bits |= 1 << 28
	}
	payload := make([]byte, 5)
	payload[0] = vp8LMagicByte
	binary.LittleEndian.PutUint32(payload[1:5], bits)

	var buf bytes.Buffer
	buf.Write([]byte("RIFF"))
	binary.Write(&buf, binary.LittleEndian, uint32(4+8+len(payload)))
	buf.Write([]byte("WEBP"))
	buf.Write([]byte("VP8L"))
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func TestParseSimpleVP8L(t *testing.T) {
	data := buildSimpleVP8LFile(t, 16, 24, true)

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Features.Width != 16 || p.Features.Height != 24 {
		t.Fatalf("dims = %dx%d, want 16x24", p.Features.Width, p.Features.Height)
	}
	if !p.Features.HasAlpha {
		t.Fatal("alpha bit not reported")
	}
	if len(p.Frames) != 1 || !p.Frames[0].IsLossless {
		t.Fatalf("frames = %+v, want one lossless frame", p.Frames)
	}
}

func TestParseRejectsNonRIFF(t *testing.T) {
	if _, err := Parse([]byte("not a riff file at all")); err == nil {
		t.Fatal("expected an error for non-RIFF data")
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	data := buildSimpleVP8LFile(t, 8, 8, false)
	if _, err := Parse(data[:len(data)-2]); err == nil {
		t.Fatal("expected an error for truncated chunk data")
	}
}

func TestWrapSimpleProducesValidContainer(t *testing.T) {
	payload := []byte{vp8LMagicByte, 0x00, 0x00, 0x00, 0x10}
	wrapped := WrapSimple(payload, true)

	p, err := Parse(wrapped)
	if err != nil {
		t.Fatalf("Parse(WrapSimple(...)): %v", err)
	}
	if len(p.Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(p.Frames))
	}
}
