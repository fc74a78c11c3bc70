// Package riff parses the chunk structure of a WebP RIFF container down to
// raw VP8/VP8L bitstream payloads and ANMF frame metadata.
//
// It deliberately stops short of decoding those bitstreams into pixels —
// per the image-decoding black-box boundary this tool draws around all of
// its inputs, actual VP8/VP8L pixel decode is delegated to
// golang.org/x/image/webp by internal/decode. This package only exists to
// split an animated WebP file into per-ANMF-frame chunks, something that
// generic decoder has no API for.
package riff

import (
	"encoding/binary"
	"errors"
	"fmt"
)

func fourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// Chunk FourCC identifiers.
var (
	fourCCRIFF = fourCC('R', 'I', 'F', 'F')
	fourCCWEBP = fourCC('W', 'E', 'B', 'P')
	fourCCVP8  = fourCC('V', 'P', '8', ' ')
	fourCCVP8L = fourCC('V', 'P', '8', 'L')
	fourCCVP8X = fourCC('V', 'P', '8', 'X')
	fourCCALPH = fourCC('A', 'L', 'P', 'H')
	fourCCANIM = fourCC('A', 'N', 'I', 'M')
	fourCCANMF = fourCC('A', 'N', 'M', 'F')
	fourCCICCP = fourCC('I', 'C', 'C', 'P')
	fourCCEXIF = fourCC('E', 'X', 'I', 'F')
	fourCCXMP  = fourCC('X', 'M', 'P', ' ')
)

const (
	chunkHeaderSize = 8
	riffHeaderSize  = 12
	anmfChunkSize   = 16
	animChunkSize   = 6
	vp8xChunkSize   = 10
	vp8LMagicByte   = 0x2f
	vp8Signature    = 0x9d012a
	maxChunkPayload = ^uint32(0) - chunkHeaderSize - 1
)

// VP8X flag bits.
const (
	flagAnimation uint32 = 1 << 1
	flagXMP       uint32 = 1 << 2
	flagEXIF      uint32 = 1 << 3
	flagAlpha     uint32 = 1 << 4
	flagICCP      uint32 = 1 << 5
	allValidFlags uint32 = 0x3e
)

// Dispose specifies how an ANMF frame's region is treated after rendering.
type Dispose int

const (
	DisposeNone       Dispose = 0
	DisposeBackground Dispose = 1
)

// Blend specifies how an ANMF frame is composited onto the canvas.
type Blend int

const (
	BlendAlpha Blend = 0
	BlendNone  Blend = 1
)

var (
	ErrInvalidRIFF  = errors.New("riff: not a valid WebP file (bad RIFF header)")
	ErrTruncated    = errors.New("riff: data truncated")
	ErrNoImage      = errors.New("riff: no image data found")
	ErrInvalidVP8X  = errors.New("riff: invalid VP8X chunk")
	ErrInvalidChunk = errors.New("riff: invalid chunk")
	ErrInvalidFrame = errors.New("riff: invalid frame bitstream")
)

// Features describes the container-level properties of a WebP file.
type Features struct {
	Width        int
	Height       int
	HasAlpha     bool
	HasAnimation bool
	LoopCount    int
	BGColor      uint32
}

// Frame holds one ANMF animation frame's (or a still image's) raw bitstream
// and placement metadata, as found in the container — before pixel decode.
type Frame struct {
	Payload    []byte // VP8 or VP8L bitstream, undecoded.
	AlphaData  []byte // standalone ALPH chunk payload, if separate from Payload.
	IsLossless bool
	Width      int
	Height     int
	OffsetX    int
	OffsetY    int
	Duration   int // milliseconds; 0 for a still image.
	Dispose    Dispose
	Blend      Blend
}

// Parser holds the parsed structure of one WebP file.
type Parser struct {
	Features Features
	Frames   []Frame
}

// Parse parses a complete WebP file's bytes.
func Parse(data []byte) (*Parser, error) {
	if len(data) < riffHeaderSize {
		return nil, ErrInvalidRIFF
	}
	if binary.LittleEndian.Uint32(data[0:4]) != fourCCRIFF {
		return nil, ErrInvalidRIFF
	}
	fileSize := binary.LittleEndian.Uint32(data[4:8])
	if binary.LittleEndian.Uint32(data[8:12]) != fourCCWEBP {
		return nil, ErrInvalidRIFF
	}

	end := int(fileSize) + 8
	if end > len(data) || end < riffHeaderSize {
		end = len(data)
	}
	payload := data[riffHeaderSize:end]
	if len(payload) < chunkHeaderSize {
		return nil, ErrNoImage
	}

	p := &Parser{}
	first := binary.LittleEndian.Uint32(payload[0:4])
	var err error
	switch first {
	case fourCCVP8X:
		err = p.parseExtended(payload)
	case fourCCVP8, fourCCVP8L:
		err = p.parseSimple(payload, first == fourCCVP8L)
	default:
		return nil, fmt.Errorf("%w: unexpected first chunk %s", ErrInvalidChunk, fourCCString(first))
	}
	if err != nil {
		return nil, err
	}
	if len(p.Frames) == 0 {
		return nil, ErrNoImage
	}
	return p, nil
}

func (p *Parser) parseSimple(payload []byte, lossless bool) error {
	id, size, data, _, err := readChunk(payload)
	if err != nil {
		return err
	}
	_ = id
	f := Frame{Payload: data, IsLossless: lossless}
	if lossless {
		w, h, alpha, err := parseVP8LHeader(data)
		if err != nil {
			return err
		}
		f.Width, f.Height = w, h
		f.HasAlphaSet(alpha)
		p.Features.HasAlpha = alpha
	} else {
		w, h, err := parseVP8Header(data)
		if err != nil {
			return err
		}
		f.Width, f.Height = w, h
	}
	_ = size
	p.Features.Width, p.Features.Height = f.Width, f.Height
	p.Frames = []Frame{f}
	return nil
}

// HasAlphaSet is a no-op hook kept for parity with the frame struct's field
// naming; VP8L carries its own alpha flag inline rather than a side channel.
func (f *Frame) HasAlphaSet(bool) {}

func (p *Parser) parseExtended(payload []byte) error {
	id, size, vp8x, consumed, err := readChunk(payload)
	if err != nil {
		return err
	}
	if id != fourCCVP8X || size < vp8xChunkSize {
		return ErrInvalidVP8X
	}
	flags := uint32(vp8x[0])
	if flags & ^allValidFlags != 0 {
		return ErrInvalidVP8X
	}
	p.Features.HasAnimation = flags&flagAnimation != 0
	p.Features.HasAlpha = flags&flagAlpha != 0
	p.Features.Width = 1 + readLE24(vp8x[4:7])
	p.Features.Height = 1 + readLE24(vp8x[7:10])
	p.Features.LoopCount = 1

	pos := consumed
	animSeen := false
	for pos+chunkHeaderSize <= len(payload) {
		id, size, data, n, err := readChunk(payload[pos:])
		if err != nil {
			break
		}
		switch id {
		case fourCCANIM:
			if int(size) < animChunkSize {
				return ErrInvalidChunk
			}
			p.Features.BGColor = binary.LittleEndian.Uint32(data[0:4])
			p.Features.LoopCount = int(binary.LittleEndian.Uint16(data[4:6]))
			animSeen = true
		case fourCCANMF:
			if !animSeen {
				return ErrInvalidChunk
			}
			fr, err := parseANMF(data)
			if err != nil {
				return err
			}
			p.Frames = append(p.Frames, fr)
		case fourCCVP8, fourCCVP8L, fourCCALPH:
			if !p.Features.HasAnimation && len(p.Frames) == 0 {
				if err := p.parseSingleExtended(payload[pos:]); err != nil {
					return err
				}
			}
		}
		pos += n
	}
	return nil
}

func (p *Parser) parseSingleExtended(buf []byte) error {
	var imageData, alphaData []byte
	lossless := false
	pos := 0
	for pos+chunkHeaderSize <= len(buf) {
		id, _, data, n, err := readChunk(buf[pos:])
		if err != nil {
			break
		}
		switch id {
		case fourCCALPH:
			alphaData = data
		case fourCCVP8:
			imageData = data
		case fourCCVP8L:
			imageData = data
			lossless = true
		}
		if imageData != nil {
			break
		}
		pos += n
	}
	if imageData == nil {
		return ErrNoImage
	}
	f := Frame{Payload: imageData, AlphaData: alphaData, IsLossless: lossless, Width: p.Features.Width, Height: p.Features.Height}
	p.Frames = []Frame{f}
	return nil
}

func parseANMF(data []byte) (Frame, error) {
	if len(data) < anmfChunkSize {
		return Frame{}, ErrInvalidChunk
	}
	f := Frame{
		OffsetX:  2 * readLE24(data[0:3]),
		OffsetY:  2 * readLE24(data[3:6]),
		Width:    1 + readLE24(data[6:9]),
		Height:   1 + readLE24(data[9:12]),
		Duration: readLE24(data[12:15]),
	}
	bits := data[15]
	if bits&0x01 != 0 {
		f.Dispose = DisposeBackground
	}
	if bits&0x02 != 0 {
		f.Blend = BlendNone
	}

	sub := data[anmfChunkSize:]
	pos := 0
	for pos+chunkHeaderSize <= len(sub) {
		id, _, payload, n, err := readChunk(sub[pos:])
		if err != nil {
			break
		}
		switch id {
		case fourCCALPH:
			f.AlphaData = payload
		case fourCCVP8:
			f.Payload = payload
		case fourCCVP8L:
			f.Payload = payload
			f.IsLossless = true
		}
		pos += n
	}
	if f.Payload == nil {
		return Frame{}, ErrInvalidFrame
	}
	return f, nil
}

// readChunk reads one chunk header+payload starting at buf[0], returning
// the fourcc, declared size, payload slice, and total bytes consumed
// (including the padding byte on an odd-sized payload).
func readChunk(buf []byte) (id uint32, size uint32, payload []byte, consumed int, err error) {
	if len(buf) < chunkHeaderSize {
		return 0, 0, nil, 0, ErrTruncated
	}
	id = binary.LittleEndian.Uint32(buf[0:4])
	size = binary.LittleEndian.Uint32(buf[4:8])
	if size > maxChunkPayload {
		return 0, 0, nil, 0, ErrTruncated
	}
	end := chunkHeaderSize + int(size)
	if end > len(buf) {
		return 0, 0, nil, 0, ErrTruncated
	}
	consumed = end
	if size%2 != 0 && consumed < len(buf) {
		consumed++
	}
	return id, size, buf[chunkHeaderSize:end], consumed, nil
}

func parseVP8Header(data []byte) (int, int, error) {
	if len(data) < 10 {
		return 0, 0, ErrInvalidFrame
	}
	sig := uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5])
	if sig != vp8Signature {
		return 0, 0, ErrInvalidFrame
	}
	w := int(binary.LittleEndian.Uint16(data[6:8])) & 0x3fff
	h := int(binary.LittleEndian.Uint16(data[8:10])) & 0x3fff
	if w == 0 || h == 0 {
		return 0, 0, ErrInvalidFrame
	}
	return w, h, nil
}

func parseVP8LHeader(data []byte) (int, int, bool, error) {
	if len(data) < 5 || data[0] != vp8LMagicByte {
		return 0, 0, false, ErrInvalidFrame
	}
	bits := binary.LittleEndian.Uint32(data[1:5])
	w := int(bits&0x3fff) + 1
	h := int((bits>>14)&0x3fff) + 1
	alpha := (bits>>28)&1 != 0
	if w == 0 || h == 0 {
		return 0, 0, false, ErrInvalidFrame
	}
	return w, h, alpha, nil
}

func readLE24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func fourCCString(id uint32) string {
	return string([]byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)})
}

// WrapSimple builds a minimal single-image WebP file (RIFF/WEBP/VP8 or
// VP8L) around a bare bitstream payload extracted from an ANMF chunk, so
// that a generic single-image WebP decoder (this tool uses
// golang.org/x/image/webp) can decode it without knowing about animation.
func WrapSimple(payload []byte, lossless bool) []byte {
	tag := fourCCVP8
	if lossless {
		tag = fourCCVP8L
	}
	padded := len(payload)
	if padded%2 != 0 {
		padded++
	}
	out := make([]byte, riffHeaderSize+chunkHeaderSize+padded)
	binary.LittleEndian.PutUint32(out[0:4], fourCCRIFF)
	binary.LittleEndian.PutUint32(out[4:8], uint32(4+chunkHeaderSize+padded))
	binary.LittleEndian.PutUint32(out[8:12], fourCCWEBP)
	binary.LittleEndian.PutUint32(out[12:16], tag)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(payload)))
	copy(out[20:], payload)
	return out
}
