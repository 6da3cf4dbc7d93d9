package spritesheet

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"unicode/utf8"
)

// Keyword is the PNG text chunk keyword holding the metadata record.
const Keyword = "Description"

const maxTextChunk = 1 << 20

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

type chunk struct {
	typ  string
	data []byte
}

// ReadPNG scans a PNG stream for the metadata text chunk. tEXt, zTXt and iTXt
// chunks are recognised. Image data is skipped, not decoded.
func ReadPNG(r io.Reader) (Metadata, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return Metadata{}, fmt.Errorf("spritesheet: read png signature: %w", err)
	}
	if !bytes.Equal(sig[:], pngSignature) {
		return Metadata{}, errors.New("spritesheet: not a png")
	}

	for {
		c, err := readChunk(r, func(typ string) bool { return isTextChunk(typ) })
		if err != nil {
			return Metadata{}, err
		}
		if c.typ == "IEND" {
			return Metadata{}, ErrNoMetadata
		}
		if !isTextChunk(c.typ) {
			continue
		}
		keyword, text, err := decodeText(c)
		if err != nil {
			return Metadata{}, err
		}
		if keyword == Keyword {
			return Parse(text)
		}
	}
}

// WritePNG encodes img as PNG with m embedded in a text chunk.
func WritePNG(w io.Writer, img image.Image, m Metadata) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("spritesheet: encode png: %w", err)
	}
	return Stamp(w, buf.Bytes(), m)
}

// Stamp copies the PNG in src to w, replacing any existing metadata chunk
// with m. The new chunk follows IHDR.
func Stamp(w io.Writer, src []byte, m Metadata) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r := bytes.NewReader(src)
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil || !bytes.Equal(sig[:], pngSignature) {
		return errors.New("spritesheet: stamp: not a png")
	}
	if _, err := w.Write(pngSignature); err != nil {
		return err
	}

	for {
		c, err := readChunk(r, func(string) bool { return true })
		if err != nil {
			return fmt.Errorf("spritesheet: stamp: %w", err)
		}
		if isTextChunk(c.typ) {
			if keyword, _, err := decodeText(c); err == nil && keyword == Keyword {
				continue
			}
		}
		if err := writeChunk(w, c); err != nil {
			return err
		}
		if c.typ == "IHDR" {
			if err := writeChunk(w, encodeText(Keyword, m.Serialize())); err != nil {
				return err
			}
		}
		if c.typ == "IEND" {
			return nil
		}
	}
}

// readChunk reads one chunk. Payloads are only kept when keep reports true
// for the chunk type; others are skipped.
func readChunk(r io.Reader, keep func(typ string) bool) (chunk, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return chunk{}, fmt.Errorf("spritesheet: png missing IEND: %w", io.ErrUnexpectedEOF)
		}
		return chunk{}, fmt.Errorf("spritesheet: read chunk header: %w", err)
	}
	n := binary.BigEndian.Uint32(hdr[:4])
	typ := string(hdr[4:8])
	if n > 0x7fffffff {
		return chunk{}, fmt.Errorf("spritesheet: chunk %s length %d", typ, n)
	}

	if !keep(typ) && typ != "IEND" {
		if _, err := io.CopyN(io.Discard, r, int64(n)+4); err != nil {
			return chunk{}, fmt.Errorf("spritesheet: skip chunk %s: %w", typ, err)
		}
		return chunk{typ: typ}, nil
	}
	if isTextChunk(typ) && n > maxTextChunk {
		return chunk{}, fmt.Errorf("spritesheet: text chunk of %d bytes", n)
	}

	// the buffer grows with the bytes actually read, so a forged length
	// cannot force a large allocation
	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, r, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return chunk{}, fmt.Errorf("spritesheet: read chunk %s: %w", typ, err)
	}
	data := payload.Bytes()
	var crc [4]byte
	if _, err := io.ReadFull(r, crc[:]); err != nil {
		return chunk{}, fmt.Errorf("spritesheet: read chunk %s crc: %w", typ, err)
	}
	h := crc32.NewIEEE()
	h.Write(hdr[4:8])
	h.Write(data)
	if h.Sum32() != binary.BigEndian.Uint32(crc[:]) {
		return chunk{}, fmt.Errorf("spritesheet: chunk %s crc mismatch", typ)
	}
	return chunk{typ: typ, data: data}, nil
}

func writeChunk(w io.Writer, c chunk) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(c.data)))
	copy(hdr[4:], c.typ)
	h := crc32.NewIEEE()
	h.Write(hdr[4:8])
	h.Write(c.data)
	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], h.Sum32())

	for _, b := range [][]byte{hdr[:], c.data, crc[:]} {
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("spritesheet: write chunk %s: %w", c.typ, err)
		}
	}
	return nil
}

func isTextChunk(typ string) bool {
	return typ == "tEXt" || typ == "zTXt" || typ == "iTXt"
}

// encodeText uses tEXt for Latin-1 text and iTXt otherwise.
func encodeText(keyword, text string) chunk {
	if latin1(text) {
		data := make([]byte, 0, len(keyword)+1+len(text))
		data = append(data, keyword...)
		data = append(data, 0)
		for _, r := range text {
			data = append(data, byte(r))
		}
		return chunk{typ: "tEXt", data: data}
	}

	data := make([]byte, 0, len(keyword)+5+len(text))
	data = append(data, keyword...)
	// null, uncompressed, method 0, empty language tag, empty translated keyword
	data = append(data, 0, 0, 0, 0, 0)
	data = append(data, text...)
	return chunk{typ: "iTXt", data: data}
}

func latin1(s string) bool {
	for _, r := range s {
		if r > 0xff {
			return false
		}
	}
	return true
}

func decodeText(c chunk) (keyword, text string, err error) {
	i := bytes.IndexByte(c.data, 0)
	if i < 0 {
		return "", "", fmt.Errorf("spritesheet: %s chunk without keyword", c.typ)
	}
	keyword = string(c.data[:i])
	rest := c.data[i+1:]

	switch c.typ {
	case "tEXt":
		return keyword, fromLatin1(rest), nil
	case "zTXt":
		if len(rest) < 1 {
			return "", "", fmt.Errorf("spritesheet: short zTXt chunk")
		}
		raw, err := inflate(rest[1:])
		if err != nil {
			return "", "", err
		}
		return keyword, fromLatin1(raw), nil
	default:
		if len(rest) < 2 {
			return "", "", fmt.Errorf("spritesheet: short iTXt chunk")
		}
		compressed := rest[0] == 1
		rest = rest[2:]
		for skip := 0; skip < 2; skip++ {
			j := bytes.IndexByte(rest, 0)
			if j < 0 {
				return "", "", fmt.Errorf("spritesheet: truncated iTXt chunk")
			}
			rest = rest[j+1:]
		}
		if compressed {
			if rest, err = inflate(rest); err != nil {
				return "", "", err
			}
		}
		if !utf8.Valid(rest) {
			return "", "", fmt.Errorf("spritesheet: iTXt text is not utf-8")
		}
		return keyword, string(rest), nil
	}
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("spritesheet: inflate text: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, maxTextChunk))
	if err != nil {
		return nil, fmt.Errorf("spritesheet: inflate text: %w", err)
	}
	return out, nil
}

func fromLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
