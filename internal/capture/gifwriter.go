package capture

import (
	"bytes"
	"compress/lzw"
	"encoding/binary"
	"image"
	"image/color"
	"io"
)

// GIF block markers.
const (
	gifExtension  = 0x21
	gifImageBlock = 0x2C
	gifTrailer    = 0x3B

	gifGraphicControl = 0xF9
	gifApplication    = 0xFF

	// litWidth is the LZW minimum code size for a 256-entry palette.
	litWidth = 8
)

// writeGIFHeader writes the signature, the logical screen with a global
// color table, and a looping extension.
func writeGIFHeader(w *bytes.Buffer, width, height int, pal color.Palette) {
	w.WriteString("GIF89a")
	writeUint16(w, width)
	writeUint16(w, height)
	// Global table present, 8-bit color resolution, 256 entries
	w.WriteByte(0xF7)
	w.WriteByte(0) // Background index
	w.WriteByte(0) // Aspect ratio

	for i := 0; i < 256; i++ {
		var r, g, b uint32
		if i < len(pal) {
			r, g, b, _ = pal[i].RGBA()
		}
		w.Write([]byte{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
	}

	w.Write([]byte{gifExtension, gifApplication, 0x0B})
	w.WriteString("NETSCAPE2.0")
	w.Write([]byte{0x03, 0x01, 0x00, 0x00, 0x00}) // Loop forever
}

// writeGIFFrame appends one full-screen frame using the global palette.
// delay is in hundredths of a second.
func writeGIFFrame(w *bytes.Buffer, frame *image.Paletted, delay int) error {
	b := frame.Bounds()

	w.Write([]byte{gifExtension, gifGraphicControl, 0x04, 0x00})
	writeUint16(w, delay)
	w.Write([]byte{0x00, 0x00})

	w.WriteByte(gifImageBlock)
	writeUint16(w, 0)
	writeUint16(w, 0)
	writeUint16(w, b.Dx())
	writeUint16(w, b.Dy())
	w.WriteByte(0) // No local table, not interlaced

	w.WriteByte(litWidth)
	bw := &blockWriter{w: w}
	lz := lzw.NewWriter(bw, lzw.LSB, litWidth)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := frame.Pix[(y-b.Min.Y)*frame.Stride:]
		if _, err := lz.Write(row[:b.Dx()]); err != nil {
			return err
		}
	}
	if err := lz.Close(); err != nil {
		return err
	}
	bw.flush()
	w.WriteByte(0x00) // Block terminator
	return nil
}

func writeUint16(w *bytes.Buffer, v int) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	w.Write(b[:])
}

// blockWriter splits LZW output into GIF data sub-blocks of at most 255
// bytes.
type blockWriter struct {
	w   *bytes.Buffer
	buf [255]byte
	n   int
}

func (b *blockWriter) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		c := copy(b.buf[b.n:], p)
		b.n += c
		p = p[c:]
		if b.n == len(b.buf) {
			b.flush()
		}
	}
	return total, nil
}

func (b *blockWriter) flush() {
	if b.n == 0 {
		return
	}
	b.w.WriteByte(uint8(b.n))
	b.w.Write(b.buf[:b.n])
	b.n = 0
}

var _ io.Writer = (*blockWriter)(nil)
