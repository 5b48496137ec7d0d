package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
	icoTypeIcon   = 1
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Entry is one PNG-compressed image inside an ICO container.
type Entry struct {
	Width  int
	Height int
	PNG    []byte
}

type icoDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type icoDirEntry struct {
	Width       uint8
	Height      uint8
	ColorCount  uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

// WriteICO writes entries as a Vista-style ICO file with PNG payloads.
func WriteICO(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return errors.New("ico: no images")
	}

	var buf bytes.Buffer
	hdr := icoDir{Type: icoTypeIcon, Count: uint16(len(entries))}
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		return err
	}

	offset := uint32(icoHeaderSize + icoEntrySize*len(entries))
	for _, e := range entries {
		if e.Width <= 0 || e.Width > MaxSize || e.Height <= 0 || e.Height > MaxSize {
			return fmt.Errorf("ico: image size %dx%d out of range", e.Width, e.Height)
		}
		de := icoDirEntry{
			Width:       dimByte(e.Width),
			Height:      dimByte(e.Height),
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(len(e.PNG)),
			ImageOffset: offset,
		}
		if err := binary.Write(&buf, binary.LittleEndian, de); err != nil {
			return err
		}
		offset += uint32(len(e.PNG))
	}

	for _, e := range entries {
		buf.Write(e.PNG)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// LargestPNG returns the biggest PNG-compressed entry of an ICO file.
// Legacy BMP entries are skipped.
func LargestPNG(data []byte) (Entry, error) {
	r := bytes.NewReader(data)

	var hdr icoDir
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return Entry{}, fmt.Errorf("ico: reading header: %w", err)
	}
	if hdr.Reserved != 0 || hdr.Type != icoTypeIcon || hdr.Count == 0 {
		return Entry{}, errors.New("ico: not an icon file")
	}

	var best Entry
	found := false
	for i := 0; i < int(hdr.Count); i++ {
		var de icoDirEntry
		if err := binary.Read(r, binary.LittleEndian, &de); err != nil {
			return Entry{}, fmt.Errorf("ico: reading entry %d: %w", i, err)
		}

		start, end := int64(de.ImageOffset), int64(de.ImageOffset)+int64(de.BytesInRes)
		if start < 0 || end > int64(len(data)) || start >= end {
			continue
		}
		payload := data[start:end]
		if !bytes.HasPrefix(payload, pngSignature) {
			continue
		}

		w, h := dimInt(de.Width), dimInt(de.Height)
		if !found || w*h > best.Width*best.Height {
			best = Entry{Width: w, Height: h, PNG: payload}
			found = true
		}
	}

	if !found {
		return Entry{}, errors.New("ico: no PNG images")
	}
	return best, nil
}

// ICO stores 256 as 0.
func dimByte(n int) uint8 {
	if n >= 256 {
		return 0
	}
	return uint8(n)
}

func dimInt(b uint8) int {
	if b == 0 {
		return 256
	}
	return int(b)
}
