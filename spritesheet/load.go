package spritesheet

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// SidecarExt is appended to an image path to locate its metadata file.
const SidecarExt = ".meta"

// Sheet is a sprite sheet image paired with its metadata.
type Sheet struct {
	Path   string
	Format string
	Width  int
	Height int
	Meta   Metadata
}

type codec struct {
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

// Formats are picked by file extension. The TGA decoder accepts any header,
// so content sniffing through image.Decode would misread other formats.
var codecs = map[string]codec{
	"png":  {png.Decode, png.DecodeConfig},
	"bmp":  {bmp.Decode, bmp.DecodeConfig},
	"webp": {webp.Decode, webp.DecodeConfig},
	"tga":  {tga.Decode, tga.DecodeConfig},
}

// Supported reports whether path has an image extension this package reads.
func Supported(path string) bool {
	_, ok := codecs[format(path)]
	return ok
}

func format(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Load reads the sheet at path from the OS filesystem.
func Load(path string) (Sheet, error) {
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadFS reads a sheet from fsys. PNG sheets carry their metadata inline and
// fall back to a sidecar; other formats always need the sidecar.
func LoadFS(fsys fs.FS, name string) (Sheet, error) {
	ext := format(name)
	c, ok := codecs[ext]
	if !ok {
		return Sheet{}, fmt.Errorf("spritesheet: load %s: unsupported format %q", name, ext)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Sheet{}, fmt.Errorf("spritesheet: load %s: %w", name, err)
	}
	cfg, err := c.decodeConfig(bytes.NewReader(data))
	if err != nil {
		return Sheet{}, fmt.Errorf("spritesheet: decode %s: %w", name, err)
	}

	var m Metadata
	if ext == "png" {
		m, err = ReadPNG(bytes.NewReader(data))
		if errors.Is(err, ErrNoMetadata) {
			m, err = readSidecar(fsys, name)
		}
	} else {
		m, err = readSidecar(fsys, name)
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("spritesheet: metadata %s: %w", name, err)
	}

	return Sheet{
		Path:   name,
		Format: ext,
		Width:  cfg.Width,
		Height: cfg.Height,
		Meta:   m,
	}, nil
}

func readSidecar(fsys fs.FS, name string) (Metadata, error) {
	data, err := fs.ReadFile(fsys, name+SidecarExt)
	if errors.Is(err, fs.ErrNotExist) {
		return Metadata{}, ErrNoMetadata
	}
	if err != nil {
		return Metadata{}, err
	}
	return Parse(strings.TrimSpace(string(data)))
}

// WriteSidecar writes m next to the image at path.
func WriteSidecar(path string, m Metadata) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := os.WriteFile(path+SidecarExt, []byte(m.Serialize()+"\n"), 0o644); err != nil {
		return fmt.Errorf("spritesheet: write sidecar %s: %w", path, err)
	}
	return nil
}

// Decode decodes the image at name in fsys, picking the decoder by extension.
func Decode(fsys fs.FS, name string) (image.Image, error) {
	c, ok := codecs[format(name)]
	if !ok {
		return nil, fmt.Errorf("spritesheet: decode %s: unsupported format", name)
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spritesheet: decode %s: %w", name, err)
	}
	defer f.Close()
	img, err := c.decode(f)
	if err != nil {
		return nil, fmt.Errorf("spritesheet: decode %s: %w", name, err)
	}
	return img, nil
}

// Normalize derives the frame size from the sheet dimensions and grid so the
// clips always tile the whole image.
func (s Sheet) Normalize() Metadata {
	m := s.Meta
	if m.NumFrameColumns > 0 && s.Width > 0 {
		m.FrameWidth = float32(s.Width) / float32(m.NumFrameColumns)
	}
	if m.NumFrameRows > 0 && s.Height > 0 {
		m.FrameHeight = float32(s.Height) / float32(m.NumFrameRows)
	}
	return m
}

// Frame returns the source rectangle of frame i in row-major order.
func (s Sheet) Frame(i int) image.Rectangle {
	m := s.Normalize()
	if m.NumFrameColumns < 1 {
		return image.Rectangle{}
	}
	col := i % m.NumFrameColumns
	row := i / m.NumFrameColumns
	x := int(float32(col) * m.FrameWidth)
	y := int(float32(row) * m.FrameHeight)
	return image.Rect(x, y, x+int(m.FrameWidth), y+int(m.FrameHeight))
}
