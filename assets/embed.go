package assets

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriteshell/spritesheet"
)

// SheetDir is the embedded directory holding the bundled sprite sheets.
const SheetDir = "sheets"

//go:embed sheets
var assetsFS embed.FS

// FS exposes the embedded asset tree.
func FS() fs.FS {
	return assetsFS
}

// Sheets exposes the embedded sheet directory as its own root.
func Sheets() fs.FS {
	sub, err := fs.Sub(assetsFS, SheetDir)
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// LoadImage decodes an embedded image into an *ebiten.Image.
func LoadImage(path string) (*ebiten.Image, error) {
	img, err := spritesheet.Decode(assetsFS, cleanAssetPath(path))
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return SheetDir + "/" + filepath.Base(path)
	}
	return strings.TrimPrefix(s, "assets/")
}
