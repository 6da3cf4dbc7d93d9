// Package export writes the frames of a sprite sheet as individual WebP
// images.
package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/milk9111/spriteshell/spritesheet"
	"golang.org/x/image/draw"
)

// Config controls an export run.
type Config struct {
	OutputDir string
	// Scale enlarges each frame with nearest-neighbour sampling. Values below
	// one are treated as one.
	Scale   int
	Workers int
	// Progress, when set, is called after each frame with the number done.
	Progress func(done, total int)
}

// Result is the outcome for one frame.
type Result struct {
	Frame int
	Path  string
	Err   error
}

// Name is the file name used for frame i of sheet m.
func Name(m spritesheet.Metadata, i int) string {
	return fmt.Sprintf("%s_%s_%03d.webp", m.ModelName, m.AnimationName, i)
}

// Run crops every frame of sheet out of img and encodes it using a pool of
// workers. Results are indexed by frame.
func Run(cfg Config, sheet spritesheet.Sheet, img image.Image) []Result {
	total := sheet.Meta.NumFrames
	results := make([]Result, total)
	if total == 0 {
		return results
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > total {
		workers = total
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		for i := range results {
			results[i] = Result{Frame: i, Err: err}
		}
		return results
	}

	var processed atomic.Int64
	frames := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range frames {
				results[i] = exportFrame(cfg, sheet, img, i)
				n := processed.Add(1)
				if cfg.Progress != nil {
					cfg.Progress(int(n), total)
				}
			}
		}()
	}

	for i := 0; i < total; i++ {
		frames <- i
	}
	close(frames)
	wg.Wait()

	return results
}

func exportFrame(cfg Config, sheet spritesheet.Sheet, img image.Image, i int) Result {
	r := sheet.Frame(i).Add(img.Bounds().Min)
	if !r.In(img.Bounds()) {
		return Result{Frame: i, Err: fmt.Errorf("export: frame %d %v outside image %v", i, r, img.Bounds())}
	}

	scale := max(cfg.Scale, 1)
	frame := image.NewNRGBA(image.Rect(0, 0, r.Dx()*scale, r.Dy()*scale))
	draw.NearestNeighbor.Scale(frame, frame.Bounds(), img, r, draw.Src, nil)

	path := filepath.Join(cfg.OutputDir, Name(sheet.Meta, i))
	f, err := os.Create(path)
	if err != nil {
		return Result{Frame: i, Path: path, Err: err}
	}
	defer f.Close()

	if err := nativewebp.Encode(f, frame, nil); err != nil {
		return Result{Frame: i, Path: path, Err: fmt.Errorf("export: webp encode: %w", err)}
	}
	return Result{Frame: i, Path: path}
}

// Summary counts failures in results.
func Summary(results []Result, elapsed time.Duration) string {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return fmt.Sprintf("%d frames, %d failed, %.2fs", len(results), failed, elapsed.Seconds())
}
