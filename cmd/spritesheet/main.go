// Command spritesheet inspects, stamps and exports sprite sheets.
//
//	spritesheet inspect sheet.png
//	spritesheet stamp -meta 'hero|run|32|32|...' -o out.png sheet.png
//	spritesheet stamp -sidecar -o out.png sheet.tga
//	spritesheet export -o frames/ -scale 4 sheet.png
//	spritesheet play -for 5s sheet.png
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/export"
	"github.com/milk9111/spriteshell/sprite"
	"github.com/milk9111/spriteshell/spritesheet"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: spritesheet <inspect|stamp|export|play> [flags] <sheet>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "inspect":
		err = inspect(os.Stdout, os.Args[2:])
	case "stamp":
		err = stamp(os.Args[2:])
	case "export":
		err = exportFrames(os.Args[2:])
	case "play":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = play(ctx, os.Stdout, os.Args[2:])
		stop()
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func inspect(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	raw := fs.Bool("raw", false, "print only the serialized record")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("inspect needs one sheet path")
	}

	sheet, err := spritesheet.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	m := sheet.Meta
	if *raw {
		fmt.Fprintln(w, m.Serialize())
		return nil
	}

	fmt.Fprintf(w, "%s (%s, %dx%d)\n", m.Key(), sheet.Format, sheet.Width, sheet.Height)
	fmt.Fprintf(w, "  frames     %d in %dx%d grid of %gx%g\n", m.NumFrames, m.NumFrameColumns, m.NumFrameRows, m.FrameWidth, m.FrameHeight)
	fmt.Fprintf(w, "  timing     %v per frame, %d fps\n", m.FrameInterval(), m.FrameRate)
	fmt.Fprintf(w, "  origin     (%g, %g)\n", m.OriginX, m.OriginY)
	fmt.Fprintf(w, "  projectile (%g, %g)\n", m.ProjectileTargetX, m.ProjectileTargetY)
	for _, ef := range m.EffectFrames {
		fmt.Fprintf(w, "  effect     frame %d at (%g, %g) %v\n", ef.Index, ef.SourceX, ef.SourceY, sheet.Frame(ef.Index))
	}
	if err := m.Validate(); err != nil {
		fmt.Fprintf(w, "  invalid: %v\n", err)
	}
	return nil
}

func stamp(args []string) error {
	fs := flag.NewFlagSet("stamp", flag.ExitOnError)
	record := fs.String("meta", "", "metadata record to embed")
	sidecar := fs.Bool("sidecar", false, "embed the metadata from the sheet's .meta sidecar")
	out := fs.String("o", "", "output PNG (default: overwrite the input when it is a PNG)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("stamp needs one sheet path")
	}
	in := fs.Arg(0)

	var (
		m   spritesheet.Metadata
		err error
	)
	switch {
	case *record != "":
		m, err = spritesheet.Parse(*record)
	case *sidecar:
		var sheet spritesheet.Sheet
		sheet, err = spritesheet.Load(in)
		m = sheet.Meta
	default:
		return errors.New("stamp needs -meta or -sidecar")
	}
	if err != nil {
		return err
	}

	target := *out
	isPNG := strings.EqualFold(filepath.Ext(in), ".png")
	if target == "" {
		if !isPNG {
			return errors.New("stamp needs -o for non-PNG input")
		}
		target = in
	}

	var buf bytes.Buffer
	if isPNG {
		src, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		if err := spritesheet.Stamp(&buf, src, m); err != nil {
			return err
		}
	} else {
		img, err := spritesheet.Decode(os.DirFS(filepath.Dir(in)), filepath.Base(in))
		if err != nil {
			return err
		}
		if err := spritesheet.WritePNG(&buf, img, m); err != nil {
			return err
		}
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Printf("stamped %s into %s\n", m.Key(), target)
	return nil
}

func exportFrames(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "frames", "output directory")
	scale := fs.Int("scale", 1, "nearest-neighbour scale factor")
	workers := fs.Int("workers", 0, "number of worker goroutines (default: NumCPU)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("export needs one sheet path")
	}
	in := fs.Arg(0)

	sheet, err := spritesheet.Load(in)
	if err != nil {
		return err
	}
	img, err := spritesheet.Decode(os.DirFS(filepath.Dir(in)), filepath.Base(in))
	if err != nil {
		return err
	}

	start := time.Now()
	results := export.Run(export.Config{
		OutputDir: *out,
		Scale:     *scale,
		Workers:   *workers,
		Progress: func(done, total int) {
			fmt.Printf("  [%d/%d]\n", done, total)
		},
	}, sheet, img)

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("frame %d: %w", r.Frame, r.Err))
		}
	}
	fmt.Println(export.Summary(results, time.Since(start)))
	return errors.Join(errs...)
}

// play runs the animation of a sheet on the wall clock and prints its effect
// and loop events until -for elapses or ctx is canceled.
func play(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	length := fs.Duration("for", 3*time.Second, "how long to play")
	tps := fs.Int("tps", 60, "ticks per second")
	loop := fs.Bool("loop", true, "wrap to the first frame after the last")
	frameMS := fs.Int("frame-ms", 0, "override the frame duration in milliseconds")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("play needs one sheet path")
	}

	sheet, err := spritesheet.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if *frameMS > 0 {
		sheet.Meta.FrameDuration = float32(*frameMS)
	}

	src := clock.NewTicker(time.Second / time.Duration(max(*tps, 1)))
	var now time.Duration
	cancelNow := src.Subscribe(func(ft clock.FrameTime) { now = ft.Total })
	defer cancelNow()

	s, err := sprite.NewFactory(src).FromSheet(sheet)
	if err != nil {
		return err
	}
	defer s.Detach()
	s.Loop = *loop
	s.OnEffectFrame(func(s *sprite.Sprite, ef spritesheet.EffectFrame) {
		fmt.Fprintf(w, "%8v  effect frame %d at (%g, %g)\n", now.Round(time.Millisecond), ef.Index, ef.SourceX, ef.SourceY)
	})
	s.OnLoopCompleted(func(s *sprite.Sprite, loops uint32) {
		fmt.Fprintf(w, "%8v  loop %d\n", now.Round(time.Millisecond), loops)
	})

	fmt.Fprintf(w, "playing %s: %d frames, %v per frame\n", sheet.Meta.Key(), s.NumFrames(), sheet.Meta.FrameInterval())
	ctx, cancel := context.WithTimeout(ctx, *length)
	defer cancel()
	if err := src.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintf(w, "stopped at frame %d/%d after %d loops\n", s.CurrentFrame()+1, s.NumFrames(), s.Loops())
	return nil
}
