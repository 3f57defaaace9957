package preview

import (
	"context"
	"errors"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// ErrQuit is returned by Run when the user closes the preview
var ErrQuit = errors.New("preview closed")

// Run takes over the terminal and shows rows as they arrive until the
// render finishes, ctx is cancelled or the user presses q. The caller owns
// the render; Run only reads rows.
func Run(ctx context.Context, p *Presenter, rows <-chan renderer.RowCompletion) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	resized := make(chan uv.WindowSizeEvent, 1)
	quit := make(chan struct{})
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resized <- ev:
				default:
				}
			case uv.KeyPressEvent:
				if ev.MatchString("q", "ctrl+c", "escape") {
					close(quit)
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(time.Second / FPS)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-quit:
			return ErrQuit
		case ev := <-resized:
			term.Erase()
			term.Resize(ev.Width, ev.Height)
		case row, ok := <-rows:
			if !ok {
				rows = nil
				continue
			}
			p.AddRow(row)
		case <-ticker.C:
			p.Tick()
			p.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
			if rows == nil && p.Settled() {
				return nil
			}
		}
	}
}
