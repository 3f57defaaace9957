// Package preview shows a render in progress on the terminal. Each cell is
// an upper half block whose foreground is the top pixel and whose
// background is the bottom pixel, so one terminal row covers two samples.
package preview

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// FPS is the redraw rate of the terminal preview
const FPS = 30

var (
	barFilled = color.RGBA{120, 200, 120, 255}
	barEmpty  = color.RGBA{60, 60, 60, 255}
)

// Presenter collects completed rows and draws them, scaled to fit, with a
// progress bar on the last terminal line
type Presenter struct {
	mu       sync.Mutex
	width    int
	height   int
	pixels   []byte // BGRA, rows past rowsDone are unset
	rowsDone int

	spring   harmonica.Spring
	shown    float64 // smoothed progress in [0, 1]
	velocity float64
}

// NewPresenter creates a presenter for an image of the given size
func NewPresenter(width, height int) *Presenter {
	return &Presenter{
		width:  width,
		height: height,
		pixels: make([]byte, width*height*4),
		// Critically damped, no overshoot past 100%
		spring: harmonica.NewSpring(harmonica.FPS(FPS), 6.0, 1.0),
	}
}

// AddRow records a completed row. Rows arrive in order.
func (p *Presenter) AddRow(row renderer.RowCompletion) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if row.Row < 0 || row.Row >= p.height || row.Width != p.width {
		return
	}
	copy(p.pixels[row.Row*p.width*4:], row.Pixels)
	p.rowsDone = max(p.rowsDone, row.RowsCompleted)
}

// Progress returns the fraction of rows completed
func (p *Presenter) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress()
}

func (p *Presenter) progress() float64 {
	if p.height == 0 {
		return 1
	}
	return float64(p.rowsDone) / float64(p.height)
}

// Tick advances the progress bar animation by one frame
func (p *Presenter) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown, p.velocity = p.spring.Update(p.shown, p.velocity, p.progress())
}

// Settled reports whether the render is finished and the bar has caught up
func (p *Presenter) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rowsDone == p.height && p.shown > 0.999
}

// pixelAt returns the color at (x, y), or nil if that row is not done yet
func (p *Presenter) pixelAt(x, y int) color.Color {
	if y >= p.rowsDone {
		return nil
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.pixels[i+2], G: p.pixels[i+1], B: p.pixels[i], A: p.pixels[i+3]}
}

// Draw renders the image into area of scr. The last line of area holds the
// progress bar.
func (p *Presenter) Draw(scr uv.Screen, area uv.Rectangle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cols, rows := area.Dx(), area.Dy()-1
	if cols <= 0 || rows < 0 {
		return
	}

	if rows > 0 && p.width > 0 && p.height > 0 {
		samples := rows * 2
		for row := 0; row < rows; row++ {
			topY := (row * 2) * p.height / samples
			botY := (row*2 + 1) * p.height / samples
			for col := 0; col < cols; col++ {
				x := col * p.width / cols
				scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
					Content: "▀",
					Width:   1,
					Style: uv.Style{
						Fg: p.pixelAt(x, topY),
						Bg: p.pixelAt(x, botY),
					},
				})
			}
		}
	}

	p.drawProgress(scr, area.Min.X, area.Max.Y-1, cols)
}

func (p *Presenter) drawProgress(scr uv.Screen, x0, y, cols int) {
	label := fmt.Sprintf(" %3.0f%% ", p.shown*100)
	filled := int(p.shown*float64(cols) + 0.5)
	for col := 0; col < cols; col++ {
		bg := barEmpty
		if col < filled {
			bg = barFilled
		}
		content := " "
		if col < len(label) {
			content = string(label[col])
		}
		scr.SetCell(x0+col, y, &uv.Cell{
			Content: content,
			Width:   1,
			Style:   uv.Style{Fg: color.White, Bg: bg},
		})
	}
}
