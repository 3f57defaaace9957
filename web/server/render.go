package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

const writeWait = 10 * time.Second

// Message is one websocket frame of a render stream
type Message struct {
	Type     string      `json:"type"` // "start", "row", "console", "complete", "error"
	RenderID string      `json:"renderId"`
	Data     interface{} `json:"data,omitempty"`
}

// StartData announces the image size before any rows arrive
type StartData struct {
	Scene   string `json:"scene"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Samples int    `json:"samples"`
	Depth   int    `json:"depth"`
}

// RowData carries one finished row as base64 RGBA bytes
type RowData struct {
	Row           int    `json:"row"`
	Width         int    `json:"width"`
	RowsCompleted int    `json:"rowsCompleted"`
	TotalRows     int    `json:"totalRows"`
	Pixels        string `json:"pixels"`
}

// CompleteData summarizes a finished render
type CompleteData struct {
	Rows             int     `json:"rows"`
	TotalSamples     int     `json:"totalSamples"`
	Workers          int     `json:"workers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

// ErrorData reports why a render stopped
type ErrorData struct {
	Message string `json:"message"`
}

// handleRender upgrades to a websocket and streams rows in order as the
// scanline renderer completes them
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	overrides, err := parseCameraParams(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	seed, err := parseSeedParam(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		glog.Errorf("websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	// The client never sends anything; CloseRead cancels ctx when it goes away
	ctx := conn.CloseRead(r.Context())

	renderID := uuid.New().String()
	messages := make(chan Message, 64)
	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(renderID, consoleChan)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return writeMessages(ctx, conn, messages)
	})
	eg.Go(func() error {
		defer close(messages)
		return s.streamRender(ctx, renderID, query.Get("scene"), seed, overrides, logger, consoleChan, messages)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		glog.Warningf("[%s] render stream ended: %v", renderID, err)
		conn.Close(websocket.StatusInternalError, "render failed")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// streamRender runs one render and turns its rows, console output and
// result into messages. Render failures are reported to the client rather
// than returned.
func (s *Server) streamRender(ctx context.Context, renderID, sceneID string, seed int64, overrides renderer.CameraConfig,
	logger *WebLogger, consoleChan <-chan ConsoleMessage, messages chan<- Message) error {

	send := func(typ string, data interface{}) error {
		select {
		case messages <- Message{Type: typ, RenderID: renderID, Data: data}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	sendRow := func(row renderer.RowCompletion) error {
		return send("row", RowData{
			Row:           row.Row,
			Width:         row.Width,
			RowsCompleted: row.RowsCompleted,
			TotalRows:     row.Height,
			Pixels:        base64.StdEncoding.EncodeToString(bgraToRGBA(row.Pixels)),
		})
	}

	sceneObj, err := s.createScene(sceneID, seed, overrides)
	if err != nil {
		return send("error", ErrorData{Message: err.Error()})
	}

	tracer, err := renderer.NewScanlineRenderer(sceneObj,
		renderer.RenderConfig{NumWorkers: s.workers, Seed: seed}, logger)
	if err != nil {
		return send("error", ErrorData{Message: err.Error()})
	}

	camera := sceneObj.GetCamera()
	if err := send("start", StartData{
		Scene:   sceneObj.Name,
		Width:   camera.Width(),
		Height:  camera.Height(),
		Samples: camera.Config().SamplesPerPixel,
		Depth:   camera.Config().MaxDepth,
	}); err != nil {
		return err
	}

	rowChan, resultChan, errChan := tracer.RenderStream(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-consoleChan:
			if err := send("console", msg); err != nil {
				return err
			}

		case row, ok := <-rowChan:
			if !ok {
				rowChan = nil
				continue
			}
			if err := sendRow(row); err != nil {
				return err
			}

		case result, ok := <-resultChan:
			if !ok {
				resultChan = nil
				continue
			}
			// Rows are buffered ahead of the result, flush them first
			if rowChan != nil {
				for row := range rowChan {
					if err := sendRow(row); err != nil {
						return err
					}
				}
			}
			drainConsole(consoleChan, send)
			return send("complete", CompleteData{
				Rows:             result.Stats.Rows,
				TotalSamples:     result.Stats.TotalSamples,
				Workers:          result.Stats.Workers,
				ElapsedMs:        result.Stats.Elapsed.Milliseconds(),
				SamplesPerSecond: result.Stats.SamplesPerSecond(),
			})

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			logger.Warnf("Render failed: %v\n", err)
			drainConsole(consoleChan, send)
			return send("error", ErrorData{Message: err.Error()})
		}
	}
}

// drainConsole forwards console messages that are already queued
func drainConsole(consoleChan <-chan ConsoleMessage, send func(string, interface{}) error) {
	for {
		select {
		case msg := <-consoleChan:
			if send("console", msg) != nil {
				return
			}
		default:
			return
		}
	}
}

// writeMessages is the only goroutine writing to conn
func writeMessages(ctx context.Context, conn *websocket.Conn, messages <-chan Message) error {
	for msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("while encoding %s message: %w", msg.Type, err)
		}

		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		err = conn.Write(writeCtx, websocket.MessageText, data)
		cancel()
		if err != nil {
			return fmt.Errorf("while writing %s message: %w", msg.Type, err)
		}
	}
	return nil
}

// bgraToRGBA reorders framebuffer bytes for a browser canvas
func bgraToRGBA(bgra []byte) []byte {
	rgba := make([]byte, len(bgra))
	for i := 0; i+3 < len(bgra); i += 4 {
		rgba[i] = bgra[i+2]
		rgba[i+1] = bgra[i+1]
		rgba[i+2] = bgra[i]
		rgba[i+3] = bgra[i+3]
	}
	return rgba
}
