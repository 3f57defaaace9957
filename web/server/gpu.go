package server

import (
	"net/http"

	"github.com/golang/glog"

	"github.com/df07/go-scanline-tracer/pkg/gpumirror"
)

// handleGPUBuffers returns the scene flattened into compute shader buffers
func (s *Server) handleGPUBuffers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	overrides, err := parseCameraParams(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	seed, err := parseSeedParam(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := s.createScene(query.Get("scene"), seed, overrides)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buffers := gpumirror.Build(sceneObj.World, sceneObj.Materials, sceneObj.GetCamera(), seed)
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := buffers.WriteTo(w); err != nil {
		glog.Warningf("Writing gpu buffers: %v", err)
	}
}
