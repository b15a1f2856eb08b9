// Package server exposes the fetcher, scale table, and frame geometry over
// a small JSON/PNG HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/geoplot/tileframe/internal/fetcher"
	"github.com/geoplot/tileframe/internal/frame"
	"github.com/geoplot/tileframe/internal/scale"
	"github.com/geoplot/tileframe/pkg/geo"
)

// Server holds the HTTP handlers and their shared fetcher
type Server struct {
	startTime time.Time
	version   string
	fetcher   *fetcher.Fetcher
}

// New creates a server instance with a fetcher built from cfg
func New(version string, cfg fetcher.Config) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
		fetcher:   fetcher.New(cfg),
	}
}

// Routes registers all API handlers on r
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/scale/{zoom}", s.handleScale)
	r.Post("/map", s.handleMap)
	r.Post("/frame", s.handleFrame)
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// ScaleResponse pairs a zoom level with its provider scale denominator
type ScaleResponse struct {
	Zoom  int `json:"zoom"`
	Scale int `json:"scale"`
}

// BBoxParam is the JSON form of a bounding box
type BBoxParam struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// MapRequest asks for a raster covering a bounding box. Exactly one of
// Zoom or Scale must be set; Zoom is resolved through the scale table.
type MapRequest struct {
	BBox   BBoxParam `json:"bbox"`
	Zoom   *int      `json:"zoom,omitempty"`
	Scale  *int      `json:"scale,omitempty"`
	Format string    `json:"format,omitempty"`
	Color  string    `json:"color,omitempty"` // "color" (default) or "grayscale"
}

// FrameRequest asks for frame geometry for a bounding box
type FrameRequest struct {
	BBox        BBoxParam `json:"bbox"`
	Legend      string    `json:"legend,omitempty"`
	Padding     float64   `json:"padding,omitempty"`
	Extent      string    `json:"extent,omitempty"`
	Darken      float64   `json:"darken,omitempty"`
	DarkenColor string    `json:"darken_color,omitempty"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	zoom, err := strconv.Atoi(chi.URLParam(r, "zoom"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_ZOOM", "zoom must be an integer", requestID)
		return
	}

	denominator, err := scale.Resolve(zoom)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "ZOOM_OUT_OF_RANGE", err.Error(), requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	json.NewEncoder(w).Encode(ScaleResponse{Zoom: zoom, Scale: denominator})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	var req MapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON in request body", requestID)
		return
	}

	denominator, err := s.resolveScale(&req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), requestID)
		return
	}

	opts := fetcher.Options{Format: fetcher.Format(req.Format)}
	switch req.Color {
	case "", "color":
	case "grayscale":
		opts.Gray = true
	default:
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("color must be \"color\" or \"grayscale\", got %q", req.Color), requestID)
		return
	}

	bbox := geo.BoundingBox{West: req.BBox.West, South: req.BBox.South, East: req.BBox.East, North: req.BBox.North}

	raster, err := s.fetcher.Fetch(r.Context(), bbox, denominator, opts)
	if err != nil {
		s.handleFetchError(w, err, requestID)
		return
	}

	data, err := geo.EncodePNG(raster)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode raster", requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	var req FrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON in request body", requestID)
		return
	}

	bbox := geo.BoundingBox{West: req.BBox.West, South: req.BBox.South, East: req.BBox.East, North: req.BBox.North}
	opts := frame.Options{
		Legend:      frame.LegendPosition(req.Legend),
		Padding:     req.Padding,
		Extent:      frame.Extent(req.Extent),
		Darken:      req.Darken,
		DarkenColor: req.DarkenColor,
	}
	g, err := frame.ComputeBBox(bbox, opts)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	json.NewEncoder(w).Encode(g)
}

// resolveScale picks the scale denominator from the request, translating a
// zoom level through the lookup table when given.
func (s *Server) resolveScale(req *MapRequest) (int, error) {
	switch {
	case req.Zoom != nil && req.Scale != nil:
		return 0, fmt.Errorf("specify either zoom or scale, not both")
	case req.Zoom != nil:
		return scale.Resolve(*req.Zoom)
	case req.Scale != nil:
		return *req.Scale, nil
	default:
		return 0, fmt.Errorf("either zoom or scale is required")
	}
}

// handleFetchError maps the fetcher's error taxonomy onto HTTP statuses
func (s *Server) handleFetchError(w http.ResponseWriter, err error, requestID string) {
	var ve *geo.ValidationError
	if errors.As(err, &ve) {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), requestID)
		return
	}

	var fe *fetcher.UnsupportedFormatError
	if errors.As(err, &fe) {
		s.writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", fe.Error(), requestID)
		return
	}

	var dl *fetcher.DownloadError
	if errors.As(err, &dl) {
		s.writeError(w, http.StatusBadGateway, "TILE_SERVER_ERROR", dl.Error(), requestID)
		return
	}

	var de *fetcher.DecodeError
	if errors.As(err, &de) {
		s.writeError(w, http.StatusBadGateway, "TILE_SERVER_BAD_RESPONSE", de.Error(), requestID)
		return
	}

	s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", requestID)
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, errorCode, message, requestID string) {
	response := ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}
