package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ironsheep/color-legend-util/internal/annotate"
	"github.com/ironsheep/color-legend-util/internal/imaging"
	"github.com/ironsheep/color-legend-util/internal/store"
)

// maxPreviewScale bounds the legend preview enlargement.
const maxPreviewScale = 8.0

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// contentTypeFor returns the MIME type for an image file name.
func contentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// imageName validates the :name path parameter as a plain file name.
func imageName(c *gin.Context) (string, error) {
	name := c.Param("name")
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid image name %q", errBadRequest, name)
	}
	return name, nil
}

// legendResponse is the JSON form of a record.
type legendResponse struct {
	Name       string      `json:"name"`
	LegendBBox *[4]float64 `json:"legend_bbox"`
}

func newLegendResponse(rec *store.Record) legendResponse {
	resp := legendResponse{Name: rec.Name}
	if box := rec.LegendBoundingBox(); box != nil {
		resp.LegendBBox = &[4]float64{box.X1, box.Y1, box.X2, box.Y2}
	}
	return resp
}

// legendRequest is the body of PUT /api/images/:name/legend. A null or
// missing legend_bbox clears the box.
type legendRequest struct {
	LegendBBox []float64 `json:"legend_bbox"`
}

// clickRequest is the body of POST /api/images/:name/click.
type clickRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// clickResponse is the ?format=json reply to a click.
type clickResponse struct {
	Image       string               `json:"image"`
	Click       imaging.Point        `json:"click"`
	Color       *imaging.ColorResult `json:"color"`
	Matches     int                  `json:"matches"`
	Centroid    *imaging.Point2D     `json:"centroid"`
	ArrowLength *float64             `json:"arrow_length,omitempty"`
	Label       string               `json:"label,omitempty"`
	Annotation  *annotate.Document   `json:"annotation"`
	SVG         string               `json:"svg"`
}

// checkBox rejects a box whose coordinates or extent are not finite.
func checkBox(b imaging.BoundingBox) error {
	for _, v := range []float64{b.X1, b.Y1, b.X2, b.Y2, b.Width(), b.Height()} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: legend_bbox [%g %g %g %g] is out of range", errBadRequest, b.X1, b.Y1, b.X2, b.Y2)
		}
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListImages(c *gin.Context) {
	records, err := s.records.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) handleGetImage(c *gin.Context) {
	name, err := imageName(c)
	if err != nil {
		respondError(c, err)
		return
	}

	path := s.imagePath(name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		respondError(c, fmt.Errorf("image %s not found on server: %w", name, os.ErrNotExist))
		return
	}

	c.Header("Content-Type", contentTypeFor(name))
	c.File(path)
}

func (s *Server) handleGetLegend(c *gin.Context) {
	name, err := imageName(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rec, err := s.records.Get(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLegendResponse(rec))
}

func (s *Server) handlePutLegend(c *gin.Context) {
	name, err := imageName(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req legendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	rec := store.Record{Name: name}
	switch len(req.LegendBBox) {
	case 0:
	case 4:
		b := req.LegendBBox
		box := imaging.BoundingBox{X1: b[0], Y1: b[1], X2: b[2], Y2: b[3]}
		if err := checkBox(box); err != nil {
			respondError(c, err)
			return
		}
		rec.SetLegendBoundingBox(&box)
	default:
		respondError(c, fmt.Errorf("%w: legend_bbox needs 4 values, got %d", errBadRequest, len(req.LegendBBox)))
		return
	}

	ctx := c.Request.Context()
	if err := s.records.Upsert(ctx, rec); err != nil {
		respondError(c, err)
		return
	}
	saved, err := s.records.Get(ctx, name)
	if err != nil {
		respondError(c, err)
		return
	}

	s.debugf("Legend for %s set to %v", name, req.LegendBBox)
	c.JSON(http.StatusOK, newLegendResponse(saved))
}

func (s *Server) handleLegendPreview(c *gin.Context) {
	name, err := imageName(c)
	if err != nil {
		respondError(c, err)
		return
	}

	scale := 1.0
	if v := c.Query("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > maxPreviewScale {
			respondError(c, fmt.Errorf("%w: scale must be in (0, %g], got %q", errBadRequest, maxPreviewScale, v))
			return
		}
	}

	box, err := s.records.BoundingBox(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	if box == nil {
		respondError(c, fmt.Errorf("no legend recorded for %s: %w", name, store.ErrNotFound))
		return
	}

	r, err := s.loadRaster(name)
	if err != nil {
		respondError(c, err)
		return
	}

	crop, err := imaging.CropLegend(r, *box, scale)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, crop.MimeType, crop.PNG)
}

func (s *Server) handleGrid(c *gin.Context) {
	name, err := imageName(c)
	if err != nil {
		respondError(c, err)
		return
	}

	opts := imaging.GridOptions{
		Spacing: imaging.DefaultGridSpacing,
		Color:   c.Query("color"),
		Labels:  c.Query("labels") != "false",
	}
	if v := c.Query("spacing"); v != "" {
		opts.Spacing, err = strconv.Atoi(v)
		if err != nil || opts.Spacing < 2 {
			respondError(c, fmt.Errorf("%w: spacing must be an integer >= 2, got %q", errBadRequest, v))
			return
		}
	}

	// The legend outline is drawn when a record exists; an unrecorded image
	// still gets a grid.
	if box, err := s.records.BoundingBox(c.Request.Context(), name); err == nil {
		opts.Legend = box
	} else if !errors.Is(err, store.ErrNotFound) {
		respondError(c, err)
		return
	}

	r, err := s.loadRaster(name)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := imaging.GridOverlay(r, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) handleClick(c *gin.Context) {
	name, err := imageName(c)
	if err != nil {
		respondError(c, err)
		return
	}

	format := c.DefaultQuery("format", "svg")
	if format != "svg" && format != "json" && format != "png" {
		respondError(c, fmt.Errorf("%w: unknown format %q", errBadRequest, format))
		return
	}

	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	click := imaging.Point{X: *req.X, Y: *req.Y}

	box, err := s.records.BoundingBox(c.Request.Context(), name)
	if err != nil {
		respondError(c, fmt.Errorf("no metadata found for image %s: %w", name, err))
		return
	}

	r, err := s.loadRaster(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("image file %s not found on disk: %w", name, err)
		}
		respondError(c, err)
		return
	}

	result, err := s.annotator.AnnotateRaster(r, box, click)
	if err != nil {
		respondError(c, err)
		return
	}
	s.debugf("Click %s (%d,%d): sample %s, %d matches", name, click.X, click.Y, result.Sample.Hex(), result.Matches)

	switch format {
	case "png":
		data, err := annotate.EncodePNG(result.Document, r.Image())
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", data)

	case "json":
		svg, err := result.Document.MarshalSVG()
		if err != nil {
			respondError(c, err)
			return
		}
		color, err := imaging.DescribeColor(r, click)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := clickResponse{
			Image:      name,
			Click:      click,
			Color:      color,
			Matches:    result.Matches,
			Centroid:   result.Centroid,
			Annotation: result.Document,
			SVG:        string(svg),
		}
		if a := result.Document.Arrow; a != nil {
			length := a.Line.Length()
			resp.ArrowLength = &length
		}
		if s.labels != nil && box != nil && result.Centroid != nil {
			label, err := s.labels.ReadLabel(r.Image(), *box, *result.Centroid)
			if err != nil {
				s.debugf("Label read failed for %s: %v", name, err)
			} else {
				resp.Label = label
			}
		}
		c.JSON(http.StatusOK, resp)

	default:
		svg, err := result.Document.MarshalSVG()
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, annotate.SVGMimeType, svg)
	}
}
