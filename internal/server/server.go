package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ironsheep/color-legend-util/internal/annotate"
	"github.com/ironsheep/color-legend-util/internal/config"
	"github.com/ironsheep/color-legend-util/internal/imaging"
	"github.com/ironsheep/color-legend-util/internal/ocr"
	"github.com/ironsheep/color-legend-util/internal/store"
)

// Records is the subset of the record store the HTTP surface uses.
type Records interface {
	List(ctx context.Context) ([]store.Record, error)
	Get(ctx context.Context, name string) (*store.Record, error)
	BoundingBox(ctx context.Context, name string) (*imaging.BoundingBox, error)
	Upsert(ctx context.Context, rec store.Record) error
}

// Server serves images, legend boxes and click annotations over HTTP.
type Server struct {
	cfg       *config.Config
	records   Records
	annotator *annotate.Annotator

	// cache is nil unless LEGEND_CACHE_IMAGES is set.
	cache *imaging.ImageCache

	// labels is nil when OCR is disabled or unavailable.
	labels ocr.LabelReader

	engine *gin.Engine
}

// New creates a server. labels may be nil.
func New(cfg *config.Config, records Records, labels ocr.LabelReader) *Server {
	s := &Server{
		cfg:       cfg,
		records:   records,
		annotator: annotate.New(cfg.AnnotateOptions()),
		labels:    labels,
	}
	if cfg.CacheImages {
		s.cache = imaging.NewImageCache()
	}
	s.engine = s.setupRouter()
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Printf("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors())

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		images := api.Group("/images")
		{
			images.GET("", s.handleListImages)
			images.GET("/:name", s.handleGetImage)
			images.GET("/:name/legend", s.handleGetLegend)
			images.PUT("/:name/legend", s.handlePutLegend)
			images.GET("/:name/legend/preview", s.handleLegendPreview)
			images.GET("/:name/grid", s.handleGrid)
			images.POST("/:name/click", s.handleClick)
		}
	}

	return r
}

// loadRaster decodes the named image, through the cache when enabled.
func (s *Server) loadRaster(name string) (*imaging.Raster, error) {
	path := s.imagePath(name)
	if s.cache != nil {
		return s.cache.Load(path)
	}
	return imaging.LoadFile(path)
}

func (s *Server) imagePath(name string) string {
	return filepath.Join(s.cfg.ImagesDir, name)
}

func (s *Server) debugf(format string, args ...any) {
	if s.cfg.Debug() {
		log.Printf(format, args...)
	}
}
