package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ironsheep/color-legend-util/internal/config"
	"github.com/ironsheep/color-legend-util/internal/ocr"
	"github.com/ironsheep/color-legend-util/internal/server"
	"github.com/ironsheep/color-legend-util/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("legend-server %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  OCR:        %v\n", ocr.Available)
			return
		case "--help", "-h", "help":
			fmt.Println("legend-server - color legend click annotator")
			fmt.Println()
			fmt.Println("Usage: legend-server [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  LEGEND_ADDR=:8080                 Listen address")
			fmt.Println("  LEGEND_DB_PATH=./data/images.db   SQLite database")
			fmt.Println("  LEGEND_IMAGES_DIR=./wwwroot/images")
			fmt.Println("  LEGEND_SEED_FILE=./wwwroot/legend_bounding_boxes_seed_data.json")
			fmt.Println("  LEGEND_MATCH_THRESHOLD=15         Per-channel color tolerance (1-256)")
			fmt.Println("  LEGEND_MARKER_RADIUS=5            Click marker radius")
			fmt.Println("  LEGEND_DOUBLE_STROKE=false        Outline the arrow")
			fmt.Println("  LEGEND_MARKER_COLOR, LEGEND_BOX_COLOR,")
			fmt.Println("  LEGEND_ARROW_COLOR, LEGEND_ARROW_OUTLINE_COLOR   #rrggbb colors")
			fmt.Println("  LEGEND_CACHE_IMAGES=false         Keep decoded images in memory")
			fmt.Println("  LEGEND_OCR=false                  Read legend labels (needs -tags tesseract)")
			fmt.Println("  LEGEND_LOG_LEVEL=debug            Enable debug logging")
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Legend server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.StoreConfig())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.Close()

	if _, err := store.Seed(ctx, st, cfg.ImagesDir, cfg.SeedFile); err != nil {
		if !errors.Is(err, store.ErrSeedSourceMissing) {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Printf("ERROR! %v", err)
	}

	var labels ocr.LabelReader
	if cfg.OCR {
		labels, err = ocr.NewReader()
		if err != nil {
			log.Printf("Legend labels disabled: %v", err)
			labels = nil
		}
	}

	srv := server.New(cfg, st, labels)
	if err := srv.Run(ctx); err != nil {
		log.Printf("Server error: %v", err)
		st.Close()
		os.Exit(1)
	}
}
