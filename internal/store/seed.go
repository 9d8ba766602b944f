package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrSeedSourceMissing is returned by Seed when the images directory or the
// manifest does not exist.
var ErrSeedSourceMissing = errors.New("seed images directory or manifest not found")

// Manifest is the seed file listing legend boxes per image file.
type Manifest struct {
	Data []Entry `json:"data"`
}

// Entry is one manifest line. LegendBBox is [x1, y1, x2, y2]; any other
// length is treated as no box.
type Entry struct {
	FileName   string    `json:"file_name"`
	LegendBBox []float64 `json:"legend_bbox"`
}

var seedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// IsSeedableImage reports whether name has an extension Seed picks up.
func IsSeedableImage(name string) bool {
	return seedExtensions[strings.ToLower(filepath.Ext(name))]
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Seed fills an empty store with one record per supported image file in
// imagesDir, taking legend boxes from the manifest at manifestPath.
//
// Seed does nothing when the store already holds records. It returns the
// number of records inserted.
//
// # Errors
//
//   - ErrSeedSourceMissing if imagesDir or manifestPath does not exist
//   - any read, parse or database error
func Seed(ctx context.Context, s *Store, imagesDir, manifestPath string) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("Store already holds %d image records, skipping seed", n)
		return 0, nil
	}

	if info, err := os.Stat(imagesDir); err != nil || !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrSeedSourceMissing, imagesDir)
	}
	if _, err := os.Stat(manifestPath); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrSeedSourceMissing, manifestPath)
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return 0, err
	}
	boxes := make(map[string][]float64, len(manifest.Data))
	for _, e := range manifest.Data {
		boxes[e.FileName] = e.LegendBBox
	}

	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read images directory: %w", err)
	}

	var records []Record
	for _, e := range entries {
		if e.IsDir() || !IsSeedableImage(e.Name()) {
			continue
		}
		rec := Record{Name: e.Name()}
		if bbox := boxes[e.Name()]; len(bbox) == 4 {
			rec.X1, rec.Y1, rec.X2, rec.Y2 = &bbox[0], &bbox[1], &bbox[2], &bbox[3]
		} else {
			log.Printf("No legend bounding box for %s", e.Name())
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		for _, rec := range records {
			if err := upsert(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("Seeded %d image records from %s", len(records), imagesDir)
	return len(records), nil
}
