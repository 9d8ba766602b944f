// Package server exposes the legend annotator over HTTP.
//
// # Routes
//
//   - GET  /health                              liveness probe
//   - GET  /api/images                          names of all image records
//   - GET  /api/images/:name                    the raw image file
//   - GET  /api/images/:name/legend             the recorded legend box
//   - PUT  /api/images/:name/legend             create or replace the legend box
//   - GET  /api/images/:name/legend/preview     PNG crop of the legend (?scale=)
//   - GET  /api/images/:name/grid               coordinate grid over the image (?spacing=&labels=&color=)
//   - POST /api/images/:name/click              annotate a click (?format=svg|json|png)
//
// A click body is {"x": int, "y": int} in image pixel coordinates. The
// default reply is the SVG overlay; format=png composites the overlay onto
// the image, and format=json adds the sampled color, match count, centroid
// and, when OCR is enabled, the legend label.
//
// # Errors
//
// Errors are returned as {"code": status, "message": text}:
//   - 400 malformed input or a click outside the image
//   - 404 unknown record or missing file
//   - 415 unsupported image format
//   - 422 corrupt image data or an empty legend region
//
// # Image Caching
//
// With LEGEND_CACHE_IMAGES enabled decoded images are kept in memory for
// the lifetime of the process. Replacing a file on disk then requires a
// restart.
package server
