package recognize

import (
	"github.com/kozaktomas/face-watch/internal/match"
)

// Result is the per-face outcome for one processed frame: where the face is
// and who it is, if anyone. Results are produced and consumed per frame,
// never persisted.
type Result struct {
	Identity   string    `json:"identity"`
	Known      bool      `json:"known"`
	Distance   float64   `json:"distance"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox"` // [x, y, w, h]
}

// newResult combines a match outcome with the detection's bounding box.
// The extractor reports corner coordinates [x1, y1, x2, y2]; results carry
// [x, y, w, h] as consumed by overlay renderers.
func newResult(m match.Result, cornerBBox []float64) Result {
	return Result{
		Identity:   m.Identity,
		Known:      m.Known,
		Distance:   m.Distance,
		Confidence: m.Confidence,
		BBox:       cornerToXYWH(cornerBBox),
	}
}

// cornerToXYWH converts [x1, y1, x2, y2] to [x, y, w, h].
func cornerToXYWH(bbox []float64) []float64 {
	if len(bbox) != 4 {
		return bbox
	}
	return []float64{
		bbox[0],
		bbox[1],
		bbox[2] - bbox[0],
		bbox[3] - bbox[1],
	}
}
