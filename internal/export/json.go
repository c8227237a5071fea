package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/physics2d/internal/sim"
)

type ExportData struct {
	Scene    string             `json:"scene"`
	Seed     int64              `json:"seed"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Frames   []sim.Frame        `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
}

// WriteJSON writes a run with every recorded frame.
func WriteJSON(w io.Writer, data ExportData) error {
	if data.Frames == nil {
		data.Frames = []sim.Frame{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
