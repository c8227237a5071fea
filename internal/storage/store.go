package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/physics2d/internal/sim"
	"github.com/san-kum/physics2d/internal/solver"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	BroadPhase string             `json:"broad_phase"`
	Solver     solver.Config      `json:"solver"`
	Steps      int                `json:"steps"`
	Bodies     int                `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

var stateHeader = []string{"time", "body", "x", "y", "angle", "vx", "vy", "omega", "kinetic"}

// Save writes metadata.json and states.csv into a new run directory and
// returns the run ID. ID, Timestamp, Steps and Metrics are filled in from
// the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	if n := len(result.Frames); n > 0 {
		meta.Bodies = len(result.Frames[n-1].Bodies)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(stateHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		t := formatFloat(f.Time)
		for _, b := range f.Bodies {
			row := []string{
				t,
				strconv.FormatUint(b.ID, 10),
				formatFloat(b.X),
				formatFloat(b.Y),
				formatFloat(b.Angle),
				formatFloat(b.VX),
				formatFloat(b.VY),
				formatFloat(b.Omega),
				formatFloat(b.Kinetic),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads states.csv back into frames. Rows that fail to parse
// are skipped.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(stateHeader) {
			continue
		}
		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		if n := len(frames); n == 0 || frames[n-1].Time != vals[0] {
			frames = append(frames, sim.Frame{Time: vals[0]})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, sim.BodyState{
			ID:      uint64(vals[1]),
			X:       vals[2],
			Y:       vals[3],
			Angle:   vals[4],
			VX:      vals[5],
			VY:      vals[6],
			Omega:   vals[7],
			Kinetic: vals[8],
		})
	}

	return frames, nil
}
