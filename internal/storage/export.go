package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/eulerlab/internal/analysis"
	"github.com/san-kum/eulerlab/internal/dynamo"
)

type ExportData struct {
	Run          RunMetadata                   `json:"run"`
	Trajectories map[string]*dynamo.Trajectory `json:"trajectories"`
	Truncation   *analysis.TruncationSamples   `json:"truncation,omitempty"`
}

// ExportJSON writes a saved run, trajectories included, as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	named, err := s.LoadTrajectories(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:          *meta,
		Trajectories: make(map[string]*dynamo.Trajectory, len(named)),
	}
	for _, nt := range named {
		data.Trajectories[nt.Name] = nt.Trajectory
	}
	if samples, err := s.LoadTruncation(runID); err == nil {
		data.Truncation = samples
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV copies the saved trajectories.csv to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(s.Dir(runID), trajectoriesFile))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
