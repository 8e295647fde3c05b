package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/eulerlab/internal/analysis"
	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/experiment"
	"github.com/san-kum/eulerlab/internal/logger"
)

const (
	metadataFile     = "metadata.json"
	trajectoriesFile = "trajectories.csv"
	truncationFile   = "truncation.csv"

	// AnalyticName labels the exact solution among saved trajectories.
	AnalyticName = "analytic"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type SchemeSummary struct {
	Scheme      string             `json:"scheme"`
	EnergyDrift float64            `json:"energy_drift"`
	EnergyMin   float64            `json:"energy_min"`
	EnergyMax   float64            `json:"energy_max"`
	FinalError  float64            `json:"final_error"`
	MaxPosError float64            `json:"max_position_error"`
	Metrics     map[string]float64 `json:"metrics"`
}

type RunMetadata struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Start     float64         `json:"start"`
	End       float64         `json:"end"`
	Dt        float64         `json:"dt"`
	X0        float64         `json:"x0"`
	V0        float64         `json:"v0"`
	Samples   int             `json:"samples"`
	Schemes   []string        `json:"schemes"`
	Summaries []SchemeSummary `json:"summaries"`
	Order     float64         `json:"order"`
}

// NamedTrajectory is one column pair of trajectories.csv.
type NamedTrajectory struct {
	Name       string
	Trajectory *dynamo.Trajectory
}

// Save writes report into a fresh run directory and returns its ID.
func (s *Store) Save(report *experiment.Report) (string, error) {
	if report == nil || report.Config == nil {
		return "", errors.New("storage: empty report")
	}
	if err := report.Analytic.Validate(); err != nil {
		return "", err
	}

	ts := report.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	runID := fmt.Sprintf("osc_%s", ts.Format("20060102_150405.000000"))
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	cfg := report.Config
	meta := RunMetadata{
		ID:        runID,
		Timestamp: ts,
		Start:     cfg.Start,
		End:       cfg.End,
		Dt:        cfg.Dt,
		X0:        cfg.X0,
		V0:        cfg.V0,
		Samples:   report.Analytic.Len(),
		Schemes:   make([]string, 0, len(report.Runs)),
		Summaries: make([]SchemeSummary, 0, len(report.Runs)),
		Order:     report.Order,
	}
	for _, run := range report.Runs {
		meta.Schemes = append(meta.Schemes, run.Scheme)
		meta.Summaries = append(meta.Summaries, SchemeSummary{
			Scheme:      run.Scheme,
			EnergyDrift: run.EnergyDrift,
			EnergyMin:   run.EnergyMin,
			EnergyMax:   run.EnergyMax,
			FinalError:  run.FinalError,
			MaxPosError: run.MaxPosError,
			Metrics:     run.Metrics,
		})
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	named := []NamedTrajectory{{Name: AnalyticName, Trajectory: report.Analytic}}
	for _, run := range report.Runs {
		named = append(named, NamedTrajectory{Name: run.Scheme, Trajectory: run.Trajectory})
	}
	if err := writeTrajectories(filepath.Join(runDir, trajectoriesFile), named); err != nil {
		return "", err
	}

	if report.Truncation != nil {
		if err := writeTruncation(filepath.Join(runDir, truncationFile), report.Truncation); err != nil {
			return "", err
		}
	}

	logger.L().Info("storage.saved", "run", runID, "dir", runDir, "schemes", meta.Schemes)
	return runID, nil
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
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
			logger.L().Debug("storage.skip", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectories reads trajectories.csv back in column order, analytic
// first.
func (s *Store) LoadTrajectories(runID string) ([]NamedTrajectory, error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), trajectoriesFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", trajectoriesFile, dynamo.ErrInvalidTrajectory)
	}

	header := records[0]
	if len(header) < 3 || (len(header)-1)%2 != 0 || header[0] != "time" {
		return nil, fmt.Errorf("%s: bad header %v: %w", trajectoriesFile, header, dynamo.ErrInvalidTrajectory)
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no samples: %w", trajectoriesFile, dynamo.ErrInvalidTrajectory)
	}
	times := make([]float64, len(rows))
	named := make([]NamedTrajectory, 0, (len(header)-1)/2)
	for col := 1; col < len(header); col += 2 {
		named = append(named, NamedTrajectory{
			Name: strings.TrimSuffix(header[col], "_x"),
			Trajectory: &dynamo.Trajectory{
				Times:    times,
				Position: make([]float64, len(rows)),
				Velocity: make([]float64, len(rows)),
			},
		})
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, dynamo.LengthError(trajectoriesFile, len(header), len(row))
		}
		if times[i], err = strconv.ParseFloat(row[0], 64); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", trajectoriesFile, i+1, err)
		}
		for k, nt := range named {
			if nt.Trajectory.Position[i], err = strconv.ParseFloat(row[1+2*k], 64); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", trajectoriesFile, i+1, err)
			}
			if nt.Trajectory.Velocity[i], err = strconv.ParseFloat(row[2+2*k], 64); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", trajectoriesFile, i+1, err)
			}
		}
	}
	return named, nil
}

// LoadTruncation reads truncation.csv. Runs saved without a sweep return
// ErrRunNotFound.
func (s *Store) LoadTruncation(runID string) (*analysis.TruncationSamples, error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), truncationFile))
	if err != nil {
		return nil, err
	}

	samples := &analysis.TruncationSamples{Scheme: "explicit"}
	for i, row := range records {
		if i == 0 || len(row) < 2 {
			continue
		}
		h, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", truncationFile, i, err)
		}
		e, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", truncationFile, i, err)
		}
		samples.StepSizes = append(samples.StepSizes, h)
		samples.MaxErrors = append(samples.MaxErrors, e)
	}
	return samples, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTrajectories(path string, named []NamedTrajectory) error {
	n := named[0].Trajectory.Len()
	header := []string{"time"}
	for _, nt := range named {
		if nt.Trajectory.Len() != n {
			return dynamo.LengthError(nt.Name, n, nt.Trajectory.Len())
		}
		header = append(header, nt.Name+"_x", nt.Name+"_v")
	}

	return writeCSV(path, header, n, func(i int) []string {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(named[0].Trajectory.Times[i]))
		for _, nt := range named {
			row = append(row, formatFloat(nt.Trajectory.Position[i]), formatFloat(nt.Trajectory.Velocity[i]))
		}
		return row
	})
}

func writeTruncation(path string, samples *analysis.TruncationSamples) error {
	return writeCSV(path, []string{"h", "max_error"}, samples.Len(), func(i int) []string {
		return []string{formatFloat(samples.StepSizes[i]), formatFloat(samples.MaxErrors[i])}
	})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
