package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/eulerlab/internal/config"
	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/experiment"
)

func runReport(t *testing.T) *experiment.Report {
	t.Helper()
	report, err := experiment.New(config.GetPreset("phasespace")).Run(context.Background())
	if err != nil {
		t.Fatalf("experiment failed: %v", err)
	}
	return report
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	report := runReport(t)
	runID, err := st.Save(report)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.End != 2 || meta.Dt != 0.1 {
		t.Errorf("unexpected range end=%g dt=%g", meta.End, meta.Dt)
	}
	if meta.Samples != 21 {
		t.Errorf("expected 21 samples, got %d", meta.Samples)
	}
	if len(meta.Summaries) != 3 || meta.Summaries[0].Scheme != "explicit" {
		t.Errorf("unexpected summaries %+v", meta.Summaries)
	}
	if meta.Summaries[0].FinalError != report.Runs[0].FinalError {
		t.Errorf("final error not preserved")
	}

	named, err := st.LoadTrajectories(runID)
	if err != nil {
		t.Fatalf("load trajectories failed: %v", err)
	}
	if len(named) != 4 {
		t.Fatalf("expected 4 trajectories, got %d", len(named))
	}
	if named[0].Name != AnalyticName || named[3].Name != "symplectic" {
		t.Errorf("unexpected order %s..%s", named[0].Name, named[3].Name)
	}
	for i, want := range []float64{report.Analytic.Position[7], report.Runs[2].Trajectory.Velocity[7]} {
		var got float64
		if i == 0 {
			got = named[0].Trajectory.Position[7]
		} else {
			got = named[3].Trajectory.Velocity[7]
		}
		if got != want {
			t.Errorf("value %d not preserved: got %v want %v", i, got, want)
		}
	}

	samples, err := st.LoadTruncation(runID)
	if err != nil {
		t.Fatalf("load truncation failed: %v", err)
	}
	if samples.Len() != report.Truncation.Len() || samples.MaxErrors[0] != report.Truncation.MaxErrors[0] {
		t.Errorf("truncation samples not preserved: %+v", samples)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	first := runReport(t)
	second := runReport(t)
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	for _, r := range []*experiment.Report{second, first} {
		if _, err := st.Save(r); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Timestamp.Before(runs[1].Timestamp) {
		t.Error("runs should be sorted oldest first")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(runReport(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, trajectoriesFile, truncationFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, trajectoriesFile))
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	want := "time,analytic_x,analytic_v,explicit_x,explicit_v,implicit_x,implicit_v,symplectic_x,symplectic_v"
	if header != want {
		t.Errorf("header = %q", header)
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectories("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if err := st.ExportCSV(&bytes.Buffer{}, "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.Save(nil); err == nil {
		t.Error("expected error saving nil report")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(runReport(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != runID {
		t.Errorf("expected run %s, got %s", runID, data.Run.ID)
	}
	if traj := data.Trajectories["implicit"]; traj == nil || traj.Len() != 21 {
		t.Errorf("implicit trajectory missing or short")
	}
	if data.Truncation == nil {
		t.Error("expected truncation samples")
	}

	buf.Reset()
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatalf("export csv failed: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 22 {
		t.Errorf("expected 22 csv lines, got %d", lines)
	}
}

func TestLoadReport(t *testing.T) {
	st := New(t.TempDir())
	original := runReport(t)
	runID, err := st.Save(original)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	report, err := st.LoadReport(runID)
	if err != nil {
		t.Fatalf("load report failed: %v", err)
	}
	if len(report.Runs) != len(original.Runs) {
		t.Fatalf("expected %d runs, got %d", len(original.Runs), len(report.Runs))
	}
	for i, run := range report.Runs {
		want := original.Runs[i]
		if run.Scheme != want.Scheme {
			t.Errorf("run %d: scheme %s, want %s", i, run.Scheme, want.Scheme)
		}
		if run.FinalError != want.FinalError || run.EnergyDrift != want.EnergyDrift {
			t.Errorf("%s: summary values differ after reload", run.Scheme)
		}
		if run.Metrics["stability"] != want.Metrics["stability"] {
			t.Errorf("%s: metrics not restored", run.Scheme)
		}
	}
	if report.Truncation == nil || report.Config.End != 2 {
		t.Error("truncation or config not restored")
	}

	if _, err := st.LoadReport("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestLoadReportHeaderOnly(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(runReport(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	header := "time,analytic_x,analytic_v,explicit_x,explicit_v\n"
	if err := os.WriteFile(filepath.Join(st.Dir(runID), trajectoriesFile), []byte(header), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadTrajectories(runID); !errors.Is(err, dynamo.ErrInvalidTrajectory) {
		t.Errorf("expected ErrInvalidTrajectory, got %v", err)
	}
	if _, err := st.LoadReport(runID); !errors.Is(err, dynamo.ErrInvalidTrajectory) {
		t.Errorf("expected ErrInvalidTrajectory from LoadReport, got %v", err)
	}
}
