package params

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
}

func writeValidDir(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"b":       "1000\n",
		"tau":     "600000\n",
		"sigma":   "0\n",
		"upsilon": "600\n",
		"lambda":  "0.7\n",
		"mu1":     "10\n",
		"mu2":     "590\n",
		"C":       "-1.3,0.3\n0.5,-1.5\n",
		"D":       "0.05,0.95\n0.15,0.85\n",
		"omega":   "0.3,0.7\n",
		"S":       "-0.1,0.08\n0.06,-0.1\n",
		"beta":    "0.2,0.8\n",
		"T":       "-0.001,0\n0,-0.001\n",
		"alpha":   "0.1,0.9\n",
		"ratios":  "1,2,5\n",
	}
	for name, content := range files {
		if _, override := extra[name]; override {
			continue
		}
		writeCSV(t, dir, name, content)
	}
	for name, content := range extra {
		if content == "" {
			continue
		}
		writeCSV(t, dir, name, content)
	}
	return dir
}

func TestLoadFromValidDirectory(t *testing.T) {
	dir := writeValidDir(t, nil)
	p, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if p.B != 1000 {
		t.Fatalf("expected B=1000, got %d", p.B)
	}
	if !p.HasRatios || len(p.Ratios) != 3 {
		t.Fatalf("expected 3 ratios, got %v (hasRatios=%v)", p.Ratios, p.HasRatios)
	}
	if p.Sigma != 0 {
		t.Fatalf("expected Sigma=0 (already absolute, not a fraction), got %v", p.Sigma)
	}
}

func TestLoadFromSigmaAsFractionOfTau(t *testing.T) {
	dir := writeValidDir(t, map[string]string{"sigma": "0.5\n", "tau": "1000\n"})
	p, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if p.Sigma != 500 {
		t.Fatalf("expected sigma interpreted as 0.5*tau=500, got %v", p.Sigma)
	}
}

func TestLoadFromMissingParameter(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFrom(dir); err == nil {
		t.Fatalf("expected an error for an empty directory")
	} else if _, ok := err.(*MissingParameter); !ok {
		t.Fatalf("expected *MissingParameter, got %T: %v", err, err)
	}
}

func TestLoadFromExtraneousParameter(t *testing.T) {
	dir := writeValidDir(t, nil)
	writeCSV(t, dir, "bogus", "1\n")
	if _, err := LoadFrom(dir); err == nil {
		t.Fatalf("expected an error for an unrecognized file")
	} else if _, ok := err.(*ExtraneousParameter); !ok {
		t.Fatalf("expected *ExtraneousParameter, got %T: %v", err, err)
	}
}

func TestLoadFromNoFeeModel(t *testing.T) {
	dir := writeValidDir(t, map[string]string{"ratios": ""})
	if _, err := LoadFrom(dir); err != ErrNoFeeModel {
		t.Fatalf("expected ErrNoFeeModel, got %v", err)
	}
}

func TestLoadFromTruncatedNormalFeeModel(t *testing.T) {
	dir := writeValidDir(t, map[string]string{
		"ratios":    "",
		"fee_min":   "0\n",
		"fee_loc":   "10\n",
		"fee_max":   "20\n",
		"fee_scale": "5\n",
	})
	p, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if p.HasRatios {
		t.Fatalf("expected HasRatios=false")
	}
	if p.FeeLoc != 10 {
		t.Fatalf("expected FeeLoc=10, got %v", p.FeeLoc)
	}
}

func TestLoadFromDimensionMismatch(t *testing.T) {
	dir := writeValidDir(t, map[string]string{"omega": "0.3,0.3,0.4\n"})
	if _, err := LoadFrom(dir); err == nil {
		t.Fatalf("expected a dimension-mismatch validation error")
	}
}

func TestLoadFromInvalidDistribution(t *testing.T) {
	dir := writeValidDir(t, map[string]string{"omega": "0.3,0.3\n"})
	if _, err := LoadFrom(dir); err == nil {
		t.Fatalf("expected an invalid-distribution validation error")
	}
}
