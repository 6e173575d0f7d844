package params

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AdrienHorgnies/bcqueue/rng"
)

// Params holds every value required to construct a scheduler, fee source and
// queue simulator.
type Params struct {
	B int

	Sigma, Tau, Upsilon float64
	Lambda, Mu1, Mu2    float64

	C     [][]float64
	D     [][]float64
	Omega []float64

	S    [][]float64
	Beta []float64

	T     [][]float64
	Alpha []float64

	// Exactly one fee model is populated.
	HasRatios                        bool
	Ratios                           []float64
	FeeMin, FeeLoc, FeeMax, FeeScale float64
}

var baseNames = []string{
	"b", "tau", "sigma", "upsilon", "lambda", "mu1", "mu2",
	"C", "D", "omega", "S", "beta", "T", "alpha",
}

var truncNormalNames = []string{"fee_min", "fee_loc", "fee_max", "fee_scale"}

// LoadFrom reads one CSV file per required parameter name from dir and
// validates the result: scalars are single-cell CSVs, vectors single-row,
// matrices square.
func LoadFrom(dir string) (*Params, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	recognized := make(map[string]bool, len(baseNames)+len(truncNormalNames)+1)
	for _, n := range baseNames {
		recognized[n] = true
	}
	for _, n := range truncNormalNames {
		recognized[n] = true
	}
	recognized["ratios"] = true

	raw := make(map[string][][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !recognized[name] {
			return nil, &ExtraneousParameter{Name: name}
		}
		rows, err := readCSV(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, &ParameterParseError{Name: name, Err: err}
		}
		raw[name] = rows
	}

	for _, n := range baseNames {
		if _, ok := raw[n]; !ok {
			return nil, &MissingParameter{Name: n}
		}
	}

	p := &Params{}

	b, err := scalarInt(raw, "b")
	if err != nil {
		return nil, err
	}
	p.B = b

	tau, err := scalarFloat(raw, "tau")
	if err != nil {
		return nil, err
	}
	p.Tau = tau

	rawSigma, err := scalarFloat(raw, "sigma")
	if err != nil {
		return nil, err
	}
	p.Sigma = fractionOfTau(rawSigma, tau)

	rawUpsilon, err := scalarFloat(raw, "upsilon")
	if err != nil {
		return nil, err
	}
	p.Upsilon = fractionOfTau(rawUpsilon, tau)

	if p.Lambda, err = scalarFloat(raw, "lambda"); err != nil {
		return nil, err
	}
	if p.Mu1, err = scalarFloat(raw, "mu1"); err != nil {
		return nil, err
	}
	if p.Mu2, err = scalarFloat(raw, "mu2"); err != nil {
		return nil, err
	}

	if p.C, err = matrix(raw, "C"); err != nil {
		return nil, err
	}
	if p.D, err = matrix(raw, "D"); err != nil {
		return nil, err
	}
	if p.Omega, err = vector(raw, "omega"); err != nil {
		return nil, err
	}
	if p.S, err = matrix(raw, "S"); err != nil {
		return nil, err
	}
	if p.Beta, err = vector(raw, "beta"); err != nil {
		return nil, err
	}
	if p.T, err = matrix(raw, "T"); err != nil {
		return nil, err
	}
	if p.Alpha, err = vector(raw, "alpha"); err != nil {
		return nil, err
	}

	if err := p.loadFeeModel(raw); err != nil {
		return nil, err
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// fractionOfTau scales a value in (0, 1] by tau; a value above 1 is taken as
// an absolute time. Applies to both σ and υ.
func fractionOfTau(v, tau float64) float64 {
	if v > 1 {
		return v
	}
	return v * tau
}

func (p *Params) loadFeeModel(raw map[string][][]string) error {
	_, hasRatios := raw["ratios"]
	truncCount := 0
	for _, n := range truncNormalNames {
		if _, ok := raw[n]; ok {
			truncCount++
		}
	}

	switch {
	case hasRatios && truncCount > 0:
		return &ExtraneousParameter{Name: truncNormalNames[0]}
	case hasRatios:
		ratios, err := vector(raw, "ratios")
		if err != nil {
			return err
		}
		p.HasRatios = true
		p.Ratios = ratios
		return nil
	case truncCount == 4:
		var err error
		if p.FeeMin, err = scalarFloat(raw, "fee_min"); err != nil {
			return err
		}
		if p.FeeLoc, err = scalarFloat(raw, "fee_loc"); err != nil {
			return err
		}
		if p.FeeMax, err = scalarFloat(raw, "fee_max"); err != nil {
			return err
		}
		if p.FeeScale, err = scalarFloat(raw, "fee_scale"); err != nil {
			return err
		}
		return nil
	case truncCount == 0:
		return ErrNoFeeModel
	default:
		for _, n := range truncNormalNames {
			if _, ok := raw[n]; !ok {
				return &MissingParameter{Name: n}
			}
		}
		return nil
	}
}

func (p *Params) validate() error {
	if p.B <= 0 {
		return &ErrInvalidRule{Rule: "b must be a strictly positive integer"}
	}
	if !(0 <= p.Sigma && p.Sigma < p.Tau) {
		return &ErrInvalidRule{Rule: "0 <= sigma < tau"}
	}
	if p.Upsilon <= 0 {
		return &ErrInvalidRule{Rule: "upsilon must be strictly positive"}
	}
	if p.Lambda <= 0 {
		return &ErrInvalidRule{Rule: "lambda > 0"}
	}
	if p.Mu1 <= 0 {
		return &ErrInvalidRule{Rule: "mu1 > 0"}
	}
	if p.Mu2 <= 0 {
		return &ErrInvalidRule{Rule: "mu2 > 0"}
	}
	if len(p.C) != len(p.D) || len(p.C) != len(p.Omega) {
		return &ErrInvalidRule{Rule: "C, D and omega must have the same size"}
	}
	if len(p.S) != len(p.Beta) {
		return &ErrInvalidRule{Rule: "S and beta must have the same size"}
	}
	if len(p.T) != len(p.Alpha) {
		return &ErrInvalidRule{Rule: "T and alpha must have the same size"}
	}
	if err := rng.CheckDistribution(p.Omega); err != nil {
		return &ErrInvalidRule{Rule: "omega must sum to 1"}
	}
	if err := rng.CheckDistribution(p.Beta); err != nil {
		return &ErrInvalidRule{Rule: "beta must sum to 1"}
	}
	if err := rng.CheckDistribution(p.Alpha); err != nil {
		return &ErrInvalidRule{Rule: "alpha must sum to 1"}
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func scalarFloat(raw map[string][][]string, name string) (float64, error) {
	rows := raw[name]
	if len(rows) != 1 || len(rows[0]) != 1 {
		return 0, &ParameterParseError{Name: name, Err: errNotScalar}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64)
	if err != nil {
		return 0, &ParameterParseError{Name: name, Err: err}
	}
	return v, nil
}

func scalarInt(raw map[string][][]string, name string) (int, error) {
	rows := raw[name]
	if len(rows) != 1 || len(rows[0]) != 1 {
		return 0, &ParameterParseError{Name: name, Err: errNotScalar}
	}
	v, err := strconv.Atoi(strings.TrimSpace(rows[0][0]))
	if err != nil {
		return 0, &ParameterParseError{Name: name, Err: err}
	}
	return v, nil
}

func vector(raw map[string][][]string, name string) ([]float64, error) {
	rows := raw[name]
	if len(rows) != 1 {
		return nil, &ParameterParseError{Name: name, Err: errNotVector}
	}
	out := make([]float64, len(rows[0]))
	for i, cell := range rows[0] {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, &ParameterParseError{Name: name, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func matrix(raw map[string][][]string, name string) ([][]float64, error) {
	rows := raw[name]
	n := len(rows)
	out := make([][]float64, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, &ParameterParseError{Name: name, Err: errNotSquare}
		}
		out[i] = make([]float64, n)
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, &ParameterParseError{Name: name, Err: err}
			}
			out[i][j] = v
		}
	}
	return out, nil
}
