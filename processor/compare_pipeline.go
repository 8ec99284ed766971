package processor

import (
	"fmt"
	"log"
	"time"

	"github.com/nci/rastercmp/compare"
	"github.com/nci/rastercmp/metrics"
	"github.com/nci/rastercmp/raster"
	"github.com/nci/rastercmp/srs"
	"github.com/nci/rastercmp/utils"
	"golang.org/x/net/context"
)

// Opener snapshots the raster at path.
type Opener func(path string) (*raster.DatasetInfo, error)

// PairResult holds the verdicts of one golden/new pair. A verdict is nil
// when its comparator could not run.
type PairResult struct {
	Pair         utils.Pair
	GeoTransform *compare.Verdict
	Projection   *compare.Verdict
	Bands        *compare.Verdict
	Passed       bool
	Err          error
	Start        time.Time
	Duration     time.Duration
}

// Info converts the result into a report record.
func (r *PairResult) Info() *metrics.ComparisonInfo {
	info := &metrics.ComparisonInfo{
		ReqTime:  r.Start.UTC().Format(time.RFC3339),
		Duration: r.Duration,
		Name:     r.Pair.Name,
		Golden:   r.Pair.Golden,
		New:      r.Pair.New,
		Checks:   map[string]*metrics.CheckInfo{},
		Passed:   r.Passed,
	}
	for name, v := range map[string]*compare.Verdict{VarGeoTransform: r.GeoTransform, VarProjection: r.Projection, VarBands: r.Bands} {
		if v != nil {
			info.Checks[name] = metrics.NewCheckInfo(*v)
		}
	}
	if r.Err != nil {
		info.Error = r.Err.Error()
	}
	return info
}

// Mismatches lists the diagnostics of every comparator in check order.
func (r *PairResult) Mismatches() []compare.Mismatch {
	var out []compare.Mismatch
	for _, v := range []*compare.Verdict{r.GeoTransform, r.Projection, r.Bands} {
		if v != nil {
			out = append(out, v.Mismatches...)
		}
	}
	return out
}

// PairComparator opens both datasets of a pair and runs the geotransform,
// projection and band comparators on them.
type PairComparator struct {
	Open          Opener
	Parser        compare.SRSParser
	Policy        *Policy
	MissingGeoref string
	Verbose       bool
}

func NewPairComparator(policy *Policy, missingGeoref string, verbose bool) *PairComparator {
	return &PairComparator{
		Open:          raster.Open,
		Parser:        srs.NewParser(),
		Policy:        policy,
		MissingGeoref: missingGeoref,
		Verbose:       verbose,
	}
}

func (pc *PairComparator) Compare(pair utils.Pair) *PairResult {
	res := &PairResult{Pair: pair, Start: time.Now()}
	defer func() { res.Duration = time.Since(res.Start) }()

	golden, err := pc.Open(pair.Golden)
	if err != nil {
		res.Err = err
		return res
	}
	new, err := pc.Open(pair.New)
	if err != nil {
		res.Err = err
		return res
	}

	if pc.MissingGeoref == utils.MissingGeorefError {
		for _, ds := range []*raster.DatasetInfo{golden, new} {
			if !ds.HasGeoTransform || ds.ProjWKT == "" {
				res.Err = fmt.Errorf("%s: dataset has no georeferencing", ds.FileName)
				return res
			}
		}
	}

	gtVerdict := compareGeoTransform(golden, new)
	res.GeoTransform = &gtVerdict

	projVerdict, err := compare.CompareProjection(pc.Parser, golden.ProjWKT, new.ProjWKT)
	if err != nil {
		res.Err = err
	} else {
		res.Projection = &projVerdict
	}

	bandsVerdict, err := compare.CompareDatasetBands(golden, new)
	if err != nil {
		if res.Err == nil {
			res.Err = err
		}
	} else {
		res.Bands = &bandsVerdict
	}

	if res.Err != nil {
		return res
	}

	res.Passed, res.Err = pc.Policy.Evaluate(res.GeoTransform.Equal, res.Projection.Equal, res.Bands.Equal)
	if pc.Verbose {
		log.Printf("compare %s: geotransform=%v projection=%v bands=%v passed=%v", pair.Name, res.GeoTransform.Equal, res.Projection.Equal, res.Bands.Equal, res.Passed)
	}
	return res
}

// compareGeoTransform treats a missing geotransform as a difference
// unless both datasets lack one.
func compareGeoTransform(golden, new *raster.DatasetInfo) compare.Verdict {
	if golden.HasGeoTransform == new.HasGeoTransform {
		return compare.CompareGeoTransform(golden.GeoTransform, new.GeoTransform)
	}

	describe := func(ds *raster.DatasetInfo) string {
		if !ds.HasGeoTransform {
			return "<none>"
		}
		return fmt.Sprintf("%v", ds.GeoTransform)
	}
	return compare.Verdict{Mismatches: []compare.Mismatch{{
		Check:  compare.CheckGeoTransform,
		Golden: describe(golden),
		New:    describe(new),
	}}}
}

// RunBatch compares every pair with at most conc comparisons in flight.
// Results are in the order of pairs. A pair that fails never stops the
// others; pairs not started before ctx is done carry ctx's error.
func RunBatch(ctx context.Context, pairs []utils.Pair, pc *PairComparator, conc int, logger metrics.Logger) []*PairResult {
	results := make([]*PairResult, len(pairs))
	cLimiter := NewConcLimiter(conc)

	for i, pair := range pairs {
		if err := cLimiter.Increase(ctx); err != nil {
			for j := i; j < len(pairs); j++ {
				results[j] = &PairResult{Pair: pairs[j], Err: err, Start: time.Now()}
			}
			break
		}

		go func(idx int, pair utils.Pair) {
			defer cLimiter.Decrease()
			results[idx] = pc.Compare(pair)
		}(i, pair)
	}
	cLimiter.Wait()

	if logger != nil {
		for _, res := range results {
			logger.Log(res.Info())
		}
	}
	return results
}
