// Package compare decides whether a candidate raster is structurally and
// geographically equivalent to a golden raster. Comparators work on
// snapshots that have already been read from disk and keep no state
// between calls.
package compare

import (
	"fmt"
	"math"
	"strconv"
)

// CompareGeoTransform reports whether the two transforms are identical.
// Coefficients are compared bit for bit; golden and new are expected to
// share one georeferencing definition, not a numerically close one. A NaN
// coefficient therefore matches the same NaN, and +0 does not match -0.
func CompareGeoTransform(golden, new GeoTransform) Verdict {
	for i := range golden {
		if math.Float64bits(golden[i]) != math.Float64bits(new[i]) {
			return fail(Mismatch{
				Check:  CheckGeoTransform,
				Golden: fmt.Sprintf("%v (coefficient %d = %s)", golden, i, strconv.FormatFloat(golden[i], 'g', -1, 64)),
				New:    fmt.Sprintf("%v (coefficient %d = %s)", new, i, strconv.FormatFloat(new[i], 'g', -1, 64)),
			})
		}
	}
	return pass()
}

// CompareProjection reports whether two projection strings describe the
// same coordinate system. Identical strings match without parsing.
// Otherwise golden is parsed as WKT and new as ESRI WKT, then golden as
// ESRI WKT and new as WKT, and both pairs must be the same coordinate
// system. Testing both directions keeps the result symmetric.
//
// A string that fails to parse yields a *ProjectionParseError.
func CompareProjection(p SRSParser, golden, new string) (Verdict, error) {
	if golden == new {
		return pass(), nil
	}

	if golden == "" || new == "" {
		return fail(Mismatch{Check: CheckProjection, Golden: quoteProjection(golden), New: quoteProjection(new)}), nil
	}

	wktGolden, err := parseProjection(p.FromWKT, golden, FormatWKT)
	if err != nil {
		return Verdict{}, err
	}
	defer wktGolden.Close()

	esriNew, err := parseProjection(p.FromESRI, new, FormatESRI)
	if err != nil {
		return Verdict{}, err
	}
	defer esriNew.Close()

	esriGolden, err := parseProjection(p.FromESRI, golden, FormatESRI)
	if err != nil {
		return Verdict{}, err
	}
	defer esriGolden.Close()

	wktNew, err := parseProjection(p.FromWKT, new, FormatWKT)
	if err != nil {
		return Verdict{}, err
	}
	defer wktNew.Close()

	if wktGolden.IsSame(esriNew) && esriGolden.IsSame(wktNew) {
		return pass(), nil
	}
	return fail(Mismatch{Check: CheckProjection, Golden: quoteProjection(golden), New: quoteProjection(new)}), nil
}

func parseProjection(parse func(string) (SpatialRef, error), text, format string) (SpatialRef, error) {
	sr, err := parse(text)
	if err != nil {
		return nil, &ProjectionParseError{Text: text, Format: format, Err: err}
	}
	return sr, nil
}

func quoteProjection(text string) string {
	if text == "" {
		return "<none>"
	}
	return strconv.Quote(text)
}

// CompareBand compares the structure of one band: data type first, then
// block size. It stops at the first difference. Band contents, nodata,
// statistics, metadata, colour interpretation, overviews and masks are
// not compared and are listed in Skipped.
func CompareBand(golden, new Band, index int) Verdict {
	var v Verdict
	if gt, nt := golden.DataType(), new.DataType(); gt != nt {
		v = fail(Mismatch{Check: CheckDataType, Band: index, Golden: gt.String(), New: nt.String()})
	} else if gb, nb := golden.BlockSize(), new.BlockSize(); gb != nb {
		v = fail(Mismatch{Check: CheckBlockSize, Band: index, Golden: gb.String(), New: nb.String()})
	} else {
		v = pass()
	}
	v.Skipped = append([]string(nil), UnimplementedBandChecks...)
	return v
}

// CompareDatasetBands compares band count and raster size, then every
// band in order through CompareBand, returning at the first failing band.
// Bands are only fetched once count and size agree, so every index
// requested is in range on both sides.
func CompareDatasetBands(golden, new Dataset) (Verdict, error) {
	gc, nc := golden.BandCount(), new.BandCount()
	if gc != nc {
		return fail(Mismatch{Check: CheckBandCount, Golden: strconv.Itoa(gc), New: strconv.Itoa(nc)}), nil
	}

	if gs, ns := golden.RasterSize(), new.RasterSize(); gs != ns {
		return fail(Mismatch{Check: CheckRasterSize, Golden: gs.String(), New: ns.String()}), nil
	}

	v := pass()
	for i := 1; i <= gc; i++ {
		gb, err := golden.Band(i)
		if err != nil {
			return Verdict{}, &BandAccessError{Index: i, Err: err}
		}
		nb, err := new.Band(i)
		if err != nil {
			return Verdict{}, &BandAccessError{Index: i, Err: err}
		}

		v = CompareBand(gb, nb, i)
		if !v.Equal {
			return v, nil
		}
	}
	if gc == 0 {
		v.Skipped = append([]string(nil), UnimplementedBandChecks...)
	}
	return v, nil
}
