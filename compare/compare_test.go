package compare

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

type stubBand struct {
	dataType  DataType
	blockSize Size
}

func (b stubBand) DataType() DataType { return b.dataType }
func (b stubBand) BlockSize() Size    { return b.blockSize }

// stubDataset records every band access and fails for indices beyond
// its real band list.
type stubDataset struct {
	size     Size
	bands    []stubBand
	accessed []int
}

func (d *stubDataset) BandCount() int   { return len(d.bands) }
func (d *stubDataset) RasterSize() Size { return d.size }

func (d *stubDataset) Band(index int) (Band, error) {
	d.accessed = append(d.accessed, index)
	if index < 1 || index > len(d.bands) {
		return nil, fmt.Errorf("band %d out of range", index)
	}
	return d.bands[index-1], nil
}

type stubRef struct {
	crs    string
	closed *int
}

func (r stubRef) IsSame(other SpatialRef) bool {
	o, ok := other.(stubRef)
	return ok && o.crs == r.crs
}

func (r stubRef) Close() { *r.closed++ }

// stubParser resolves projection text to a coordinate system name through
// per-encoding lookup tables.
type stubParser struct {
	wkt    map[string]string
	esri   map[string]string
	closed int
	parsed int
}

func (p *stubParser) lookup(table map[string]string, text string) (SpatialRef, error) {
	crs, ok := table[text]
	if !ok {
		return nil, errors.New("corrupt data")
	}
	p.parsed++
	return stubRef{crs: crs, closed: &p.closed}, nil
}

func (p *stubParser) FromWKT(text string) (SpatialRef, error)  { return p.lookup(p.wkt, text) }
func (p *stubParser) FromESRI(text string) (SpatialRef, error) { return p.lookup(p.esri, text) }

const (
	wgs84WKT   = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`
	wgs84ESRI  = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
	sirgasESRI = `GEOGCS["GCS_SIRGAS_2000",DATUM["D_SIRGAS_2000",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
)

func newStubParser() *stubParser {
	return &stubParser{
		wkt: map[string]string{
			wgs84WKT:   "wgs84",
			wgs84ESRI:  "wgs84",
			sirgasESRI: "sirgas2000",
		},
		esri: map[string]string{
			wgs84WKT:   "wgs84",
			wgs84ESRI:  "wgs84",
			sirgasESRI: "sirgas2000",
		},
	}
}

func TestCompareGeoTransform(t *testing.T) {
	golden := GeoTransform{1, 2, 3, 4, 5, 6}
	if v := CompareGeoTransform(golden, golden); !v.Equal || len(v.Mismatches) != 0 {
		t.Errorf("expected reflexive match, got %v", v)
	}

	for i := range golden {
		new := golden
		new[i] += 0.5
		v := CompareGeoTransform(golden, new)
		if v.Equal {
			t.Errorf("coefficient %d differs, expected mismatch", i)
		}
		if len(v.Mismatches) != 1 || v.Mismatches[0].Check != CheckGeoTransform {
			t.Errorf("coefficient %d: unexpected diagnostics %v", i, v.Mismatches)
		}
	}
}

func TestCompareGeoTransformExact(t *testing.T) {
	golden := GeoTransform{0.1 + 0.2, 1, 0, 0, 0, -1}
	new := GeoTransform{0.3, 1, 0, 0, 0, -1}
	if v := CompareGeoTransform(golden, new); v.Equal {
		t.Errorf("expected exact comparison to reject %v vs %v", golden, new)
	}
}

func TestCompareGeoTransformBits(t *testing.T) {
	nan := GeoTransform{math.NaN(), 1, 0, 0, 0, -1}
	if v := CompareGeoTransform(nan, nan); !v.Equal {
		t.Errorf("expected NaN coefficient to match itself")
	}

	positive := GeoTransform{0, 1, 0, 0, 0, -1}
	negative := GeoTransform{math.Copysign(0, -1), 1, 0, 0, 0, -1}
	if v := CompareGeoTransform(positive, negative); v.Equal {
		t.Errorf("expected +0 and -0 origins to differ")
	}
}

func TestCompareProjectionIdentical(t *testing.T) {
	p := &stubParser{}
	v, err := CompareProjection(p, "unparseable but identical", "unparseable but identical")
	if err != nil || !v.Equal {
		t.Errorf("expected identical strings to match without parsing, got %v, %v", v, err)
	}
	if p.parsed != 0 {
		t.Errorf("fast path parsed %d references", p.parsed)
	}
}

func TestCompareProjectionCrossFormat(t *testing.T) {
	p := newStubParser()
	v, err := CompareProjection(p, wgs84WKT, wgs84ESRI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal {
		t.Errorf("expected WKT and ESRI WGS84 to match, got %v", v)
	}
	if p.closed != p.parsed || p.parsed != 4 {
		t.Errorf("expected 4 references parsed and closed, got %d parsed %d closed", p.parsed, p.closed)
	}
}

func TestCompareProjectionDifferent(t *testing.T) {
	p := newStubParser()
	v, err := CompareProjection(p, wgs84WKT, sirgasESRI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Equal {
		t.Errorf("expected WGS84 and SIRGAS 2000 to differ")
	}
	if len(v.Mismatches) != 1 || v.Mismatches[0].Check != CheckProjection {
		t.Errorf("unexpected diagnostics %v", v.Mismatches)
	}
}

func TestCompareProjectionSymmetric(t *testing.T) {
	texts := []string{wgs84WKT, wgs84ESRI, sirgasESRI}
	for _, a := range texts {
		for _, b := range texts {
			ab, errAB := CompareProjection(newStubParser(), a, b)
			ba, errBA := CompareProjection(newStubParser(), b, a)
			if errAB != nil || errBA != nil {
				t.Fatalf("unexpected errors %v, %v", errAB, errBA)
			}
			if ab.Equal != ba.Equal {
				t.Errorf("asymmetric result for %q / %q", a, b)
			}
		}
	}
}

func TestCompareProjectionOneSided(t *testing.T) {
	// Text that parses in one encoding only must fail both ways round.
	p := newStubParser()
	delete(p.esri, wgs84WKT)
	for _, pair := range [][2]string{{wgs84WKT, wgs84ESRI}, {wgs84ESRI, wgs84WKT}} {
		_, err := CompareProjection(p, pair[0], pair[1])
		var perr *ProjectionParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ProjectionParseError, got %v", err)
		}
		if perr.Format != FormatESRI || perr.Text != wgs84WKT {
			t.Errorf("unexpected parse error %+v", perr)
		}
	}
	if p.closed != p.parsed {
		t.Errorf("leaked references: %d parsed %d closed", p.parsed, p.closed)
	}
}

func TestCompareProjectionParseError(t *testing.T) {
	p := newStubParser()
	_, err := CompareProjection(p, wgs84WKT, "not a projection")
	var perr *ProjectionParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProjectionParseError, got %v", err)
	}
	if perr.Text != "not a projection" {
		t.Errorf("unexpected text in error: %q", perr.Text)
	}
	if p.closed != p.parsed {
		t.Errorf("leaked references: %d parsed %d closed", p.parsed, p.closed)
	}
}

func TestCompareProjectionEmpty(t *testing.T) {
	p := newStubParser()
	v, err := CompareProjection(p, "", "")
	if err != nil || !v.Equal {
		t.Errorf("expected two unset projections to match, got %v, %v", v, err)
	}

	v, err = CompareProjection(p, wgs84WKT, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Equal || v.Mismatches[0].New != "<none>" {
		t.Errorf("expected missing projection mismatch, got %v", v)
	}
}

func TestCompareBand(t *testing.T) {
	tests := []struct {
		golden, new stubBand
		equal       bool
		check       string
	}{
		{stubBand{Float32, Size{256, 256}}, stubBand{Float32, Size{256, 256}}, true, ""},
		{stubBand{Float32, Size{256, 256}}, stubBand{Int16, Size{256, 256}}, false, CheckDataType},
		{stubBand{Float32, Size{256, 256}}, stubBand{Float32, Size{128, 128}}, false, CheckBlockSize},
		{stubBand{Float32, Size{256, 1}}, stubBand{Float32, Size{1, 256}}, false, CheckBlockSize},
		// data type is checked first
		{stubBand{Byte, Size{256, 256}}, stubBand{UInt16, Size{128, 128}}, false, CheckDataType},
	}

	for i, test := range tests {
		v := CompareBand(test.golden, test.new, 3)
		if v.Equal != test.equal {
			t.Errorf("[%d] expecting %v, actual %v", i, test.equal, v.Equal)
			continue
		}
		if !test.equal {
			if len(v.Mismatches) != 1 || v.Mismatches[0].Check != test.check || v.Mismatches[0].Band != 3 {
				t.Errorf("[%d] unexpected diagnostics %v", i, v.Mismatches)
			}
		}
		if !reflect.DeepEqual(v.Skipped, UnimplementedBandChecks) {
			t.Errorf("[%d] expected skipped checks %v, actual %v", i, UnimplementedBandChecks, v.Skipped)
		}
	}
}

func TestCompareDatasetBandsCount(t *testing.T) {
	golden := &stubDataset{size: Size{10, 10}, bands: []stubBand{{Byte, Size{10, 1}}}}
	new := &stubDataset{size: Size{10, 10}, bands: []stubBand{{Byte, Size{10, 1}}, {Byte, Size{10, 1}}}}

	v, err := CompareDatasetBands(golden, new)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Equal || v.Mismatches[0].Check != CheckBandCount {
		t.Errorf("expected band count mismatch, got %v", v)
	}
	if len(golden.accessed) != 0 || len(new.accessed) != 0 {
		t.Errorf("bands fetched before band count check: %v %v", golden.accessed, new.accessed)
	}
}

func TestCompareDatasetBandsSize(t *testing.T) {
	golden := &stubDataset{size: Size{10, 10}, bands: []stubBand{{Byte, Size{10, 1}}}}
	new := &stubDataset{size: Size{10, 20}, bands: []stubBand{{Byte, Size{10, 1}}}}

	v, err := CompareDatasetBands(golden, new)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Equal || v.Mismatches[0].Check != CheckRasterSize {
		t.Errorf("expected raster size mismatch, got %v", v)
	}
	if v.Mismatches[0].Golden != "10x10" || v.Mismatches[0].New != "10x20" {
		t.Errorf("unexpected diagnostic %v", v.Mismatches[0])
	}
	if len(golden.accessed) != 0 || len(new.accessed) != 0 {
		t.Errorf("bands fetched before raster size check")
	}
}

func TestCompareDatasetBandsShortCircuit(t *testing.T) {
	golden := &stubDataset{size: Size{8, 8}, bands: []stubBand{
		{Float32, Size{8, 8}}, {Float32, Size{8, 8}}, {Float32, Size{8, 8}},
	}}
	new := &stubDataset{size: Size{8, 8}, bands: []stubBand{
		{Float32, Size{8, 8}}, {Int32, Size{8, 8}}, {Int32, Size{8, 8}},
	}}

	v, err := CompareDatasetBands(golden, new)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Equal {
		t.Fatalf("expected band 2 mismatch")
	}
	if m := v.Mismatches[0]; m.Check != CheckDataType || m.Band != 2 || m.Golden != "Float32" || m.New != "Int32" {
		t.Errorf("unexpected diagnostic %v", m)
	}
	if !reflect.DeepEqual(golden.accessed, []int{1, 2}) || !reflect.DeepEqual(new.accessed, []int{1, 2}) {
		t.Errorf("expected access order [1 2], got %v and %v", golden.accessed, new.accessed)
	}
}

func TestCompareDatasetBandsAccessError(t *testing.T) {
	golden := &stubDataset{size: Size{8, 8}, bands: []stubBand{{Byte, Size{8, 8}}}}
	new := &brokenDataset{stubDataset{size: Size{8, 8}, bands: []stubBand{{Byte, Size{8, 8}}}}}

	_, err := CompareDatasetBands(golden, new)
	var berr *BandAccessError
	if !errors.As(err, &berr) || berr.Index != 1 {
		t.Errorf("expected BandAccessError for band 1, got %v", err)
	}
}

type brokenDataset struct {
	stubDataset
}

func (d *brokenDataset) Band(index int) (Band, error) {
	return nil, errors.New("read failure")
}

func TestCompareDatasetBandsEmpty(t *testing.T) {
	v, err := CompareDatasetBands(&stubDataset{size: Size{1, 1}}, &stubDataset{size: Size{1, 1}})
	if err != nil || !v.Equal {
		t.Errorf("expected band-less datasets to match, got %v, %v", v, err)
	}
}

func TestEndToEnd(t *testing.T) {
	geot := GeoTransform{0, 1, 0, 0, 0, -1}
	golden := &stubDataset{size: Size{512, 512}, bands: []stubBand{{Float32, Size{256, 256}}}}
	new := &stubDataset{size: Size{512, 512}, bands: []stubBand{{Float32, Size{256, 256}}}}

	if v := CompareGeoTransform(geot, geot); !v.Equal {
		t.Errorf("geotransform: %v", v)
	}
	if v, err := CompareProjection(newStubParser(), wgs84WKT, wgs84ESRI); err != nil || !v.Equal {
		t.Errorf("projection: %v, %v", v, err)
	}
	if v, err := CompareDatasetBands(golden, new); err != nil || !v.Equal {
		t.Errorf("bands: %v, %v", v, err)
	}

	new.bands[0].blockSize = Size{128, 128}
	if v := CompareBand(golden.bands[0], new.bands[0], 1); v.Equal {
		t.Errorf("expected band comparator to reject block size 128x128")
	}
	v, err := CompareDatasetBands(golden, new)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Equal {
		t.Fatalf("expected dataset bands comparator to reject block size 128x128")
	}
	m := v.Mismatches[0]
	if m.Check != CheckBlockSize || m.Band != 1 {
		t.Errorf("unexpected diagnostic %v", m)
	}
	if s := m.String(); s != "band 1: block size mismatch: golden 256x256, new 128x128" {
		t.Errorf("unexpected diagnostic text %q", s)
	}
}

func TestDataTypeNames(t *testing.T) {
	for _, name := range []string{"Byte", "UInt16", "Int16", "UInt32", "Int32", "Float32", "Float64", "CInt16", "CInt32", "CFloat32", "CFloat64", "UInt64", "Int64", "Int8"} {
		dt, err := ParseDataType(name)
		if err != nil || dt.String() != name {
			t.Errorf("data type %s: got %v, %v", name, dt, err)
		}
	}
	if s := DataType(42).String(); s != "DataType(42)" {
		t.Errorf("expected out of range data type to print its value, got %q", s)
	}
	if _, err := ParseDataType("Int128"); err == nil {
		t.Errorf("expected error for unknown data type name")
	}
}

func TestProjectionParseErrorTruncate(t *testing.T) {
	text := strings.Repeat("a", 63) + "é" + strings.Repeat("b", 10)
	err := &ProjectionParseError{Text: text, Format: FormatWKT, Err: errors.New("corrupt data")}
	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Errorf("error message is not valid UTF-8: %q", msg)
	}
	if !strings.Contains(msg, strings.Repeat("a", 63)+"...") || strings.Contains(msg, "b") {
		t.Errorf("unexpected truncation %q", msg)
	}

	short := &ProjectionParseError{Text: "LOCAL_CS[", Format: FormatESRI, Err: errors.New("corrupt data")}
	if s := short.Error(); s != `cannot parse projection as ESRI "LOCAL_CS[": corrupt data` {
		t.Errorf("unexpected message %q", s)
	}
}

func TestCompareBandNewDataTypes(t *testing.T) {
	golden := stubBand{dataType: DataType(15), blockSize: Size{256, 256}}
	new := stubBand{dataType: DataType(16), blockSize: Size{256, 256}}
	v := CompareBand(golden, new, 2)
	if v.Equal {
		t.Fatalf("expected differing data types to mismatch")
	}
	if s := v.Mismatches[0].String(); s != "band 2: data type mismatch: golden DataType(15), new DataType(16)" {
		t.Errorf("unexpected diagnostic text %q", s)
	}
	if s := Int64.String(); s != "Int64" {
		t.Errorf("expected Int64, got %q", s)
	}
}
