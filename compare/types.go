package compare

import "fmt"

// GeoTransform holds the six affine coefficients mapping pixel/line
// coordinates to georeferenced coordinates:
// originX, pixelWidth, rowRotation, originY, columnRotation, pixelHeight.
type GeoTransform [6]float64

// DataType is a raster sample type. Values follow GDAL's GDALDataType
// numbering so snapshots taken through cgo convert directly.
type DataType int

const (
	Unknown DataType = iota
	Byte
	UInt16
	Int16
	UInt32
	Int32
	Float32
	Float64
	CInt16
	CInt32
	CFloat32
	CFloat64
	UInt64
	Int64
	Int8
)

var dataTypeNames = map[DataType]string{Unknown: "Unknown", Byte: "Byte", UInt16: "UInt16", Int16: "Int16",
	UInt32: "UInt32", Int32: "Int32", Float32: "Float32", Float64: "Float64",
	CInt16: "CInt16", CInt32: "CInt32", CFloat32: "CFloat32", CFloat64: "CFloat64",
	UInt64: "UInt64", Int64: "Int64", Int8: "Int8"}

// String returns the GDAL type name. Types newer than this list print
// their numeric value so that two of them stay distinguishable.
func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// ParseDataType maps a GDAL type name such as "Float32" to its DataType.
func ParseDataType(name string) (DataType, error) {
	for t, n := range dataTypeNames {
		if n == name {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown data type: %s", name)
}

// Size is a width/height pair in pixels. It describes both raster
// dimensions and block (tile) dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Band exposes the structural facts of one raster band.
type Band interface {
	DataType() DataType
	BlockSize() Size
}

// Dataset exposes the structural facts of an opened raster dataset.
// Band indices are 1-based.
type Dataset interface {
	BandCount() int
	RasterSize() Size
	Band(index int) (Band, error)
}

// SpatialRef is a parsed coordinate reference system. IsSame reports
// whether two references describe the same coordinate system regardless
// of the text encoding they were parsed from.
type SpatialRef interface {
	IsSame(other SpatialRef) bool
	Close()
}

// SRSParser parses projection text under an assumed encoding.
type SRSParser interface {
	FromWKT(text string) (SpatialRef, error)
	FromESRI(text string) (SpatialRef, error)
}
