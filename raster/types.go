package raster

import (
	"fmt"

	"github.com/nci/rastercmp/compare"
)

type BandInfo struct {
	Type       compare.DataType `json:"-"`
	TypeName   string           `json:"array_type"`
	BlockXSize int              `json:"block_x_size"`
	BlockYSize int              `json:"block_y_size"`
}

func (b *BandInfo) DataType() compare.DataType {
	return b.Type
}

func (b *BandInfo) BlockSize() compare.Size {
	return compare.Size{Width: b.BlockXSize, Height: b.BlockYSize}
}

// DatasetInfo is a read-only snapshot of an opened raster dataset. It
// keeps no GDAL handle once Open returns.
type DatasetInfo struct {
	FileName        string               `json:"filename"`
	Driver          string               `json:"file_type"`
	GeoTransform    compare.GeoTransform `json:"geotransform"`
	HasGeoTransform bool                 `json:"has_geotransform"`
	ProjWKT         string               `json:"proj_wkt"`
	Proj4           string               `json:"proj4,omitempty"`
	XSize           int                  `json:"x_size"`
	YSize           int                  `json:"y_size"`
	Bands           []*BandInfo          `json:"bands"`
}

func (d *DatasetInfo) BandCount() int {
	return len(d.Bands)
}

func (d *DatasetInfo) RasterSize() compare.Size {
	return compare.Size{Width: d.XSize, Height: d.YSize}
}

func (d *DatasetInfo) Band(index int) (compare.Band, error) {
	if index < 1 || index > len(d.Bands) {
		return nil, fmt.Errorf("%s: band index %d out of range [1, %d]", d.FileName, index, len(d.Bands))
	}
	return d.Bands[index-1], nil
}
