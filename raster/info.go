// Package raster takes structural snapshots of raster files through GDAL.
package raster

// #include <stdlib.h>
// #include "gdal.h"
// #include "cpl_string.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/nci/rastercmp/compare"
)

// Open reads the georeferencing and band structure of path and closes
// the file again.
func Open(path string) (*DatasetInfo, error) {
	InitGdal()

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	C.CPLErrorReset()
	hDataset := C.GDALOpen(cPath, C.GA_ReadOnly)
	if hDataset == nil {
		err := C.CPLGetLastErrorMsg()
		return nil, fmt.Errorf("GDAL could not open dataset %s: %s", path, C.GoString(err))
	}
	defer C.GDALClose(hDataset)

	hDriver := C.GDALGetDatasetDriver(hDataset)
	info := &DatasetInfo{
		FileName: path,
		Driver:   C.GoString(C.GDALGetDriverShortName(hDriver)),
		ProjWKT:  C.GoString(C.GDALGetProjectionRef(hDataset)),
		XSize:    int(C.GDALGetRasterXSize(hDataset)),
		YSize:    int(C.GDALGetRasterYSize(hDataset)),
	}

	dArr := [6]C.double{}
	if C.GDALGetGeoTransform(hDataset, &dArr[0]) == C.CE_None {
		info.HasGeoTransform = true
	}
	// GDAL fills in its default transform when the dataset has none.
	info.GeoTransform = *(*compare.GeoTransform)(unsafe.Pointer(&dArr))

	nBands := int(C.GDALGetRasterCount(hDataset))
	info.Bands = make([]*BandInfo, 0, nBands)
	for i := 1; i <= nBands; i++ {
		hBand := C.GDALGetRasterBand(hDataset, C.int(i))
		if hBand == nil {
			return nil, fmt.Errorf("GDAL could not read band %d of %s", i, path)
		}
		var xBlock, yBlock C.int
		C.GDALGetBlockSize(hBand, &xBlock, &yBlock)

		dt := compare.DataType(C.GDALGetRasterDataType(hBand))
		info.Bands = append(info.Bands, &BandInfo{
			Type:       dt,
			TypeName:   C.GoString(C.GDALGetDataTypeName(C.GDALGetRasterDataType(hBand))),
			BlockXSize: int(xBlock),
			BlockYSize: int(yBlock),
		})
	}

	return info, nil
}
