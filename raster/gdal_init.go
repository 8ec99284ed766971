package raster

// #include "gdal.h"
// #include "gdal_frmts.h"
// #cgo pkg-config: gdal
import "C"

import (
	"os"
	"sync"
)

var initOnce sync.Once

// InitGdal sets GDAL environment defaults and registers drivers. It is
// safe to call more than once.
func InitGdal() {
	initOnce.Do(func() {
		setDefaultEnv("GDAL_PAM_ENABLED", "NO")
		setDefaultEnv("GDAL_DISABLE_READDIR_ON_OPEN", "EMPTY_DIR")
		setDefaultEnv("GDAL_NETCDF_VERIFY_DIMS", "NO")

		registerGDALDrivers()
	})
}

func setDefaultEnv(envVar string, defaultVal string) {
	if _, ok := os.LookupEnv(envVar); !ok {
		os.Setenv(envVar, defaultVal)
	}
}

func registerGDALDrivers() {
	// Drivers are interrogated in a linear scan when opening a file, so
	// the formats golden files usually come in are registered first.
	present := map[string]bool{}
	C.GDALAllRegister()
	for i := 0; i < int(C.GDALGetDriverCount()); i++ {
		driver := C.GDALGetDriver(C.int(i))
		present[C.GoString(C.GDALGetDriverShortName(driver))] = true
	}

	for C.GDALGetDriverCount() > 0 {
		C.GDALDeregisterDriver(C.GDALGetDriver(0))
	}

	if present["GTiff"] {
		C.GDALRegister_GTiff()
	}
	if present["AAIGrid"] {
		C.GDALRegister_AAIGrid()
	}
	if present["netCDF"] {
		C.GDALRegister_netCDF()
	}
	if present["HDF5"] {
		C.GDALRegister_HDF5()
	}
	if present["JP2OpenJPEG"] {
		C.GDALRegister_JP2OpenJPEG()
	}
	C.GDALAllRegister()
}
