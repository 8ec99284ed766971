// Package srs parses projection text into OGR spatial references.
package srs

// #include <stdio.h>
// #include <stdlib.h>
// #include <string.h>
// #include "gdal.h"
// #include "ogr_srs_api.h" /* for SRS calls */
// #include "cpl_string.h"
// #cgo pkg-config: gdal
//OGRSpatialReferenceH importWkt(char *projWKT)
//{
//	char *pszWkt = projWKT;
//	OGRSpatialReferenceH hSRS;
//
//	CPLErrorReset();
//	hSRS = OSRNewSpatialReference(NULL);
//	if(OSRImportFromWkt(hSRS, &pszWkt) != OGRERR_NONE) {
//		OSRDestroySpatialReference(hSRS);
//		return NULL;
//	}
//	return hSRS;
//}
//
//OGRSpatialReferenceH importEsri(char *projESRI)
//{
//	char *papszPrj[2] = {projESRI, NULL};
//	OGRSpatialReferenceH hSRS;
//
//	CPLErrorReset();
//	hSRS = OSRNewSpatialReference(NULL);
//	if(OSRImportFromESRI(hSRS, papszPrj) != OGRERR_NONE) {
//		OSRDestroySpatialReference(hSRS);
//		return NULL;
//	}
//	return hSRS;
//}
//
//char *exportProj4(OGRSpatialReferenceH hSRS)
//{
//	char *pszProj4 = NULL;
//	char *result;
//
//	if(OSRExportToProj4(hSRS, &pszProj4) != OGRERR_NONE) {
//		CPLFree(pszProj4);
//		return NULL;
//	}
//	result = strdup(pszProj4);
//	CPLFree(pszProj4);
//
//	return result;
//}
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/nci/rastercmp/compare"
)

// SpatialRef owns an OGRSpatialReferenceH. It must be closed.
type SpatialRef struct {
	handle C.OGRSpatialReferenceH
	once   sync.Once
}

// IsSame reports whether other describes the same coordinate system.
// References not created by this package never match.
func (sr *SpatialRef) IsSame(other compare.SpatialRef) bool {
	o, ok := other.(*SpatialRef)
	if !ok || sr.handle == nil || o.handle == nil {
		return false
	}
	return C.OSRIsSame(sr.handle, o.handle) != 0
}

func (sr *SpatialRef) Close() {
	sr.once.Do(func() {
		if sr.handle != nil {
			C.OSRDestroySpatialReference(sr.handle)
			sr.handle = nil
		}
	})
}

// Proj4 exports the reference as a proj4 string.
func (sr *SpatialRef) Proj4() (string, error) {
	if sr.handle == nil {
		return "", fmt.Errorf("spatial reference is closed")
	}
	cProj4 := C.exportProj4(sr.handle)
	if cProj4 == nil {
		return "", lastError("proj4 export failed")
	}
	defer C.free(unsafe.Pointer(cProj4))
	return C.GoString(cProj4), nil
}

// Parser implements compare.SRSParser on top of OGR.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) FromWKT(text string) (compare.SpatialRef, error) {
	return p.parse(text, func(c *C.char) C.OGRSpatialReferenceH { return C.importWkt(c) })
}

func (p *Parser) FromESRI(text string) (compare.SpatialRef, error) {
	return p.parse(text, func(c *C.char) C.OGRSpatialReferenceH { return C.importEsri(c) })
}

func (p *Parser) parse(text string, importer func(*C.char) C.OGRSpatialReferenceH) (compare.SpatialRef, error) {
	if text == "" {
		return nil, fmt.Errorf("empty projection")
	}
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))

	hSRS := importer(cText)
	if hSRS == nil {
		return nil, lastError("corrupt or unsupported projection")
	}
	return &SpatialRef{handle: hSRS}, nil
}

// ToProj4 parses WKT text and renders it as proj4.
func ToProj4(projWKT string) (string, error) {
	sr, err := NewParser().FromWKT(projWKT)
	if err != nil {
		return "", err
	}
	defer sr.Close()
	return sr.(*SpatialRef).Proj4()
}

func lastError(fallback string) error {
	msg := C.GoString(C.CPLGetLastErrorMsg())
	if msg == "" {
		msg = fallback
	}
	return fmt.Errorf("%s", msg)
}
