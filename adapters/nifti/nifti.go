// Package nifti reads NIfTI-1 images, the volumetric format the parcellation
// atlas ships in. Only the features the atlas pipeline needs are supported:
// single-file .nii / .nii.gz, the common scalar datatypes, scl scaling, and
// the sform voxel-to-world affine.
package nifti

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/volume"
	"github.com/pablomc88/megtools/ports"
)

const headerSize = 348

// NIfTI-1 datatype codes
const (
	dtUint8   = 2
	dtInt16   = 4
	dtInt32   = 8
	dtFloat32 = 16
	dtFloat64 = 64
)

type header struct {
	SizeofHdr    int32
	DataType     [10]byte
	DBName       [18]byte
	Extents      int32
	SessionError int16
	Regular      byte
	DimInfo      byte
	Dim          [8]int16
	IntentP1     float32
	IntentP2     float32
	IntentP3     float32
	IntentCode   int16
	Datatype     int16
	Bitpix       int16
	SliceStart   int16
	Pixdim       [8]float32
	VoxOffset    float32
	SclSlope     float32
	SclInter     float32
	SliceEnd     int16
	SliceCode    byte
	XyztUnits    byte
	CalMax       float32
	CalMin       float32
	SliceDur     float32
	Toffset      float32
	Glmax        int32
	Glmin        int32
	Descrip      [80]byte
	AuxFile      [24]byte
	QformCode    int16
	SformCode    int16
	QuaternB     float32
	QuaternC     float32
	QuaternD     float32
	QoffsetX     float32
	QoffsetY     float32
	QoffsetZ     float32
	SrowX        [4]float32
	SrowY        [4]float32
	SrowZ        [4]float32
	IntentName   [16]byte
	Magic        [4]byte
}

// Loader reads NIfTI files from disk; it satisfies ports.AtlasSource
type Loader struct{}

var _ ports.AtlasSource = (*Loader)(nil)

// NewLoader creates a NIfTI file loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadAtlas reads a 4D NIfTI image from path, transparently decompressing
// .gz files.
func (l *Loader) LoadAtlas(path string) (*volume.Grid4, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrAtlasNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream of %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return Decode(r)
}

// Decode parses a NIfTI-1 stream into a 4D grid
func Decode(r io.Reader) (*volume.Grid4, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read nifti header: %w", err)
	}

	// Endianness is signalled by whether sizeof_hdr decodes to 348.
	var order binary.ByteOrder = binary.LittleEndian
	if order.Uint32(raw[:4]) != headerSize {
		order = binary.BigEndian
		if order.Uint32(raw[:4]) != headerSize {
			return nil, fmt.Errorf("not a NIfTI-1 file: sizeof_hdr != %d", headerSize)
		}
	}

	var hdr header
	if err := binary.Read(bytes.NewReader(raw), order, &hdr); err != nil {
		return nil, fmt.Errorf("decode nifti header: %w", err)
	}
	if magic := string(hdr.Magic[:3]); magic != "n+1" && magic != "ni1" {
		return nil, fmt.Errorf("not a NIfTI-1 file: magic %q", magic)
	}

	ndim := int(hdr.Dim[0])
	if ndim < 3 || ndim > 4 {
		return nil, fmt.Errorf("unsupported image dimensionality %d", ndim)
	}
	nx, ny, nz := int(hdr.Dim[1]), int(hdr.Dim[2]), int(hdr.Dim[3])
	nt := 1
	if ndim == 4 {
		nt = int(hdr.Dim[4])
	}
	if nx <= 0 || ny <= 0 || nz <= 0 || nt <= 0 {
		return nil, fmt.Errorf("invalid image shape %dx%dx%dx%d", nx, ny, nz, nt)
	}

	// Skip any extension bytes between the header and the data.
	if skip := int64(hdr.VoxOffset) - headerSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, fmt.Errorf("skip to voxel data: %w", err)
		}
	}

	n := nx * ny * nz * nt
	data, err := readVoxels(r, order, hdr.Datatype, n)
	if err != nil {
		return nil, err
	}

	// scl_slope == 0 means no scaling, per the standard.
	if hdr.SclSlope != 0 && (hdr.SclSlope != 1 || hdr.SclInter != 0) {
		slope, inter := float64(hdr.SclSlope), float64(hdr.SclInter)
		for i := range data {
			data[i] = data[i]*slope + inter
		}
	}

	return &volume.Grid4{
		Nx: nx, Ny: ny, Nz: nz, Nt: nt,
		Affine: affineOf(hdr),
		Data:   data,
	}, nil
}

func readVoxels(r io.Reader, order binary.ByteOrder, datatype int16, n int) ([]float64, error) {
	out := make([]float64, n)
	switch datatype {
	case dtUint8:
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read voxel data: %w", err)
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case dtInt16:
		buf := make([]int16, n)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, fmt.Errorf("read voxel data: %w", err)
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case dtInt32:
		buf := make([]int32, n)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, fmt.Errorf("read voxel data: %w", err)
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case dtFloat32:
		buf := make([]float32, n)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, fmt.Errorf("read voxel data: %w", err)
		}
		for i, v := range buf {
			out[i] = float64(v)
		}
	case dtFloat64:
		if err := binary.Read(r, order, out); err != nil {
			return nil, fmt.Errorf("read voxel data: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported NIfTI datatype %d", datatype)
	}
	return out, nil
}

// affineOf prefers the sform matrix; without one it falls back to a diagonal
// pixdim scaling.
func affineOf(hdr header) [16]float64 {
	var a [16]float64
	if hdr.SformCode > 0 {
		rows := [3][4]float32{hdr.SrowX, hdr.SrowY, hdr.SrowZ}
		for i, row := range rows {
			for j, v := range row {
				a[4*i+j] = float64(v)
			}
		}
	} else {
		for i := 0; i < 3; i++ {
			d := float64(hdr.Pixdim[i+1])
			if d == 0 || math.IsNaN(d) {
				d = 1
			}
			a[4*i+i] = d
		}
	}
	a[15] = 1
	return a
}
