package nifti

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pablomc88/megtools/domain/volume"
)

// Encode writes g as a little-endian float64 NIfTI-1 stream. It exists so
// synthetic atlases can be round-tripped through the reader in tests and
// tooling; it is not a general-purpose writer.
func Encode(w io.Writer, g *volume.Grid4) error {
	var hdr header
	hdr.SizeofHdr = headerSize
	hdr.Regular = 'r'
	hdr.Dim[0] = 4
	hdr.Dim[1], hdr.Dim[2], hdr.Dim[3], hdr.Dim[4] = int16(g.Nx), int16(g.Ny), int16(g.Nz), int16(g.Nt)
	for i := 5; i < 8; i++ {
		hdr.Dim[i] = 1
	}
	hdr.Datatype = dtFloat64
	hdr.Bitpix = 64
	for i := range hdr.Pixdim {
		hdr.Pixdim[i] = 1
	}
	hdr.VoxOffset = headerSize + 4
	hdr.SclSlope = 1
	hdr.SformCode = 1
	for j := 0; j < 4; j++ {
		hdr.SrowX[j] = float32(g.Affine[j])
		hdr.SrowY[j] = float32(g.Affine[4+j])
		hdr.SrowZ[j] = float32(g.Affine[8+j])
	}
	copy(hdr.Magic[:], "n+1\x00")

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write nifti header: %w", err)
	}
	// Pad to vox_offset.
	if _, err := w.Write(make([]byte, 4)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, g.Data); err != nil {
		return fmt.Errorf("write voxel data: %w", err)
	}
	return nil
}
