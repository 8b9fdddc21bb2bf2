// Package sources implements video.Source against raw planar/packed YUV
// and RGB files, the only input modality this engine accepts — it never
// demuxes a container the way ffms2-backed readers elsewhere in the pack
// do.
//
// Adapted from metrics_calc_lite.cpp's CYUVReader/CRGBReader, generalized
// from their cyclic meta/plane buffer aliasing into the disjoint plane
// allocation DESIGN.md settles on: every plane of every frame owns its
// own backing buffer, so there's no lifetime coupling between the raw
// packed read buffer and the planar views handed to metrics.
package sources

import (
	"io"
	"os"

	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/primitives"
	"github.com/vqmetrics/mclgo/status"
	"github.com/vqmetrics/mclgo/video"
)

// rawSource implements video.Source for both the YUV and RGB family of
// raw tags; which demux path Read takes is a switch on params.Tag.
type rawSource struct {
	params video.SequenceParams

	file      *os.File
	packedBuf []byte // one frame's worth of file bytes, reused across reads
	srcElem   primitives.ElemBytes

	planarBuf [4][]byte // disjoint owned buffers for the demuxed planes

	numFields    int
	interlaced   bool
	curFrame     int
	frame        video.Frame
	bottomParity bool
}

// Open grounds geometry/container sizing on CYUVReader/CRGBReader's
// OpenReadFile: file size divided by one frame's packed byte size gives
// the field count, doubled again when the tag is interlaced.
func Open(params video.SequenceParams) (video.Source, error) {
	f, err := os.Open(params.Path)
	if err != nil {
		return nil, status.Wrap(status.CodeInput, err)
	}

	s := &rawSource{params: params, file: f, interlaced: params.Tag.IsInterlaced()}
	s.frame.NumPlanes = params.Tag.NumChannels()
	if !params.Alpha && s.frame.NumPlanes == 4 && !params.Tag.IsRGB() {
		// Alpha is opt-in for YUV 4-channel tags; RGB32/ARGB16/A2RGB10
		// always carry it since there is no 3-channel RGB raw tag.
		s.frame.NumPlanes = 3
	}

	bd := params.ResolvedBitDepth()
	s.srcElem = primitives.Elem8
	switch params.Tag {
	case pixfmt.Y410P, pixfmt.Y410I, pixfmt.A2RGB10P, pixfmt.A2RGB10I:
		// packed into a single 4-byte word regardless of resolved bit depth
	default:
		if bd != pixfmt.D008 {
			s.srcElem = primitives.Elem16
		}
	}

	w, h := params.Width, params.Height
	chroma := params.Tag.ChromaClassOf()
	sampleBytes := bd.ContainerBytes()

	var planeW, planeH [4]int
	switch {
	case params.Tag.IsRGB():
		for i := 0; i < 4; i++ {
			planeW[i], planeH[i] = w, h
		}
	case chroma == pixfmt.C420:
		planeW[0], planeH[0] = w, h
		planeW[1], planeH[1] = w/2, h/2
		planeW[2], planeH[2] = w/2, h/2
	case chroma == pixfmt.C422:
		planeW[0], planeH[0] = w, h
		planeW[1], planeH[1] = w/2, h
		planeW[2], planeH[2] = w/2, h
	case chroma == pixfmt.C444:
		for i := 0; i < 4; i++ {
			planeW[i], planeH[i] = w, h
		}
	}

	frameBytes, err := rawFrameBytes(params.Tag, w, h, s.srcElem)
	if err != nil {
		return nil, err
	}
	s.packedBuf = make([]byte, frameBytes)

	for i := 0; i < s.frame.NumPlanes; i++ {
		s.planarBuf[i] = make([]byte, planeW[i]*planeH[i]*sampleBytes)
		s.frame.Planes[i] = video.PlaneView{
			Data:        s.planarBuf[i],
			Step:        planeW[i] * sampleBytes,
			Width:       planeW[i],
			Height:      planeH[i],
			SampleBytes: sampleBytes,
		}
	}

	info, err := f.Stat()
	if err != nil {
		return nil, status.Wrap(status.CodeInput, err)
	}
	if info.Size() == 0 {
		return nil, status.Fail(status.ReasonEmptyFile, "raw source %s is empty", params.Path)
	}
	s.numFields = int(info.Size() / int64(frameBytes))
	if s.interlaced {
		s.numFields <<= 1
	}
	s.curFrame = -1

	return s, nil
}

// rawFrameBytes computes one whole frame's packed byte size on disk,
// grounded on CYUVReader/CRGBReader's m_Meta.step * m_source_pixel_size.
func rawFrameBytes(tag pixfmt.Tag, w, h int, e primitives.ElemBytes) (int, error) {
	sample := int(e)
	if tag.IsRGB() {
		return w * h * 4 * sample, nil
	}
	switch tag.ChromaClassOf() {
	case pixfmt.C420:
		return w * h * 3 / 2 * sample, nil
	case pixfmt.C422:
		return w * h * 2 * sample, nil
	case pixfmt.C444:
		switch tag {
		case pixfmt.I444P, pixfmt.I444I, pixfmt.I410P, pixfmt.I410I:
			return w * h * 3 * sample, nil
		default:
			return w * h * 4 * sample, nil
		}
	}
	return 0, status.New(status.CodeInput, "rawFrameBytes: unhandled tag %v", tag)
}

func (s *rawSource) NumFields() int                  { return s.numFields }
func (s *rawSource) IsInterlaced() bool              { return s.interlaced }
func (s *rawSource) IsRGB() bool                     { return s.params.Tag.IsRGB() }
func (s *rawSource) ChromaClass() pixfmt.ChromaClass { return s.params.Tag.ChromaClassOf() }
func (s *rawSource) BitDepth() pixfmt.BitDepth       { return s.params.ResolvedBitDepth() }
func (s *rawSource) Close() error                    { return s.file.Close() }

// Read materializes the field at fieldIndex, demuxing the underlying
// frame from disk only when it differs from the cached one, per
// CYUVReader::ReadRawFrame's m_cur_frame guard.
func (s *rawSource) Read(fieldIndex int) (bool, error) {
	frame := fieldIndex
	bottom := false
	if s.interlaced {
		bottom = (fieldIndex&1 == 1) != s.params.BottomFirst
		frame = fieldIndex >> 1
	}

	if frame != s.curFrame {
		offset := int64(frame) * int64(len(s.packedBuf))
		if _, err := s.file.Seek(offset, io.SeekStart); err != nil {
			return false, status.Wrap(status.CodeInput, err)
		}
		if _, err := io.ReadFull(s.file, s.packedBuf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return false, nil
			}
			return false, status.Wrap(status.CodeInput, err)
		}
		if err := s.demuxFrame(); err != nil {
			return false, err
		}
		if s.params.RShift != 0 {
			for i := 0; i < s.frame.NumPlanes; i++ {
				pv := s.frame.Planes[i]
				if err := primitives.RightShiftInPlaceBytes(
					pv.Data, pv.Step, pv.Width, pv.Height, pv.SampleBytes, s.params.RShift); err != nil {
					return false, err
				}
			}
		}
		s.curFrame = frame
	}

	s.bottomParity = bottom
	return true, nil
}

func (s *rawSource) Frame() *video.Frame {
	if !s.interlaced {
		return &s.frame
	}
	var f video.Frame
	f.NumPlanes = s.frame.NumPlanes
	f.FrameIndex = s.curFrame
	for i := 0; i < f.NumPlanes; i++ {
		f.Planes[i] = s.frame.Planes[i].Field(s.bottomParity)
	}
	return &f
}

// demuxFrame dispatches s.packedBuf to the right primitives kernel (or a
// plain planar copy) for s.params.Tag, grounded on CYUVReader/
// CRGBReader::ReadRawFrame's per-type switch.
func (s *rawSource) demuxFrame() error {
	p := s.params
	w, h := p.Width, p.Height

	switch p.Tag {
	case pixfmt.I420P, pixfmt.I420I:
		return s.copyPlanarThrough(w, h, w/2, h/2)

	case pixfmt.YV12P, pixfmt.YV12I:
		return s.copyPlanarThroughSwapped(w, h, w/2, h/2)

	case pixfmt.NV12P, pixfmt.NV12I:
		ySize := w * h * int(s.srcElem)
		return primitives.NV12ToI420(
			s.packedBuf[:ySize], w*int(s.srcElem),
			s.packedBuf[ySize:], w*int(s.srcElem),
			s.frame.Planes[0].Data, s.frame.Planes[0].Step,
			s.frame.Planes[1].Data, s.frame.Planes[1].Step,
			s.frame.Planes[2].Data, s.frame.Planes[2].Step,
			w, h, s.srcElem)

	case pixfmt.I422P, pixfmt.I422I:
		return s.copyPlanarThrough(w, h, w/2, h)

	case pixfmt.YUY2P, pixfmt.YUY2I:
		return primitives.YUY2ToI422(
			s.packedBuf, w*2*int(s.srcElem),
			s.frame.Planes[0].Data, s.frame.Planes[0].Step,
			s.frame.Planes[1].Data, s.frame.Planes[1].Step,
			s.frame.Planes[2].Data, s.frame.Planes[2].Step,
			w, h, s.srcElem)

	case pixfmt.NV16P, pixfmt.NV16I:
		ySize := w * h * int(s.srcElem)
		return primitives.NV16ToI422(
			s.packedBuf[:ySize], w*int(s.srcElem),
			s.packedBuf[ySize:], w*int(s.srcElem),
			s.frame.Planes[0].Data, s.frame.Planes[0].Step,
			s.frame.Planes[1].Data, s.frame.Planes[1].Step,
			s.frame.Planes[2].Data, s.frame.Planes[2].Step,
			w, h, s.srcElem)

	case pixfmt.I444P, pixfmt.I444I, pixfmt.I410P, pixfmt.I410I:
		return s.copyPlanarThrough(w, h, w, h)

	case pixfmt.AYUVP, pixfmt.AYUVI:
		// packed byte order is V,U,Y,A; plane slots are Y,U,V,A.
		dst := [4][]byte{s.frame.Planes[2].Data, s.frame.Planes[1].Data, s.frame.Planes[0].Data, s.alphaDst()}
		if err := primitives.Copy4PlanarDeinterleave(s.packedBuf, w*4*int(s.srcElem), dst, s.frame.Planes[0].Step, w, h, s.srcElem); err != nil {
			return err
		}
		return nil

	case pixfmt.Y416P, pixfmt.Y416I:
		// packed word order is U,Y,V,A; plane slots are Y,U,V,A.
		dst := [4][]byte{s.frame.Planes[1].Data, s.frame.Planes[0].Data, s.frame.Planes[2].Data, s.alphaDst()}
		return primitives.Copy4PlanarDeinterleave(s.packedBuf, w*4*int(s.srcElem), dst, s.frame.Planes[0].Step, w, h, s.srcElem)

	case pixfmt.Y410P, pixfmt.Y410I:
		y16 := make([]uint16, w*h)
		u16 := make([]uint16, w*h)
		v16 := make([]uint16, w*h)
		a16 := make([]uint16, w*h)
		if err := primitives.Y410ToPlanar10(s.packedBuf, w*4, y16, u16, v16, a16, w, w, h); err != nil {
			return err
		}
		encode16(s.frame.Planes[0].Data, y16)
		encode16(s.frame.Planes[1].Data, u16)
		encode16(s.frame.Planes[2].Data, v16)
		if s.frame.NumPlanes == 4 {
			encode16(s.frame.Planes[3].Data, a16)
		}
		return nil

	case pixfmt.RGB32P, pixfmt.RGB32I, pixfmt.ARGB16P, pixfmt.ARGB16I:
		dst := [4][]byte{s.frame.Planes[0].Data, s.frame.Planes[1].Data, s.frame.Planes[2].Data, s.alphaDst()}
		return primitives.Copy4PlanarDeinterleave(s.packedBuf, w*4*int(s.srcElem), dst, s.frame.Planes[0].Step, w, h, s.srcElem)

	case pixfmt.A2RGB10P, pixfmt.A2RGB10I:
		r16 := make([]uint16, w*h)
		g16 := make([]uint16, w*h)
		b16 := make([]uint16, w*h)
		a16 := make([]uint16, w*h)
		if err := primitives.A2RGB10ToPlanar10(s.packedBuf, w*4, r16, g16, b16, a16, w, w, h); err != nil {
			return err
		}
		encode16(s.frame.Planes[2].Data, r16)
		encode16(s.frame.Planes[1].Data, g16)
		encode16(s.frame.Planes[0].Data, b16)
		encode16(s.frame.Planes[3].Data, a16)
		return nil

	default:
		return status.New(status.CodeInput, "demuxFrame: unhandled tag %v", p.Tag)
	}
}

// alphaDst returns the alpha plane's backing buffer, or a scratch buffer
// sized to match when alpha was not selected (NumPlanes==3) so the demux
// kernels, which always write 4 channels, have somewhere to put it.
func (s *rawSource) alphaDst() []byte {
	if s.frame.NumPlanes == 4 {
		return s.frame.Planes[3].Data
	}
	return make([]byte, len(s.frame.Planes[0].Data))
}

// encode16 writes src as little-endian uint16 samples into dst, the
// byte-backed plane buffer.
func encode16(dst []byte, src []uint16) {
	for i, v := range src {
		dst[2*i] = byte(v)
		dst[2*i+1] = byte(v >> 8)
	}
}

// copyPlanarThrough handles tags whose file layout already matches the
// destination plane layout (I420, I422, I444/I410): a straight row copy
// per plane, no rearrangement.
func (s *rawSource) copyPlanarThrough(lumaW, lumaH, chromaW, chromaH int) error {
	sample := int(s.srcElem)
	off := 0
	off = copyPlane(s.packedBuf, off, s.frame.Planes[0], lumaW, lumaH, sample)
	if s.frame.NumPlanes >= 2 {
		off = copyPlane(s.packedBuf, off, s.frame.Planes[1], chromaW, chromaH, sample)
	}
	if s.frame.NumPlanes >= 3 {
		copyPlane(s.packedBuf, off, s.frame.Planes[2], chromaW, chromaH, sample)
	}
	return nil
}

// copyPlanarThroughSwapped is copyPlanarThrough for YV12: the second file
// block is V, the third is U, per pixfmt.Tag.SwapChroma.
func (s *rawSource) copyPlanarThroughSwapped(lumaW, lumaH, chromaW, chromaH int) error {
	sample := int(s.srcElem)
	off := 0
	off = copyPlane(s.packedBuf, off, s.frame.Planes[0], lumaW, lumaH, sample)
	off = copyPlane(s.packedBuf, off, s.frame.Planes[2], chromaW, chromaH, sample)
	copyPlane(s.packedBuf, off, s.frame.Planes[1], chromaW, chromaH, sample)
	return nil
}

// copyPlane copies w*h*sample bytes from src starting at off into dst's
// rows, respecting dst's own Step, and returns the new src offset.
func copyPlane(src []byte, off int, dst video.PlaneView, w, h, sample int) int {
	rowBytes := w * sample
	for y := 0; y < h; y++ {
		copy(dst.Data[y*dst.Step:y*dst.Step+rowBytes], src[off:off+rowBytes])
		off += rowBytes
	}
	return off
}
