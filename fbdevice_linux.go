//go:build linux

package cadmus

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux framebuffer ioctls.
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602

	// mxcfbSendUpdate triggers an e-ink panel update on i.MX devices.
	mxcfbSendUpdate = 0x4048462e
)

// Waveform modes understood by the EPDC driver.
const (
	waveformModeAuto = 0x101
	waveformModeDU   = 0x1 // fast monochrome
	waveformModeGC16 = 0x2 // 16-level grayscale
)

const updateModePartial = 0
const updateModeFull = 1

type fbVarScreenInfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	_            [64]byte
	_            [40]byte
}

type fbFixScreenInfo struct {
	ID         [16]byte
	SmemStart  uintptr
	SmemLen    uint32
	Type       uint32
	TypeAux    uint32
	Visual     uint32
	XPanStep   uint16
	YPanStep   uint16
	YWrapStep  uint16
	LineLength uint32
	_          [32]byte
}

type mxcfbRect struct {
	Top    uint32
	Left   uint32
	Width  uint32
	Height uint32
}

type mxcfbUpdateData struct {
	UpdateRegion  mxcfbRect
	WaveformMode  uint32
	UpdateMode    uint32
	UpdateMarker  uint32
	Temp          int32
	Flags         uint32
	AltBufferData [48]byte
}

// DeviceFramebuffer drives a memory-mapped /dev/fb0 with an 8-bit grayscale
// layout and issues EPDC update ioctls on Flush. Only e-ink panels exposing
// the i.MX interface are supported.
type DeviceFramebuffer struct {
	file       *os.File
	mem        []byte
	width      int
	height     int
	lineLength int
	marker     uint32
}

// OpenDeviceFramebuffer maps the framebuffer device at path (normally
// /dev/fb0).
func OpenDeviceFramebuffer(path string) (*DeviceFramebuffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("framebuffer: open %s: %w", path, err)
	}

	var varInfo fbVarScreenInfo
	if err := fbIoctl(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&varInfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("framebuffer: read screen info: %w", err)
	}
	if varInfo.BitsPerPixel != 8 {
		f.Close()
		return nil, fmt.Errorf("framebuffer: unsupported depth %d bpp", varInfo.BitsPerPixel)
	}

	var fixInfo fbFixScreenInfo
	if err := fbIoctl(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&fixInfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("framebuffer: read fixed info: %w", err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(fixInfo.SmemLen),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("framebuffer: mmap: %w", err)
	}

	return &DeviceFramebuffer{
		file:       f,
		mem:        mem,
		width:      int(varInfo.XRes),
		height:     int(varInfo.YRes),
		lineLength: int(fixInfo.LineLength),
	}, nil
}

// Close unmaps the device memory.
func (fb *DeviceFramebuffer) Close() error {
	if err := unix.Munmap(fb.mem); err != nil {
		fb.file.Close()
		return fmt.Errorf("framebuffer: munmap: %w", err)
	}
	return fb.file.Close()
}

func (fb *DeviceFramebuffer) ColorModel() color.Model { return color.GrayModel }

func (fb *DeviceFramebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

func (fb *DeviceFramebuffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return color.Gray{}
	}
	return color.Gray{Y: fb.mem[y*fb.lineLength+x]}
}

func (fb *DeviceFramebuffer) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	fb.mem[y*fb.lineLength+x] = color.GrayModel.Convert(c).(color.Gray).Y
}

// Flush asks the EPDC to refresh rect. Fast-mono uses the DU waveform,
// partial and full use 16-level grayscale; full additionally flashes the
// whole region to clear ghosting.
func (fb *DeviceFramebuffer) Flush(rect Rect, mode RefreshMode) error {
	region := rect.Intersect(FromImage(fb.Bounds()))
	if region.IsEmpty() {
		return nil
	}
	fb.marker++
	update := mxcfbUpdateData{
		UpdateRegion: mxcfbRect{
			Top:    uint32(region.Y),
			Left:   uint32(region.X),
			Width:  uint32(region.Width),
			Height: uint32(region.Height),
		},
		UpdateMarker: fb.marker,
	}
	switch mode {
	case RefreshFastMono:
		update.WaveformMode = waveformModeDU
		update.UpdateMode = updateModePartial
	case RefreshPartial:
		update.WaveformMode = waveformModeGC16
		update.UpdateMode = updateModePartial
	case RefreshFull:
		update.WaveformMode = waveformModeGC16
		update.UpdateMode = updateModeFull
	default:
		update.WaveformMode = waveformModeAuto
		update.UpdateMode = updateModePartial
	}
	if err := fbIoctl(fb.file.Fd(), mxcfbSendUpdate, unsafe.Pointer(&update)); err != nil {
		return fmt.Errorf("framebuffer: update %v %s: %w", region, mode, err)
	}
	return nil
}

func fbIoctl(fd uintptr, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
