// ula_constants.go - ZX Spectrum ULA video/contention constants for the core

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
ula_constants.go - ZX Spectrum ULA timing and geometry constants

The ULA arbitrates memory and I/O against the Z80 by stalling accesses to
contended pages while it paints the frame, and derives the visible frame
(border + screen) from the same tick counter that drives the CPU.

Display Specifications:
  - Screen: 256x192 pixels (32x24 attribute cells of 8x8 pixels)
  - Border: 48px left/right, 48px top, 40px bottom -> 352x280 frame
  - Colors: 8 base colours, doubled by the BRIGHT attribute bit
  - VRAM: 6144 bytes bitmap + 768 bytes attributes = 6912 bytes total
  - Flash rate: toggled every 16 frames (~1.56Hz at 50Hz refresh)
  - Beam geometry: 312 scanlines/frame, 16 hidden at top and bottom each;
    the screen bitmap itself starts at internal beam line 64

Attribute Byte Format:
  Bit 7: FLASH (swap INK/PAPER when set, toggles at ~1.56Hz)
  Bit 6: BRIGHT (intensify both INK and PAPER)
  Bits 5-3: PAPER (background color, 0-7)
  Bits 2-0: INK (foreground color, 0-7)
*/

package spectrum

// =============================================================================
// VRAM layout
// =============================================================================

const (
	// ScreenBase is the authentic ZX Spectrum bitmap base address.
	ScreenBase = 0x4000
	// AttrBase is the attribute-byte plane base address.
	AttrBase = 0x5800
	// AttrEnd is one past the last attribute byte.
	AttrEnd = 0x5B00

	// ScreenBitmapSize is 6144 bytes (256x192 / 8 pixels-per-byte).
	ScreenBitmapSize = AttrBase - ScreenBase
	// ScreenAttrSize is 768 bytes (32x24 cells).
	ScreenAttrSize = AttrEnd - AttrBase
)

// =============================================================================
// Frame and contention timing (48K model)
// =============================================================================

const (
	// TicksPerFrame is the total T-states in one 48K video frame.
	TicksPerFrame = 69888
	// TicksPerLine is the T-states spent on one scanline.
	TicksPerLine = 224
	// TicksPerActiveInt is the width of the ~INT assertion window.
	TicksPerActiveInt = 32

	// ContentionBase is the first contended tick of the frame (top-left of
	// the drawable screen area).
	ContentionBase = 14336
	// ContentionLines is the number of scanlines the screen area spans.
	ContentionLines = 192
)

// =============================================================================
// Frame geometry
// =============================================================================

const (
	ScreenWidth  = 256
	ScreenHeight = 192

	BorderWidth  = 48
	TopBorder    = 48
	BottomBorder = 40

	FrameWidth  = 352
	FrameHeight = 280

	// HiddenLines is the count of vertical-blanking scanlines the ULA's
	// internal beam crosses at the top (and, symmetrically, the bottom) of
	// each frame before/after the visible border, which are never written
	// into SCR. The beam's internal line numbering therefore starts the
	// visible top border at HiddenLines and the screen bitmap itself at
	// ScreenTopLine; a frame-buffer row is internal line minus HiddenLines.
	HiddenLines = 16

	// ScreenTopLine is the first internal beam line of the screen bitmap
	// area (hidden lines plus the visible top border).
	ScreenTopLine = HiddenLines + TopBorder

	// ChunksPerLine is the number of 8-pixel/4-bit-per-pixel chunks that
	// make up one row of the rendered frame.
	ChunksPerLine = FrameWidth / 8
)

// =============================================================================
// Port geometry
// =============================================================================

const (
	// ULAPortMask isolates bit 0 of a port address; the ULA responds to
	// any port with bit 0 clear (A0=0), classically 0xFE.
	ULAPortMask   = 0x01
	ULABorderPort = 0xFE

	// PagingPort is the 128K memory-paging port; writes are silently
	// dropped by a 48K-only machine (see DESIGN.md).
	PagingPort = 0x7FFD
)

// Colour expansion for a chunk-pixel code lives in screen.go's RGB, which
// derives each channel directly from the code's colour bits rather than a
// lookup table (see DESIGN.md: direct computation states the per-channel
// bit rule of the normative RGB formula more plainly than a 16-entry
// palette array).
