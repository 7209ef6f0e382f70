package ppu

const (
	spriteCount    = 64
	maxLineSprites = 8
)

// renderBackgroundLine fetches one full scanline's worth of
// background tiles starting from the current v/x scroll state and
// fills bgColorIdx/bgOpaque/bgPaletteIx for that line (spec §4.2's
// "implementer may model tile-by-tile rather than dot-by-dot").
func (p *PPU) renderBackgroundLine(line int) {
	vWalk := p.v
	fineY := uint16(vWalk>>12) & 0x07
	patternBase := p.bgPatternBase()

	const tileSpan = 33 // 32 visible tiles plus one to cover the fine-X shift
	var colorIdx [tileSpan * 8]uint8
	var attrBits [tileSpan * 8]uint8

	for tile := 0; tile < tileSpan; tile++ {
		nametableAddr := 0x2000 | (vWalk & 0x0FFF)
		tileID := p.vram.Read(nametableAddr)

		attrAddr := 0x23C0 | (vWalk & 0x0C00) | ((vWalk >> 4) & 0x38) | ((vWalk >> 2) & 0x07)
		attrByte := p.vram.Read(attrAddr)

		coarseX := vWalk & 0x001F
		coarseY := (vWalk >> 5) & 0x001F
		shift := ((coarseY & 0x02) << 1) | (coarseX & 0x02)
		bits := (attrByte >> shift) & 0x03

		lo := p.vram.Read(patternBase + uint16(tileID)*16 + fineY)
		hi := p.vram.Read(patternBase + uint16(tileID)*16 + fineY + 8)

		for bit := 0; bit < 8; bit++ {
			b0 := (lo >> (7 - bit)) & 1
			b1 := (hi >> (7 - bit)) & 1
			colorIdx[tile*8+bit] = (b1 << 1) | b0
			attrBits[tile*8+bit] = bits
		}

		vWalk = incrementCoarseX(vWalk)
	}

	offset := int(p.x)
	for x := 0; x < screenWidth; x++ {
		ci := colorIdx[offset+x]
		p.bgColorIdx[x] = ci
		p.bgOpaque[x] = ci != 0
		var paletteAddr uint16
		if ci == 0 {
			paletteAddr = 0x3F00
		} else {
			paletteAddr = 0x3F00 | (uint16(attrBits[offset+x]) << 2) | uint16(ci)
		}
		p.bgPaletteIx[x] = p.vram.ReadPalette(paletteAddr)
	}
}

type lineSprite struct {
	x, y   uint8
	tile   uint8
	attr   uint8
	index  int
}

// evaluateSprites scans OAM for sprites intersecting line, keeps up
// to 8 in OAM order, sets sprite overflow if more matched, and fills
// the per-pixel sprite layer for compositing.
func (p *PPU) evaluateSprites(line int) {
	p.spColorIdx = [screenWidth]uint8{}
	p.spIsZero = [screenWidth]bool{}

	height := 8
	if p.ctrlSpriteSize16 {
		height = 16
	}

	var matched []lineSprite
	for i := 0; i < spriteCount; i++ {
		y := p.oam[i*4]
		row := line - (int(y) + 1)
		if row < 0 || row >= height {
			continue
		}
		if len(matched) == maxLineSprites {
			p.spriteOverflow = true
			continue
		}
		matched = append(matched, lineSprite{
			y:     y,
			tile:  p.oam[i*4+1],
			attr:  p.oam[i*4+2],
			x:     p.oam[i*4+3],
			index: i,
		})
	}

	// Earlier OAM entries draw on top; only fill pixels not already
	// claimed by a higher-priority sprite.
	for _, s := range matched {
		row := line - (int(s.y) + 1)
		flipV := s.attr&0x80 != 0
		flipH := s.attr&0x40 != 0
		palette := s.attr & 0x03

		addr := p.spritePatternAddr(s.tile, row, height, flipV)
		lo := p.vram.Read(addr)
		hi := p.vram.Read(addr + 8)

		for col := 0; col < 8; col++ {
			px := int(s.x) + col
			if px < 0 || px >= screenWidth {
				continue
			}
			if p.spColorIdx[px] != 0 {
				continue
			}
			bit := col
			if !flipH {
				bit = 7 - col
			}
			b0 := (lo >> bit) & 1
			b1 := (hi >> bit) & 1
			ci := (b1 << 1) | b0
			if ci == 0 {
				continue
			}
			p.spColorIdx[px] = ci
			p.spPaletteIx[px] = p.vram.ReadPalette(0x3F10 | (uint16(palette) << 2) | uint16(ci))
			p.spIsZero[px] = s.index == 0
		}
	}
}

// spritePatternAddr computes the CHR address of one 8-pixel row of a
// sprite tile, handling 8x16 mode's two-tile-table selection from the
// tile id's low bit.
func (p *PPU) spritePatternAddr(tileID uint8, row, height int, flipV bool) uint16 {
	if height == 16 {
		r := row
		if flipV {
			r = 15 - row
		}
		table := uint16(tileID&0x01) * 0x1000
		tileNum := uint16(tileID &^ 0x01)
		if r >= 8 {
			tileNum++
			r -= 8
		}
		return table + tileNum*16 + uint16(r)
	}
	r := row
	if flipV {
		r = 7 - row
	}
	return p.spritePatternBase() + uint16(tileID)*16 + uint16(r)
}

// compositePixel writes the final palette index for (line,x) to the
// framebuffer, applying leftmost-column masking, the ignore-priority
// sprite-over-background rule, and sprite-zero hit detection.
func (p *PPU) compositePixel(line, x int) {
	bgOn := p.maskShowBG && (x >= 8 || p.maskShowBGLeft8)
	spOn := p.maskShowSprites && (x >= 8 || p.maskShowSpriteLeft8)

	bgOpaque := bgOn && p.bgOpaque[x]
	spOpaque := spOn && p.spColorIdx[x] != 0

	var out uint8
	switch {
	case spOpaque:
		out = p.spPaletteIx[x]
	case bgOpaque:
		out = p.bgPaletteIx[x]
	default:
		out = p.vram.ReadPalette(0x3F00)
	}
	p.frame[line*screenWidth+x] = out

	if p.maskShowBG && p.maskShowSprites && p.spIsZero[x] && p.bgOpaque[x] && p.spColorIdx[x] != 0 && x != 255 {
		p.spriteZeroHit = true
	}
}
