package lzhuf

import "fmt"

type decoder struct {
	model
	bits bitReader
	text [ringSize]byte
}

func newDecoder(src []byte) *decoder {
	d := &decoder{bits: bitReader{src: src}}
	d.start()
	for i := range ringSize - lookahead {
		d.text[i] = ' '
	}
	return d
}

func (d *decoder) getChar() int {
	c := d.son[root]
	for c < tableLen {
		c = d.son[c+d.bits.bit()]
	}
	c -= tableLen
	d.update(c)
	return c
}

func (d *decoder) getPosition() int {
	i := d.bits.byte()
	c := int(decCode[i]) << 6
	for j := int(decLen[i]) - 2; j > 0; j-- {
		i = i<<1 | d.bits.bit()
	}
	return c | i&0x3f
}

func (d *decoder) decode(dst []byte) error {
	r := ringSize - lookahead
	for n := 0; n < len(dst); {
		if d.bits.overrun() {
			return fmt.Errorf("%w: truncated after %d of %d bytes", ErrCorrupt, n, len(dst))
		}
		c := d.getChar()
		if c < 256 {
			dst[n] = byte(c)
			d.text[r] = byte(c)
			r = (r + 1) & (ringSize - 1)
			n++
			continue
		}
		i := (r - d.getPosition() - 1) & (ringSize - 1)
		length := c - 255 + threshold
		if n+length > len(dst) {
			return fmt.Errorf("%w: match overruns declared length", ErrCorrupt)
		}
		for k := range length {
			b := d.text[(i+k)&(ringSize-1)]
			dst[n] = b
			d.text[r] = b
			r = (r + 1) & (ringSize - 1)
			n++
		}
	}
	if d.bits.overrun() {
		return fmt.Errorf("%w: truncated", ErrCorrupt)
	}
	return nil
}
