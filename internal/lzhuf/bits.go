package lzhuf

// bitWriter appends bits most significant first.
type bitWriter struct {
	out  []byte
	acc  uint64
	nacc uint
}

// put writes the low n bits of v, n <= 56.
func (w *bitWriter) put(n uint, v uint64) {
	w.acc = w.acc<<n | v&(1<<n-1)
	w.nacc += n
	for w.nacc >= 8 {
		w.nacc -= 8
		w.out = append(w.out, byte(w.acc>>w.nacc))
	}
}

func (w *bitWriter) finish() []byte {
	if w.nacc > 0 {
		w.out = append(w.out, byte(w.acc<<(8-w.nacc)))
		w.nacc = 0
	}
	return w.out
}

// bitReader yields bits most significant first. Reads past the end yield
// zero bits; overrun reports how far.
type bitReader struct {
	src []byte
	pos uint // bit offset
}

func (r *bitReader) bit() int {
	i := r.pos >> 3
	var b byte
	if i < uint(len(r.src)) {
		b = r.src[i]
	}
	v := int(b>>(7-r.pos&7)) & 1
	r.pos++
	return v
}

func (r *bitReader) byte() int {
	v := 0
	for range 8 {
		v = v<<1 | r.bit()
	}
	return v
}

func (r *bitReader) overrun() bool {
	return r.pos > uint(len(r.src))*8+slackBits
}
