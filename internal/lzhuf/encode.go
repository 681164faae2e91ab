package lzhuf

type encoder struct {
	model
	bits bitWriter

	text     [ringSize + lookahead - 1]byte
	lson     [ringSize + 1]int
	rson     [ringSize + 257]int
	dad      [ringSize + 1]int
	matchPos int
	matchLen int
}

func newEncoder(prefix []byte) *encoder {
	e := &encoder{bits: bitWriter{out: prefix}}
	e.start()
	for i := ringSize + 1; i <= ringSize+256; i++ {
		e.rson[i] = nilNode
	}
	for i := range ringSize {
		e.dad[i] = nilNode
	}
	for i := range e.text {
		e.text[i] = ' '
	}
	return e
}

// insert adds the string at r to the tree and records the longest match.
func (e *encoder) insert(r int) {
	cmp := 1
	key := e.text[r:]
	p := ringSize + 1 + int(key[0])
	e.rson[r] = nilNode
	e.lson[r] = nilNode
	e.matchLen = 0
	for {
		if cmp >= 0 {
			if e.rson[p] == nilNode {
				e.rson[p] = r
				e.dad[r] = p
				return
			}
			p = e.rson[p]
		} else {
			if e.lson[p] == nilNode {
				e.lson[p] = r
				e.dad[r] = p
				return
			}
			p = e.lson[p]
		}
		i := 1
		for ; i < lookahead; i++ {
			if cmp = int(key[i]) - int(e.text[p+i]); cmp != 0 {
				break
			}
		}
		if i > threshold {
			dist := ((r - p) & (ringSize - 1)) - 1
			if i > e.matchLen {
				e.matchPos = dist
				if e.matchLen = i; i >= lookahead {
					break
				}
			}
			if i == e.matchLen && dist < e.matchPos {
				e.matchPos = dist
			}
		}
	}
	// Full match: r replaces p.
	e.dad[r] = e.dad[p]
	e.lson[r] = e.lson[p]
	e.rson[r] = e.rson[p]
	e.dad[e.lson[p]] = r
	e.dad[e.rson[p]] = r
	if e.rson[e.dad[p]] == p {
		e.rson[e.dad[p]] = r
	} else {
		e.lson[e.dad[p]] = r
	}
	e.dad[p] = nilNode
}

func (e *encoder) remove(p int) {
	if e.dad[p] == nilNode {
		return
	}
	var q int
	switch {
	case e.rson[p] == nilNode:
		q = e.lson[p]
	case e.lson[p] == nilNode:
		q = e.rson[p]
	default:
		q = e.lson[p]
		if e.rson[q] != nilNode {
			for e.rson[q] != nilNode {
				q = e.rson[q]
			}
			e.rson[e.dad[q]] = e.lson[q]
			e.dad[e.lson[q]] = e.dad[q]
			e.lson[q] = e.lson[p]
			e.dad[e.lson[p]] = q
		}
		e.rson[q] = e.rson[p]
		e.dad[e.rson[p]] = q
	}
	e.dad[q] = e.dad[p]
	if e.rson[e.dad[p]] == p {
		e.rson[e.dad[p]] = q
	} else {
		e.lson[e.dad[p]] = q
	}
	e.dad[p] = nilNode
}

func (e *encoder) putChar(c int) {
	// Bits are collected leaf first; the root end goes out first.
	var code uint64
	var n uint
	for k := e.prnt[c+tableLen]; k != root; k = e.prnt[k] {
		code |= uint64(k&1) << n
		n++
	}
	e.bits.put(n, code)
	e.update(c)
}

func (e *encoder) putPosition(pos int) {
	hi := pos >> 6
	n := uint(posLen[hi])
	e.bits.put(n, uint64(posCode[hi]>>(8-n)))
	e.bits.put(6, uint64(pos&0x3f))
}

func (e *encoder) encode(src []byte) {
	s, r := 0, ringSize-lookahead
	n := copy(e.text[r:r+lookahead], src)
	src = src[n:]
	for i := 1; i <= lookahead; i++ {
		e.insert(r - i)
	}
	e.insert(r)
	for n > 0 {
		if e.matchLen > n {
			e.matchLen = n
		}
		if e.matchLen <= threshold {
			e.matchLen = 1
			e.putChar(int(e.text[r]))
		} else {
			e.putChar(255 - threshold + e.matchLen)
			e.putPosition(e.matchPos)
		}
		last := e.matchLen
		i := 0
		for ; i < last && len(src) > 0; i++ {
			c := src[0]
			src = src[1:]
			e.remove(s)
			e.text[s] = c
			if s < lookahead-1 {
				e.text[s+ringSize] = c
			}
			s = (s + 1) & (ringSize - 1)
			r = (r + 1) & (ringSize - 1)
			e.insert(r)
		}
		for ; i < last; i++ {
			e.remove(s)
			s = (s + 1) & (ringSize - 1)
			r = (r + 1) & (ringSize - 1)
			if n--; n > 0 {
				e.insert(r)
			}
		}
	}
}
