package lzhuf

// model is the adaptive Huffman tree shared by encoder and decoder.
// Nodes are kept ordered by frequency; leaves are encoded in son as
// symbol+tableLen.
type model struct {
	freq [tableLen + 1]int
	prnt [tableLen + nChar]int
	son  [tableLen]int
}

func (m *model) start() {
	for i := range nChar {
		m.freq[i] = 1
		m.son[i] = i + tableLen
		m.prnt[i+tableLen] = i
	}
	for i, j := 0, nChar; j <= root; i, j = i+2, j+1 {
		m.freq[j] = m.freq[i] + m.freq[i+1]
		m.son[j] = i
		m.prnt[i] = j
		m.prnt[i+1] = j
	}
	m.freq[tableLen] = 0xffff
	m.prnt[root] = 0
}

// rebuild halves every leaf frequency and reconstructs the tree.
func (m *model) rebuild() {
	j := 0
	for i := range tableLen {
		if m.son[i] >= tableLen {
			m.freq[j] = (m.freq[i] + 1) / 2
			m.son[j] = m.son[i]
			j++
		}
	}
	for i, j := 0, nChar; j < tableLen; i, j = i+2, j+1 {
		f := m.freq[i] + m.freq[i+1]
		m.freq[j] = f
		k := j - 1
		for f < m.freq[k] {
			k--
		}
		k++
		copy(m.freq[k+1:j+1], m.freq[k:j])
		m.freq[k] = f
		copy(m.son[k+1:j+1], m.son[k:j])
		m.son[k] = i
	}
	for i := range tableLen {
		k := m.son[i]
		m.prnt[k] = i
		if k < tableLen {
			m.prnt[k+1] = i
		}
	}
}

// update increments the frequency of symbol c and restores ordering.
func (m *model) update(c int) {
	if m.freq[root] == maxFreq {
		m.rebuild()
	}
	c = m.prnt[c+tableLen]
	for {
		m.freq[c]++
		k := m.freq[c]
		if l := c + 1; k > m.freq[l] {
			for k > m.freq[l+1] {
				l++
			}
			m.freq[c] = m.freq[l]
			m.freq[l] = k

			i := m.son[c]
			m.prnt[i] = l
			if i < tableLen {
				m.prnt[i+1] = l
			}
			j := m.son[l]
			m.son[l] = i
			m.prnt[j] = c
			if j < tableLen {
				m.prnt[j+1] = c
			}
			m.son[c] = j
			c = l
		}
		c = m.prnt[c]
		if c == 0 {
			return
		}
	}
}
