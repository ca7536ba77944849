package encoder

// buffer accumulates binary output with the LEB128 helpers the wasm
// format needs everywhere.
type buffer struct {
	b []byte
}

func (w *buffer) raw(bs ...byte) {
	w.b = append(w.b, bs...)
}

func (w *buffer) append(other *buffer) {
	w.b = append(w.b, other.b...)
}

// uleb writes v as unsigned LEB128.
func (w *buffer) uleb(v uint64) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v == 0 {
			w.b = append(w.b, b)
			return
		}
		w.b = append(w.b, b|0x80)
	}
}

// sleb writes v as signed LEB128.
func (w *buffer) sleb(v int64) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			w.b = append(w.b, b)
			return
		}
		w.b = append(w.b, b|0x80)
	}
}

// name writes a length-prefixed UTF-8 name.
func (w *buffer) name(s string) {
	w.uleb(uint64(len(s)))
	w.b = append(w.b, s...)
}

// section writes a section id followed by the size-prefixed body. Empty
// bodies are skipped entirely, matching what reference assemblers emit.
func (w *buffer) section(id byte, body *buffer) {
	if len(body.b) == 0 {
		return
	}
	w.b = append(w.b, id)
	w.uleb(uint64(len(body.b)))
	w.b = append(w.b, body.b...)
}
