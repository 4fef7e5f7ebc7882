package aeadstream

import (
	"io"
	"net"

	"github.com/veilproxy/veilproxy/aeadcore"
	"github.com/veilproxy/veilproxy/replay"
	"github.com/veilproxy/veilproxy/session"
)

// Writer wraps an io.Writer, encrypting everything written to it with the
// TCP chunk codec before forwarding it downstream.
type Writer struct {
	w    io.Writer
	desc *aeadcore.Descriptor
	ctx  *session.Context
	buf  []byte
}

// NewWriter returns a Writer that encrypts with desc and ctx before writing
// to w. ctx must be a fresh, unarmed encrypt-direction Context.
func NewWriter(w io.Writer, desc *aeadcore.Descriptor, ctx *session.Context) *Writer {
	return &Writer{w: w, desc: desc, ctx: ctx}
}

// Write encrypts b and writes the resulting frame(s) to the underlying
// writer. It either writes the whole frame or returns an error. Partial
// writes of a frame never occur since the ciphertext is assembled in full
// before being handed to the underlying writer.
func (w *Writer) Write(b []byte) (int, error) {
	var err error
	w.buf, err = EncryptAppend(w.desc, w.ctx, w.buf[:0], b)
	if err != nil {
		return 0, err
	}
	if _, err := w.w.Write(w.buf); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Reader wraps an io.Reader, decrypting the TCP chunk stream read from it.
type Reader struct {
	r      io.Reader
	desc   *aeadcore.Descriptor
	ctx    *session.Context
	filter *replay.Filter

	plain    []byte // decoded, not-yet-delivered plaintext
	ioBuf    []byte // scratch for one underlying Read
	finished bool
}

// NewReader returns a Reader that decrypts with desc and ctx, consulting
// filter for replay suppression (pass nil to disable, e.g. on the dialing
// side, which never needs it). ctx must be a fresh, unarmed decrypt-
// direction Context.
func NewReader(r io.Reader, desc *aeadcore.Descriptor, ctx *session.Context, filter *replay.Filter) *Reader {
	return &Reader{r: r, desc: desc, ctx: ctx, filter: filter, ioBuf: make([]byte, 64*1024)}
}

// Read fills b with decrypted plaintext, pulling and decoding more
// ciphertext from the underlying reader as needed. It returns io.EOF only
// once the underlying reader does and no buffered plaintext remains.
func (r *Reader) Read(b []byte) (int, error) {
	for len(r.plain) == 0 {
		if r.finished {
			return 0, io.EOF
		}

		n, err := r.r.Read(r.ioBuf)
		if n > 0 {
			plain, derr := DecryptAppend(r.desc, r.ctx, r.plain[:0], r.ioBuf[:n], r.filter)
			if derr != nil && derr != ErrNeedMore {
				return 0, derr
			}
			r.plain = plain
		}
		if err != nil {
			if err == io.EOF {
				r.finished = true
				if len(r.plain) == 0 {
					return 0, io.EOF
				}
				break
			}
			return 0, err
		}
	}

	m := copy(b, r.plain)
	r.plain = r.plain[m:]
	return m, nil
}

// conn pairs a Reader and Writer over one net.Conn, exposing the usual
// net.Conn surface with transparent AEAD framing.
type conn struct {
	net.Conn
	r *Reader
	w *Writer
}

// NewConn wraps c with AEAD-protected framing under desc, using encCtx for
// the outbound direction and decCtx for the inbound direction (two
// independent Contexts sharing the one Descriptor). filter is
// consulted on reads only; pass nil on the dialing side.
func NewConn(c net.Conn, desc *aeadcore.Descriptor, encCtx, decCtx *session.Context, filter *replay.Filter) net.Conn {
	return &conn{
		Conn: c,
		r:    NewReader(c, desc, decCtx, filter),
		w:    NewWriter(c, desc, encCtx),
	}
}

func (c *conn) Read(b []byte) (int, error)  { return c.r.Read(b) }
func (c *conn) Write(b []byte) (int, error) { return c.w.Write(b) }
