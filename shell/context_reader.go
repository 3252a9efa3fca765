package shell

import (
	"context"
	"io"
)

// ContextReader stops reading once its context is done.
type ContextReader struct {
	ctx   context.Context
	inner io.Reader
}

func NewContextReader(ctx context.Context, inner io.Reader) *ContextReader {
	return &ContextReader{ctx: ctx, inner: inner}
}

func (this *ContextReader) Read(buffer []byte) (int, error) {
	if err := this.ctx.Err(); err != nil {
		return 0, err
	}
	return this.inner.Read(buffer)
}
