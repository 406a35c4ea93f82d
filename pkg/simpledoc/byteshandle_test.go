package simpledoc_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-doc/pkg/simpledoc"
)

// errReader fails partway through a stream.
type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("stream broke")
}

func TestBytesHandle(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01}

	t.Run("PinnedToBinary", func(t *testing.T) {
		h := simpledoc.NewBytesHandle()
		assert.Equal(t, simpledoc.FormatBinary, h.Format())
		assert.Equal(t, "application/octet-stream", h.Mimetype())
		assert.ErrorIs(t, h.SetFormat(simpledoc.FormatXML), simpledoc.ErrFormatPinned)
	})

	t.Run("SetCopies", func(t *testing.T) {
		src := append([]byte(nil), payload...)
		h := simpledoc.NewBytesHandle().With(src)

		src[0] = 0xFF
		assert.Equal(t, payload, h.Get(), "handle content must not track caller slices")
	})

	t.Run("ToBufferCopies", func(t *testing.T) {
		h := simpledoc.NewBytesHandle().With(payload)

		buf, err := h.ToBuffer()
		require.NoError(t, err)
		buf[0] = 0xFF
		assert.Equal(t, payload, h.Get(), "returned buffers must not alias handle content")
	})

	t.Run("EmptySemantics", func(t *testing.T) {
		h := simpledoc.NewBytesHandle()
		assert.False(t, h.HasContent())
		assert.Nil(t, h.Get())

		buf, err := h.ToBuffer()
		require.NoError(t, err)
		assert.Nil(t, buf)

		_, err = h.Send()
		assert.ErrorIs(t, err, simpledoc.ErrNoContent)
	})

	t.Run("SetEmptyClears", func(t *testing.T) {
		h := simpledoc.NewBytesHandle().With(payload)
		h.Set(nil)
		assert.False(t, h.HasContent())
	})

	t.Run("Receive", func(t *testing.T) {
		h := simpledoc.NewBytesHandle()
		spy := &closeSpy{Reader: bytes.NewReader(payload)}

		require.NoError(t, h.Receive(spy))
		assert.True(t, spy.closed)
		assert.Equal(t, payload, h.Get())
	})

	t.Run("ReceiveEmptyStream", func(t *testing.T) {
		h := simpledoc.NewBytesHandle().With(payload)
		require.NoError(t, h.Receive(strings.NewReader("")))
		assert.False(t, h.HasContent())
		assert.Nil(t, h.Get())
	})

	t.Run("ReceiveFailure", func(t *testing.T) {
		h := simpledoc.NewBytesHandle()
		spy := &closeSpy{Reader: errReader{}}

		err := h.Receive(spy)
		require.Error(t, err)
		assert.True(t, spy.closed)

		var convErr *simpledoc.ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, simpledoc.FormatBinary, convErr.Format)
	})

	t.Run("SendWritesContent", func(t *testing.T) {
		h := simpledoc.NewBytesHandle().With(payload)

		sender, err := h.Send()
		require.NoError(t, err)

		var sink bytes.Buffer
		n, err := sender.WriteTo(&sink)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), n)
		assert.Equal(t, payload, sink.Bytes())
	})

	t.Run("FromBufferRoundTrip", func(t *testing.T) {
		h := simpledoc.NewBytesHandle()
		require.NoError(t, h.FromBuffer(payload))
		assert.Equal(t, payload, h.Get())

		require.NoError(t, h.FromBuffer(nil))
		assert.False(t, h.HasContent())
	})
}
