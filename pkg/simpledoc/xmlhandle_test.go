package simpledoc_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-doc/pkg/simpledoc"
)

// closeSpy records whether a stream handed to a handle was closed.
type closeSpy struct {
	io.Reader
	closed bool
}

func (c *closeSpy) Close() error {
	c.closed = true
	return nil
}

func newProductHandle(t *testing.T) *simpledoc.XMLHandle[product] {
	t.Helper()
	h, err := simpledoc.NewXMLHandle[product](newTestContext(t))
	require.NoError(t, err)
	return h
}

func TestNewXMLHandle(t *testing.T) {
	t.Run("NilContext", func(t *testing.T) {
		h, err := simpledoc.NewXMLHandle[product](nil)
		assert.ErrorIs(t, err, simpledoc.ErrNilContext)
		assert.Nil(t, h)
	})

	t.Run("StartsEmpty", func(t *testing.T) {
		h := newProductHandle(t)
		assert.False(t, h.HasContent())
		assert.Zero(t, h.Get())
	})
}

func TestXMLHandleFormatPinned(t *testing.T) {
	h := newProductHandle(t)

	assert.Equal(t, simpledoc.FormatXML, h.Format())
	assert.NoError(t, h.SetFormat(simpledoc.FormatXML))

	err := h.SetFormat(simpledoc.FormatBinary)
	assert.ErrorIs(t, err, simpledoc.ErrFormatPinned)
	assert.Equal(t, simpledoc.FormatXML, h.Format())
}

func TestXMLHandleMimetype(t *testing.T) {
	h := newProductHandle(t)
	assert.Equal(t, "application/xml", h.Mimetype())

	h.SetMimetype("application/catalog+xml")
	assert.Equal(t, "application/catalog+xml", h.Mimetype())

	assert.Same(t, h, h.WithMimetype("text/xml"))
	assert.Equal(t, "text/xml", h.Mimetype())
}

func TestXMLHandleBufferRoundTrip(t *testing.T) {
	in := product{SKU: "A-100", Name: "widget", Price: 9.95}

	buf, err := newProductHandle(t).With(in).ToBuffer()
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	h := newProductHandle(t)
	require.NoError(t, h.FromBuffer(buf))
	assert.True(t, h.HasContent())

	out := h.Get()
	assert.Equal(t, in.SKU, out.SKU)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Price, out.Price)
}

func TestXMLHandleToBufferSnapshot(t *testing.T) {
	h := newProductHandle(t).With(product{SKU: "A-100"})

	first, err := h.ToBuffer()
	require.NoError(t, err)

	h.Set(product{SKU: "B-200"})
	second, err := h.ToBuffer()
	require.NoError(t, err)

	assert.Contains(t, string(first), "A-100", "earlier buffer must not track later content")
	assert.Contains(t, string(second), "B-200")
}

func TestXMLHandleEmpty(t *testing.T) {
	h := newProductHandle(t)

	t.Run("ToBufferNil", func(t *testing.T) {
		buf, err := h.ToBuffer()
		require.NoError(t, err)
		assert.Nil(t, buf)
	})

	t.Run("SendErrNoContent", func(t *testing.T) {
		sender, err := h.Send()
		assert.ErrorIs(t, err, simpledoc.ErrNoContent)
		assert.Nil(t, sender)
	})

	t.Run("WriteToErrNoContent", func(t *testing.T) {
		var sink bytes.Buffer
		_, err := h.WriteTo(&sink)
		assert.ErrorIs(t, err, simpledoc.ErrNoContent)
		assert.Zero(t, sink.Len())
	})

	t.Run("FromBufferEmptyClears", func(t *testing.T) {
		h.Set(product{SKU: "A-100"})
		require.NoError(t, h.FromBuffer(nil))
		assert.False(t, h.HasContent())
		assert.Zero(t, h.Get())
	})
}

func TestXMLHandleClear(t *testing.T) {
	h := newProductHandle(t).With(product{SKU: "A-100"})
	require.True(t, h.HasContent())

	h.Clear()
	assert.False(t, h.HasContent())
	assert.Zero(t, h.Get())
}

func TestXMLHandleReceive(t *testing.T) {
	t.Run("ClosesStreamOnSuccess", func(t *testing.T) {
		h := newProductHandle(t)
		spy := &closeSpy{Reader: strings.NewReader("<product><sku>A-100</sku></product>")}

		require.NoError(t, h.Receive(spy))
		assert.True(t, spy.closed)
		assert.Equal(t, "A-100", h.Get().SKU)
	})

	t.Run("ClosesStreamOnFailure", func(t *testing.T) {
		h := newProductHandle(t)
		spy := &closeSpy{Reader: strings.NewReader("<product><sku>")}

		require.Error(t, h.Receive(spy))
		assert.True(t, spy.closed)
	})

	t.Run("KeepsContentOnFailure", func(t *testing.T) {
		h := newProductHandle(t).With(product{SKU: "A-100"})

		require.Error(t, h.Receive(strings.NewReader("not xml at all")))
		assert.True(t, h.HasContent())
		assert.Equal(t, "A-100", h.Get().SKU)
	})

	t.Run("RejectsWrongRoot", func(t *testing.T) {
		h := newProductHandle(t)
		err := h.Receive(strings.NewReader("<order><id>1</id></order>"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected root element")
	})

	t.Run("UnboundTypeFails", func(t *testing.T) {
		h, err := simpledoc.NewXMLHandle[untaggedDoc](newTestContext(t))
		require.NoError(t, err)

		err = h.Receive(strings.NewReader("<untaggedDoc><value>v</value></untaggedDoc>"))
		assert.ErrorIs(t, err, simpledoc.ErrNotBound)
	})
}

func TestXMLHandleSend(t *testing.T) {
	h := newProductHandle(t).With(product{SKU: "A-100", Name: "widget"})

	sender, err := h.Send()
	require.NoError(t, err)

	var sink bytes.Buffer
	n, err := sender.WriteTo(&sink)
	require.NoError(t, err)
	assert.Equal(t, int64(sink.Len()), n)

	buf, err := h.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf, sink.Bytes())
}

func TestXMLHandlePointerContent(t *testing.T) {
	ctx := simpledoc.NewXMLContext()
	require.NoError(t, ctx.Register(simpledoc.Bind[*product]()))

	h, err := simpledoc.NewXMLHandle[*product](ctx)
	require.NoError(t, err)

	buf, err := h.With(&product{SKU: "A-100"}).ToBuffer()
	require.NoError(t, err)

	out, err := simpledoc.NewXMLHandle[*product](ctx)
	require.NoError(t, err)
	require.NoError(t, out.FromBuffer(buf))
	require.NotNil(t, out.Get())
	assert.Equal(t, "A-100", out.Get().SKU)
}

func TestXMLHandleGetAs(t *testing.T) {
	t.Run("IdenticalValue", func(t *testing.T) {
		ctx := simpledoc.NewXMLContext()
		require.NoError(t, ctx.Register(simpledoc.Bind[*product]()))
		h, err := simpledoc.NewXMLHandle[*product](ctx)
		require.NoError(t, err)

		in := &product{SKU: "A-100"}
		h.Set(in)

		var out *product
		require.NoError(t, h.GetAs(&out))
		assert.Same(t, in, out, "cast must hand back the identical content value")
	})

	t.Run("ValueCopy", func(t *testing.T) {
		h := newProductHandle(t).With(product{SKU: "A-100"})

		var out product
		require.NoError(t, h.GetAs(&out))
		assert.Equal(t, "A-100", out.SKU)
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		h := newProductHandle(t).With(product{SKU: "A-100"})

		var out order
		err := h.GetAs(&out)
		assert.ErrorIs(t, err, simpledoc.ErrTypeMismatch)
	})

	t.Run("EmptyZeroesTarget", func(t *testing.T) {
		h := newProductHandle(t)

		out := product{SKU: "stale"}
		require.NoError(t, h.GetAs(&out))
		assert.Zero(t, out)
	})

	t.Run("InvalidTargets", func(t *testing.T) {
		h := newProductHandle(t).With(product{SKU: "A-100"})

		assert.ErrorIs(t, h.GetAs(nil), simpledoc.ErrInvalidTarget)
		assert.ErrorIs(t, h.GetAs(product{}), simpledoc.ErrInvalidTarget)

		var target *product
		assert.ErrorIs(t, h.GetAs(target), simpledoc.ErrInvalidTarget)
	})
}

func TestXMLHandleConverterReuse(t *testing.T) {
	h := newProductHandle(t)

	t.Run("Marshaller", func(t *testing.T) {
		cached := h.Marshaller(true)
		assert.Same(t, cached, h.Marshaller(true))

		fresh := h.Marshaller(false)
		assert.NotSame(t, cached, fresh)
		assert.Same(t, fresh, h.Marshaller(true), "fresh instance must replace the cache")
	})

	t.Run("Unmarshaller", func(t *testing.T) {
		cached := h.Unmarshaller(true)
		assert.Same(t, cached, h.Unmarshaller(true))

		fresh := h.Unmarshaller(false)
		assert.NotSame(t, cached, fresh)
		assert.Same(t, fresh, h.Unmarshaller(true))
	})
}

func TestXMLHandleString(t *testing.T) {
	h := newProductHandle(t)
	assert.Empty(t, h.String())

	h.Set(product{SKU: "A-100"})
	assert.Contains(t, h.String(), "A-100")
}
