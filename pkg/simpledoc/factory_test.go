package simpledoc_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-doc/pkg/simpledoc"
)

func TestNewXMLFactory(t *testing.T) {
	t.Run("NoBindings", func(t *testing.T) {
		f, err := simpledoc.NewXMLFactory()
		assert.ErrorIs(t, err, simpledoc.ErrNoTypes)
		assert.Nil(t, f)
	})

	t.Run("NilContext", func(t *testing.T) {
		f, err := simpledoc.NewXMLFactoryWithContext(nil, simpledoc.Bind[product]())
		assert.ErrorIs(t, err, simpledoc.ErrNilContext)
		assert.Nil(t, f)
	})

	t.Run("BindingWithoutType", func(t *testing.T) {
		_, err := simpledoc.NewXMLFactory(simpledoc.TypeBinding{})
		assert.ErrorIs(t, err, simpledoc.ErrNoTypes)
	})
}

func TestFactoryRegistry(t *testing.T) {
	f, err := simpledoc.NewXMLFactory(
		simpledoc.Bind[product](),
		simpledoc.Bind[order](),
	)
	require.NoError(t, err)

	t.Run("IsHandled", func(t *testing.T) {
		assert.True(t, f.IsHandled(reflect.TypeFor[product]()))
		assert.True(t, f.IsHandled(reflect.TypeFor[order]()))
		assert.False(t, f.IsHandled(reflect.TypeFor[namespacedDoc]()))
	})

	t.Run("HandledTypesInRegistrationOrder", func(t *testing.T) {
		types := f.HandledTypes()
		require.Len(t, types, 2)
		assert.Equal(t, reflect.TypeFor[product](), types[0])
		assert.Equal(t, reflect.TypeFor[order](), types[1])
	})

	t.Run("UnregisteredTypeYieldsNil", func(t *testing.T) {
		assert.Nil(t, f.NewHandle(reflect.TypeFor[namespacedDoc]()))
	})

	t.Run("DistinctHandles", func(t *testing.T) {
		a := f.NewHandle(reflect.TypeFor[product]())
		b := f.NewHandle(reflect.TypeFor[product]())
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.NotSame(t, a, b)
	})

	t.Run("HandlesShareOneContext", func(t *testing.T) {
		a, ok := simpledoc.HandleFor[product](f)
		require.True(t, ok)
		b, ok := simpledoc.HandleFor[order](f)
		require.True(t, ok)
		assert.Same(t, a.Context(), b.Context())
	})
}

func TestFactoryDeduplicatesBindings(t *testing.T) {
	f, err := simpledoc.NewXMLFactory(
		simpledoc.Bind[product](),
		simpledoc.Bind[product](),
		simpledoc.Bind[order](),
	)
	require.NoError(t, err)
	assert.Len(t, f.HandledTypes(), 2)
}

func TestFactoryWithSharedContext(t *testing.T) {
	ctx := simpledoc.NewXMLContext()
	require.NoError(t, ctx.Register(simpledoc.Bind[namespacedDoc]()))

	f, err := simpledoc.NewXMLFactoryWithContext(ctx, simpledoc.Bind[product]())
	require.NoError(t, err)

	// The factory only hands out registered types, but its handles convert
	// anything the shared context binds.
	assert.False(t, f.IsHandled(reflect.TypeFor[namespacedDoc]()))
	assert.True(t, ctx.IsBound(reflect.TypeFor[product]()))

	h, ok := simpledoc.HandleFor[product](f)
	require.True(t, ok)
	assert.Same(t, ctx, h.Context())
}

func TestHandleFor(t *testing.T) {
	f, err := simpledoc.NewXMLFactory(simpledoc.Bind[product]())
	require.NoError(t, err)

	t.Run("Registered", func(t *testing.T) {
		h, ok := simpledoc.HandleFor[product](f)
		assert.True(t, ok)
		assert.NotNil(t, h)
	})

	t.Run("Unregistered", func(t *testing.T) {
		h, ok := simpledoc.HandleFor[order](f)
		assert.False(t, ok)
		assert.Nil(t, h)
	})
}
