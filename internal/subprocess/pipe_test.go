package subprocess

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDirection_String(t *testing.T) {
	require.Equal(t, "none", DirectionNone.String())
	require.Equal(t, "parent-to-child", ParentToChild.String())
	require.Equal(t, "child-to-parent", ChildToParent.String())
	require.Equal(t, "unknown(9)", Direction(9).String())
}

func TestPipe_OpenAssignsEndsByDirection(t *testing.T) {
	t.Run("parent to child", func(t *testing.T) {
		pipe := NewPipe(ParentToChild)
		require.NoError(t, pipe.open())

		defer pipe.Close()

		_, err := unix.Write(pipe.ParentFD(), []byte("ping"))
		require.NoError(t, err)

		buf := make([]byte, 4)
		n, err := unix.Read(pipe.ChildFD(), buf)
		require.NoError(t, err)
		require.Equal(t, "ping", string(buf[:n]))
	})

	t.Run("child to parent", func(t *testing.T) {
		pipe := NewPipe(ChildToParent)
		require.NoError(t, pipe.open())

		defer pipe.Close()

		_, err := unix.Write(pipe.ChildFD(), []byte("pong"))
		require.NoError(t, err)

		buf := make([]byte, 4)
		n, err := unix.Read(pipe.ParentFD(), buf)
		require.NoError(t, err)
		require.Equal(t, "pong", string(buf[:n]))
	})
}

func TestPipe_SetDirection(t *testing.T) {
	pipe := NewPipe(ParentToChild)
	require.NoError(t, pipe.open())

	parent := pipe.ParentFD()

	// Same direction keeps the descriptors.
	pipe.SetDirection(ParentToChild)
	require.Equal(t, parent, pipe.ParentFD())

	// A new direction closes both ends first.
	pipe.SetDirection(ChildToParent)
	require.Equal(t, ChildToParent, pipe.Direction())
	require.Equal(t, -1, pipe.ParentFD())
	require.Equal(t, -1, pipe.ChildFD())

	pipe.SetDirection(DirectionNone)
	require.Equal(t, DirectionNone, pipe.Direction())
}

func TestPipe_CloseIsIdempotent(t *testing.T) {
	pipe := NewPipe(ChildToParent)
	require.NoError(t, pipe.open())

	pipe.CloseParent()
	require.Equal(t, -1, pipe.ParentFD())
	require.NotEqual(t, -1, pipe.ChildFD())

	pipe.CloseParent()
	pipe.Close()
	pipe.Close()
	require.Equal(t, -1, pipe.ParentFD())
	require.Equal(t, -1, pipe.ChildFD())
}
