package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImportCopiesLocalFile(t *testing.T) {
	root := t.TempDir()
	st := New(root, zap.NewNop())

	src := filepath.Join(t.TempDir(), "bird.png")
	require.NoError(t, os.WriteFile(src, []byte("png-bytes"), 0o644))

	stored, err := st.Import(context.Background(), 3, src)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored, filepath.Join(root, "termbase_3")))
	require.Equal(t, ".png", filepath.Ext(stored))

	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)

	// the source stays where it was
	_, err = os.Stat(src)
	require.NoError(t, err)
}

func TestImportMissingSourceFails(t *testing.T) {
	st := New(t.TempDir(), zap.NewNop())
	_, err := st.Import(context.Background(), 1, filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}

func TestRemoveDeletesOnlyInsideRoot(t *testing.T) {
	root := t.TempDir()
	st := New(root, zap.NewNop())

	src := filepath.Join(t.TempDir(), "keep.png")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	stored, err := st.Import(context.Background(), 1, src)
	require.NoError(t, err)

	require.NoError(t, st.Remove(stored))
	_, err = os.Stat(stored)
	require.True(t, os.IsNotExist(err))

	// a value holding its original source path is left alone
	require.NoError(t, st.Remove(src))
	_, err = os.Stat(src)
	require.NoError(t, err)

	require.NoError(t, st.Remove(""))
}

func TestSourceExt(t *testing.T) {
	require.Equal(t, ".jpg", sourceExt("/tmp/a.jpg"))
	require.Equal(t, ".png", sourceExt("https://example.com/img.png?size=2#frag"))
	require.Equal(t, "", sourceExt("/tmp/noext"))
	require.Equal(t, "", sourceExt("/tmp/x.verylongextension"))
}
