package template

import (
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestMergeFSOpen(t *testing.T) {
	// Arrange
	first := fstest.MapFS{"tmpl/page.tmpl": {Data: []byte("first")}}
	second := fstest.MapFS{
		"tmpl/page.tmpl":  {Data: []byte("second")},
		"tmpl/other.tmpl": {Data: []byte("other")},
	}
	mfs := newMergeFS([]fs.FS{first, nil, second})

	for name, expected := range map[string]string{
		"tmpl/page.tmpl":  "first",
		"tmpl/other.tmpl": "other",
	} {
		// Act
		for i := 0; i < 2; i++ {
			f, err := mfs.Open(name)
			require.Nil(t, err)
			b, err := io.ReadAll(f)
			require.Nil(t, err)

			// Assert
			require.Equal(t, expected, string(b))
		}
	}

	// Act
	_, err := mfs.Open("tmpl/error.tmpl")

	// Assert
	require.Nil(t, err)

	// Act
	_, err = mfs.Open("tmpl/nope.tmpl")

	// Assert
	require.ErrorIs(t, err, fs.ErrNotExist)
}
