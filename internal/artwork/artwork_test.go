package artwork

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/tags"
)

func TestStore_PathWritesOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/cache/art", nil)
	pic := &tags.Picture{MIMEType: "image/png", Data: []byte("png-bytes")}

	path := s.Path(pic)
	require.NotEmpty(t, path)
	assert.Equal(t, "/cache/art", filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, pic.Data, data)

	// Same content maps to the same file.
	again := s.Path(&tags.Picture{MIMEType: "image/png", Data: []byte("png-bytes")})
	assert.Equal(t, path, again)

	other := s.Path(&tags.Picture{MIMEType: "image/jpeg", Data: []byte("jpeg-bytes")})
	assert.NotEqual(t, path, other)
	assert.True(t, strings.HasSuffix(other, ".jpg"))

	tmp, err := afero.Glob(fs, "/cache/art/*.tmp")
	require.NoError(t, err)
	assert.Empty(t, tmp)
}

func TestStore_NothingToStore(t *testing.T) {
	var nilStore *Store
	assert.Empty(t, nilStore.Path(&tags.Picture{Data: []byte{1}}))
	assert.Empty(t, nilStore.URL(&tags.Picture{Data: []byte{1}}))
	require.NoError(t, nilStore.Clear())

	s := New(afero.NewMemMapFs(), "/art", nil)
	assert.Empty(t, s.Path(nil))
	assert.Empty(t, s.Path(&tags.Picture{MIMEType: "image/png"}))
}

func TestStore_URL(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/art", nil)

	got := s.URL(&tags.Picture{MIMEType: "image/jpeg", Data: []byte("x")})

	assert.True(t, strings.HasPrefix(got, "file:///art/"), got)
	assert.True(t, strings.HasSuffix(got, ".jpg"), got)
}

func TestStore_WriteFailure(t *testing.T) {
	s := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/art", nil)

	assert.Empty(t, s.Path(&tags.Picture{Data: []byte("x")}))
}

func TestStore_Clear(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/art", nil)
	path := s.Path(&tags.Picture{Data: []byte("x")})
	require.NotEmpty(t, path)

	require.NoError(t, s.Clear())

	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, ok)
}
