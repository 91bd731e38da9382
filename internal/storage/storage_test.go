package storage

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisk(t *testing.T) *Disk {
	t.Helper()
	d, err := NewDisk(filepath.Join(t.TempDir(), "covers", "nested"))
	require.NoError(t, err)
	d.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return d
}

func TestStore(t *testing.T) {
	d := newTestDisk(t)

	name, err := d.Store(strings.NewReader("png-bytes"), "../../etc/my cover.png")
	require.NoError(t, err)
	assert.Equal(t, "1700000000123_my_cover.png", name)

	data, err := os.ReadFile(filepath.Join(d.Root(), name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = d.Store(strings.NewReader("again"), "my cover.png")
	assert.Error(t, err, "same-millisecond name must not overwrite")
}

func TestRemove(t *testing.T) {
	d := newTestDisk(t)

	name, err := d.Store(strings.NewReader("x"), "a.jpg")
	require.NoError(t, err)

	d.Remove("http://localhost:5000/albums/covers/" + name)
	_, err = os.Stat(filepath.Join(d.Root(), name))
	assert.True(t, os.IsNotExist(err))

	// missing files and empty urls are ignored
	d.Remove("http://localhost:5000/albums/covers/gone.jpg")
	d.Remove("")
}

func TestHandler(t *testing.T) {
	d := newTestDisk(t)
	name, err := d.Store(strings.NewReader("gif-data"), "c.gif")
	require.NoError(t, err)

	srv := httptest.NewServer(http.StripPrefix("/albums/covers/", d.Handler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/albums/covers/" + name)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gif-data", string(body))

	resp, err = http.Get(srv.URL + "/albums/covers/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
