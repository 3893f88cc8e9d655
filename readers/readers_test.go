package readers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/expmap/halfedge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tetOBJ = `# tetrahedron
o tet
v 1 1 1
v -1 -1 1
v -1 1 -1
v 1 -1 -1
vt 0 0
vn 0 0 1
f 3/1/1 2/1/1 1/1/1
f 1//1 4//1 3//1
f 2 4 1
f -2 -1 -3
`

const tetOFF = `OFF
# a comment
4 4 6
1 1 1
-1 -1 1
-1 1 -1
1 -1 -1
3 2 1 0
3 0 3 2
3 1 3 0
3 2 3 1
`

func TestReadOBJ(t *testing.T) {
	soup, err := ReadOBJ(strings.NewReader(tetOBJ))
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: -1, Y: 1, Z: -1}, soup.Positions[2])
	assert.Equal(t, [][]int{{2, 1, 0}, {0, 3, 2}, {1, 3, 0}, {2, 3, 1}}, soup.Faces)

	m, err := halfedge.Build(soup)
	require.NoError(t, err)
	assert.Equal(t, 2, m.EulerCharacteristic())
}

func TestReadOFF(t *testing.T) {
	soup, err := ReadOFF(strings.NewReader(tetOFF))
	require.NoError(t, err)
	obj, err := ReadOBJ(strings.NewReader(tetOBJ))
	require.NoError(t, err)
	assert.Equal(t, obj, soup)

	inline, err := ReadOFF(strings.NewReader("OFF 3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n"))
	require.NoError(t, err)
	assert.Len(t, inline.Positions, 3)
	assert.Equal(t, [][]int{{0, 1, 2}}, inline.Faces)
}

func TestReadErrors(t *testing.T) {
	for name, src := range map[string]string{
		"short vertex": "v 1 2\n",
		"bad float":    "v 1 x 2\n",
		"zero index":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"past end":     "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
	} {
		_, err := ReadOBJ(strings.NewReader(src))
		assert.Error(t, err, name)
	}
	for name, src := range map[string]string{
		"header":    "PLY\n",
		"counts":    "OFF\n4\n",
		"truncated": "OFF\n3 1 0\n0 0 0\n",
		"index":     "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 3\n",
		"degree":    "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n",
	} {
		_, err := ReadOFF(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestReadMeshFile(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "tet.OBJ")
	off := filepath.Join(dir, "tet.off")
	require.NoError(t, os.WriteFile(obj, []byte(tetOBJ), 0o644))
	require.NoError(t, os.WriteFile(off, []byte(tetOFF), 0o644))

	a, err := ReadMeshFile(obj)
	require.NoError(t, err)
	b, err := ReadMeshFile(off)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = ReadMeshFile(filepath.Join(dir, "tet.stl"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = ReadMeshFile(filepath.Join(dir, "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
