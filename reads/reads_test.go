package reads

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceSource(t *testing.T) {
	src := NewSliceSource("ACGT", "GGCC")
	rs, err := Collect(src)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, uint32(0), rs[0].ID)
	assert.Equal(t, "ACGT", string(rs[0].Seq))
	assert.Equal(t, uint32(1), rs[1].ID)

	// exhausted
	rs, err = Collect(src)
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestRecordSourceKeepsIDs(t *testing.T) {
	src := NewRecordSource([]Read{{ID: 7, Seq: []byte("AC")}, {ID: 3, Seq: []byte("GT")}})
	rs, err := Collect(src)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), rs[0].ID)
	assert.Equal(t, uint32(3), rs[1].ID)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func TestFastxSourceAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	fa := writeFile(t, dir, "a.fa", ">r1 first\nACGTACGT\nACGT\n>r2\nacgtt\n>r3\nAC\n")
	fq := writeFile(t, dir, "b.fq", "@q1\nGATTACA\n+\nIIIIIII\n")

	src, err := OpenFastx([]string{fa, fq}, WithUpperCase(), WithMinLength(3))
	require.NoError(t, err)
	defer src.Close()

	rs, err := Collect(src)
	require.NoError(t, err)
	require.Len(t, rs, 3)

	assert.Equal(t, uint32(0), rs[0].ID)
	assert.Equal(t, "r1", rs[0].Name)
	assert.Equal(t, "ACGTACGTACGT", string(rs[0].Seq))

	assert.Equal(t, uint32(1), rs[1].ID)
	assert.Equal(t, "ACGTT", string(rs[1].Seq))

	// r3 is too short and does not consume an id
	assert.Equal(t, uint32(2), rs[2].ID)
	assert.Equal(t, "q1", rs[2].Name)
	assert.Equal(t, "GATTACA", string(rs[2].Seq))
}

func TestOpenFastxErrors(t *testing.T) {
	_, err := OpenFastx(nil)
	require.ErrorIs(t, err, ErrNoInput)

	_, err = OpenFastx([]string{filepath.Join(t.TempDir(), "missing.fa")})
	require.Error(t, err)
}

func TestFastxConfigOptions(t *testing.T) {
	assert.Empty(t, FastxConfig{}.Options())

	dir := t.TempDir()
	fa := writeFile(t, dir, "a.fa", ">r1\nacgtACGT\n>r2\nACG\n")

	cfg := FastxConfig{UpperCase: true, MinLength: 4}
	src, err := OpenFastx([]string{fa}, cfg.Options()...)
	require.NoError(t, err)
	defer src.Close()

	rs, err := Collect(src)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "ACGTACGT", string(rs[0].Seq))
}
