package loader

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// id3Frame builds one ID3v2.3 frame.
func id3Frame(id string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString(id)
	_ = binary.Write(&b, binary.BigEndian, uint32(len(body))) //nolint:gosec // test payloads are small
	b.Write([]byte{0, 0})
	b.Write(body)
	return b.Bytes()
}

// mp3With returns an ID3v2.3 tagged stream holding the given frames followed
// by a few bytes of MPEG audio.
func mp3With(frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	size := len(body)

	var b bytes.Buffer
	b.WriteString("ID3")
	b.Write([]byte{3, 0, 0})
	b.Write([]byte{
		byte(size >> 21 & 0x7f),
		byte(size >> 14 & 0x7f),
		byte(size >> 7 & 0x7f),
		byte(size & 0x7f),
	})
	b.Write(body)
	b.Write([]byte{0xff, 0xfb, 0x90, 0x00})
	return b.Bytes()
}

func apic(data []byte) []byte {
	var b bytes.Buffer
	b.WriteByte(0) // ISO-8859-1
	b.WriteString("image/png\x00")
	b.WriteByte(3) // front cover
	b.WriteByte(0) // empty description
	b.Write(data)
	return id3Frame("APIC", b.Bytes())
}

func title(s string) []byte {
	return id3Frame("TIT2", append([]byte{0}, s...))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func quietLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log
}

func TestLoad_FilesKeepArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, pngBytes(t))
	writeFile(t, b, []byte("plain text"))

	c := Load([]string{b, a}, Options{}, quietLogger())

	assert.Equal(t, []string{b, a}, c.Names(), "explicit files are kept even when not images")
	assert.Equal(t, []byte("plain text"), c.At(0).Data)
}

func TestLoad_DirectoryKeepsSortedImages(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t)
	writeFile(t, filepath.Join(dir, "zeta.png"), img)
	writeFile(t, filepath.Join(dir, "alpha.dat"), img) // sniffed, not judged by extension
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("hello"))
	writeFile(t, filepath.Join(dir, ".hidden.png"), img)
	writeFile(t, filepath.Join(dir, "sub", "deep.png"), img)

	c := Load([]string{dir}, Options{}, quietLogger())

	assert.Equal(t, []string{
		filepath.Join(dir, "alpha.dat"),
		filepath.Join(dir, "zeta.png"),
	}, c.Names())
}

func TestLoad_Recursive(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t)
	writeFile(t, filepath.Join(dir, "b.png"), img)
	writeFile(t, filepath.Join(dir, "a", "inner.png"), img)
	writeFile(t, filepath.Join(dir, ".git", "skip.png"), img)

	c := Load([]string{dir}, Options{Recursive: true}, quietLogger())

	assert.Equal(t, []string{
		filepath.Join(dir, "a", "inner.png"),
		filepath.Join(dir, "b.png"),
	}, c.Names())
}

func TestLoad_AudioCover(t *testing.T) {
	dir := t.TempDir()
	cover := pngBytes(t)
	withCover := filepath.Join(dir, "song.mp3")
	writeFile(t, withCover, mp3With(title("Song"), apic(cover)))
	writeFile(t, filepath.Join(dir, "plain.mp3"), mp3With(title("Plain")))

	c := Load([]string{dir}, Options{IncludeAudio: true}, quietLogger())
	require.Equal(t, 1, c.Len())
	assert.Equal(t, withCover+CoverSuffix, c.At(0).Name)
	assert.Equal(t, cover, c.At(0).Data)

	c = Load([]string{dir}, Options{IncludeAudio: false}, quietLogger())
	assert.Equal(t, 0, c.Len())
}

func TestLoad_SkipsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writeFile(t, a, pngBytes(t))

	log, hook := test.NewNullLogger()
	c := Load([]string{filepath.Join(dir, "missing.png"), a}, Options{}, log)

	assert.Equal(t, []string{a}, c.Names())

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, filepath.Join(dir, "missing.png")) {
			warned = true
		}
	}
	assert.True(t, warned, "missing path should be logged as a warning")
}

func TestLoad_EmptyIsValid(t *testing.T) {
	c := Load(nil, Options{}, nil)
	assert.Equal(t, 0, c.Len())

	c = Load([]string{t.TempDir()}, Options{Recursive: true}, nil)
	assert.Equal(t, 0, c.Len())
}

func TestLoad_LogsSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.png"), pngBytes(t))

	log, hook := test.NewNullLogger()
	Load([]string{dir}, Options{}, log)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "collection loaded", last.Message)
	assert.Equal(t, 1, last.Data["entries"])
	assert.Contains(t, last.Data["size"], " B")
}

func TestLoad_SkipsImagesTheDecoderCannotRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.png"), pngBytes(t))
	writeFile(t, filepath.Join(dir, "logo.svg"),
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"></svg>`))

	c := Load([]string{dir}, Options{}, quietLogger())

	assert.Equal(t, []string{filepath.Join(dir, "a.png")}, c.Names())
}

func TestLoad_ExplicitUndecodableFileKept(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "logo.svg")
	writeFile(t, svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))

	c := Load([]string{svg}, Options{}, quietLogger())

	assert.Equal(t, []string{svg}, c.Names())
}

func TestScanDir_ReadsOnlyKeptFiles(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	writeFile(t, img, pngBytes(t))

	// A sparse 256 MiB archive: sniffing must not pull it into memory.
	big := filepath.Join(dir, "backup.zip")
	writeFile(t, big, []byte("PK\x03\x04"))
	require.NoError(t, os.Truncate(big, 256<<20))

	var reads []string
	ld := &loader{
		opts: Options{IncludeAudio: true},
		log:  quietLogger(),
		readFile: func(path string) ([]byte, error) {
			reads = append(reads, path)
			return os.ReadFile(path)
		},
	}
	ld.scanDir(dir)

	assert.Equal(t, []string{img}, reads)
	require.Len(t, ld.entries, 1)
	assert.Equal(t, img, ld.entries[0].Name)
}
