// Package loader turns command-line paths into a gallery collection.
package loader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hisoka/internal/decoder"
	"github.com/llehouerou/hisoka/internal/errmsg"
	"github.com/llehouerou/hisoka/internal/gallery"
)

// CoverSuffix is appended to the name of an audio file whose embedded
// picture became an entry.
const CoverSuffix = " [cover]"

// Options controls how directory arguments are expanded.
type Options struct {
	Recursive    bool
	IncludeAudio bool
}

type loader struct {
	opts     Options
	log      logrus.FieldLogger
	readFile func(string) ([]byte, error)
	entries  []gallery.Entry
}

// Load reads every path in order. Files are always included. Directories
// contribute their image files, and the embedded cover art of audio files
// when IncludeAudio is set. Unreadable paths are logged and skipped.
func Load(paths []string, opts Options, log logrus.FieldLogger) gallery.Collection {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	ld := &loader{opts: opts, log: log, readFile: os.ReadFile}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			log.Warn(errmsg.FormatWith(errmsg.OpLoadPath, path, err))
			continue
		}
		if info.IsDir() {
			ld.scanDir(path)
			continue
		}
		ld.addFile(path)
	}

	c := gallery.NewCollection(ld.entries)
	log.WithFields(logrus.Fields{
		"entries": c.Len(),
		"size":    humanize.Bytes(uint64(c.Size())), //nolint:gosec // size is never negative
	}).Info("collection loaded")
	return c
}

func (ld *loader) addFile(path string) {
	data, err := ld.readFile(path)
	if err != nil {
		ld.log.Warn(errmsg.FormatWith(errmsg.OpLoadPath, path, err))
		return
	}
	ld.entries = append(ld.entries, gallery.Entry{Name: path, Data: data})
}

func (ld *loader) scanDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		ld.log.Warn(errmsg.FormatWith(errmsg.OpLoadPath, dir, err))
		return
	}

	names := make([]string, 0, len(entries))
	dirs := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() && !ld.opts.Recursive {
			continue
		}
		names = append(names, name)
		dirs[name] = e.IsDir()
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if dirs[name] {
			ld.scanDir(path)
			continue
		}
		ld.addScanned(path)
	}
}

// addScanned keeps a file found in a directory only when its content is an
// image the decoder understands, or an audio file carrying a picture. Only
// the header is sniffed; the file is read in full once it is kept.
func (ld *loader) addScanned(path string) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		ld.log.Warn(errmsg.FormatWith(errmsg.OpLoadPath, path, err))
		return
	}

	switch {
	case decodable(mime):
		data, err := ld.readFile(path)
		if err != nil {
			ld.log.Warn(errmsg.FormatWith(errmsg.OpLoadPath, path, err))
			return
		}
		ld.entries = append(ld.entries, gallery.Entry{Name: path, Data: data})
	case ld.opts.IncludeAudio && isKind(mime, "audio/"):
		data, err := ld.readFile(path)
		if err != nil {
			ld.log.Warn(errmsg.FormatWith(errmsg.OpLoadPath, path, err))
			return
		}
		cover, err := embeddedCover(data)
		if err != nil {
			ld.log.Debug(errmsg.FormatWith(errmsg.OpReadCover, path, err))
			return
		}
		if cover == nil {
			return
		}
		ld.entries = append(ld.entries, gallery.Entry{Name: path + CoverSuffix, Data: cover})
	default:
		ld.log.WithFields(logrus.Fields{"path": path, "mime": mime.String()}).Debug("ignoring file")
	}
}

// decodable reports whether m, or a format it extends (apng is a png), is
// one the decoder handles.
func decodable(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		for _, t := range decoder.MIMETypes {
			if m.Is(t) {
				return true
			}
		}
	}
	return false
}

// isKind reports whether m or one of its parents has the given type prefix.
// Some containers (ogg) only expose the audio type on a parent.
func isKind(m *mimetype.MIME, prefix string) bool {
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), prefix) {
			return true
		}
	}
	return false
}

// embeddedCover returns the picture stored in the tags of an audio file, or
// nil when it has none.
func embeddedCover(data []byte) ([]byte, error) {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil
	}
	return pic.Data, nil
}
