package tagger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/go-flac"
)

// cover is a piece of artwork found for a source file: either embedded
// image data or an image file on disk.
type cover struct {
	mime string
	data []byte
	path string
}

// extractCover returns the embedded cover of sourcePath, preferring the
// front cover when several pictures are stored. It returns nil, nil when
// the source carries no artwork.
func extractCover(sourcePath string) (*cover, error) {
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".flac":
		return flacCover(sourcePath)
	case ".mp3":
		return mp3Cover(sourcePath)
	default:
		return nil, fmt.Errorf("%w: %w (%s)", ErrTagger, ErrUnsupportedSource, sourcePath)
	}
}

// flacCover reads PICTURE metadata blocks. Audio frames are never read.
func flacCover(sourcePath string) (*cover, error) {
	source, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrTagger, ErrCantReadCover, err)
	}
	defer source.Close()

	file, err := flac.ParseMetadata(bufio.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrTagger, ErrCantReadCover, err)
	}

	var chosen *flacpicture.MetadataBlockPicture

	for _, block := range file.Meta {
		if block.Type != flac.Picture {
			continue
		}

		picture, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fmt.Errorf("%w: %w (%w)", ErrTagger, ErrCantReadCover, err)
		}

		if chosen == nil ||
			(picture.PictureType == flacpicture.PictureTypeFrontCover &&
				chosen.PictureType != flacpicture.PictureTypeFrontCover) {
			chosen = picture
		}
	}

	if chosen == nil || len(chosen.ImageData) == 0 {
		return nil, nil
	}

	return &cover{mime: chosen.MIME, data: chosen.ImageData}, nil
}

// mp3Cover reads ID3v2 APIC frames.
func mp3Cover(sourcePath string) (*cover, error) {
	tag, err := id3v2.Open(sourcePath, id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Attached picture"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrTagger, ErrCantReadCover, err)
	}
	defer tag.Close()

	var chosen *id3v2.PictureFrame

	for _, frame := range tag.GetFrames(tag.CommonID("Attached picture")) {
		picture, ok := frame.(id3v2.PictureFrame)
		if !ok {
			continue
		}

		if chosen == nil ||
			(picture.PictureType == id3v2.PTFrontCover && chosen.PictureType != id3v2.PTFrontCover) {
			chosen = &picture
		}
	}

	if chosen == nil || len(chosen.Picture) == 0 {
		return nil, nil
	}

	return &cover{mime: chosen.MimeType, data: chosen.Picture}, nil
}

func (c *cover) extension() string {
	if c.path != "" {
		return filepath.Ext(c.path)
	}

	switch strings.ToLower(c.mime) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// materialize returns a path the muxer can read the artwork from. Embedded
// data is written to a temporary file in dir which cleanup removes.
func (c *cover) materialize(dir string) (string, func(), error) {
	if c.path != "" {
		return c.path, func() {}, nil
	}

	file, err := os.CreateTemp(dir, ".f2aac-cover-*"+c.extension())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w (%w)", ErrTagger, ErrCantWriteCover, err)
	}

	cleanup := func() {
		os.Remove(file.Name())
	}

	_, err = file.Write(c.data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		cleanup()

		return "", nil, fmt.Errorf("%w: %w (%w)", ErrTagger, ErrCantWriteCover, err)
	}

	return file.Name(), cleanup, nil
}
