package tagger

import (
	"os"
	"path/filepath"
)

// artFiles are tried in order, the first regular file wins.
var artFiles = []string{
	"cover.jpg",
	"Cover.jpg",
	"folder.jpg",
	"Folder.jpg",
	"albumart.jpg",
	"AlbumArt.jpg",
	"cover.jpeg",
	"folder.jpeg",
	"albumart.jpeg",
	"cover.png",
	"folder.png",
	"albumart.png",
	"front.jpg",
	"Front.jpg",
	"AlbumArtwork.jpg",
	"album.jpg",
	"Album.jpg",
}

// findAlbumArt looks for a cover image stored next to the audio files.
func findAlbumArt(dir string) string {
	for _, artFile := range artFiles {
		fullPath := filepath.Join(dir, artFile)
		if info, err := os.Stat(fullPath); err == nil && info.Mode().IsRegular() {
			return fullPath
		}
	}

	return ""
}
