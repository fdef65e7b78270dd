package dto

// Output describes a produced file.
type Output struct {
	TargetPath string
	Size       int64
	// Skipped is set when an up to date target already existed.
	Skipped bool
	// TagErr holds a failed cover/tag transfer. The audio is still usable.
	TagErr error
}
