package transcoder

import "errors"

var (
	ErrTranscoder                    = errors.New("transcoder")
	ErrConnectDependencies           = errors.New("failed to connect dependencies")
	ErrUnsupportedFormat             = errors.New("unsupported source format")
	ErrFailedToCreateOutputDirectory = errors.New("failed to create output directory")
	ErrPipe                          = errors.New("failed to connect decoder to encoder")
	ErrEncode                        = errors.New("encode error")
	ErrTranscodedFileIsTooSmall      = errors.New("transcoded file is too small")
	ErrTranscodedFileNotFound        = errors.New("transcoded file not found")
)
