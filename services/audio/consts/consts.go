package consts

const (
	// Accepted upload formats
	FormatWAV = ".wav"
	FormatMP3 = ".mp3"
	FormatM4A = ".m4a"

	MaxUploadSize = 100 * 1024 * 1024 // 100MB
)
