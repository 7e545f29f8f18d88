package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

// AudioInfo holds the stream properties of a media file.
type AudioInfo struct {
	Duration   time.Duration
	Format     string // MP3, FLAC, AAC, ALAC, M4A
	SampleRate int
	BitDepth   int
	Channels   int // 0 when unknown
	Bitrate    int // kbps, 0 when unknown
}

// ReadAudioInfo reads audio stream properties without decoding the whole
// stream. The container decoder gives format, sample rate and bit depth;
// TagLib fills in bitrate and channels when it can read the file.
func ReadAudioInfo(path string) (*AudioInfo, error) {
	info, err := readStreamInfo(path)

	props, propsErr := taglib.ReadProperties(path)
	if err != nil {
		if propsErr != nil {
			return nil, err
		}
		info = &AudioInfo{
			Duration:   props.Length,
			Format:     strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")),
			SampleRate: int(props.SampleRate),
		}
	}
	if propsErr == nil {
		info.Channels = int(props.Channels)
		info.Bitrate = int(props.Bitrate)
		if info.Duration == 0 {
			info.Duration = props.Length
		}
	}
	return info, nil
}

func readStreamInfo(path string) (*AudioInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ExtMP3 && ext != ExtFLAC && ext != ExtM4A && ext != ExtMP4 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext {
	case ExtMP3:
		return readMP3AudioInfo(f)
	case ExtFLAC:
		return readFLACStreamInfo(path)
	default:
		return readM4AAudioInfo(f)
	}
}

// readMP3AudioInfo extracts audio info from an MP3 file.
func readMP3AudioInfo(f *os.File) (*AudioInfo, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)
	duration := time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))

	return &AudioInfo{
		Duration:   duration,
		Format:     "MP3",
		SampleRate: sampleRate,
		BitDepth:   16, // MP3 decodes to 16-bit
	}, nil
}

// readFLACStreamInfo extracts audio info from FLAC streaminfo metadata.
func readFLACStreamInfo(path string) (*AudioInfo, error) {
	flacFile, err := goflac.ParseFile(path)
	if err != nil {
		// Try with ID3v2 skip for files with prepended ID3 tags
		return readFLACWithBeep(path)
	}

	for _, meta := range flacFile.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		// Bytes 10-13: sample rate (20 bits), channels (3 bits), bits per sample (5 bits)
		// Bytes 13-17: total samples (36 bits)
		data := meta.Data

		sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
		channels := int(data[12]>>1)&0x07 + 1
		bitsPerSample := (int(data[12])&0x01)<<4 | int(data[13])>>4 + 1
		totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])

		duration := time.Duration(0)
		if sampleRate > 0 {
			duration = time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second))
		}

		return &AudioInfo{
			Duration:   duration,
			Format:     "FLAC",
			SampleRate: sampleRate,
			BitDepth:   bitsPerSample,
			Channels:   channels,
		}, nil
	}

	return readFLACWithBeep(path)
}

// readFLACWithBeep uses beep's FLAC decoder as fallback.
func readFLACWithBeep(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return nil, err
	}

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Format:     "FLAC",
		SampleRate: int(format.SampleRate),
		BitDepth:   format.Precision * 8,
		Channels:   format.NumChannels,
	}, nil
}

// readM4AAudioInfo extracts audio info from the audio track of an MP4/M4A file.
func readM4AAudioInfo(f *os.File) (*AudioInfo, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return nil, err
	}

	codecType := container.Codec()
	var format string
	switch codecType {
	case m4a.CodecAAC:
		format = "AAC"
	case m4a.CodecALAC:
		format = "ALAC"
	case m4a.CodecUnknown:
		format = "M4A"
	}

	bitDepth := 16
	if codecType == m4a.CodecALAC && container.SampleSize() == 24 {
		bitDepth = 24
	}

	return &AudioInfo{
		Duration:   container.Duration(),
		Format:     format,
		SampleRate: int(container.SampleRate()),
		BitDepth:   bitDepth,
	}, nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil {
		return err
	}
	if n < 10 || string(header[0:3]) != id3Magic {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
