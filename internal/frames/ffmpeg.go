package frames

import (
	"bufio"
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
)

// FFmpegSource decodes frames from a camera device or network stream by
// running ffmpeg with an MJPEG image2pipe output and scanning the pipe
// for JPEG frame boundaries.
//
// A source is owned by a single stream worker; Next must not be called
// concurrently. Close may be called from another goroutine and unblocks a
// pending Next by killing the ffmpeg process.
type FFmpegSource struct {
	device string
	fps    int

	pending []byte
	seq     uint64

	mu     sync.Mutex // guards cmd, stdout, width, height, closed
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int
	closed bool
}

// NewFFmpegSource prepares a source for the given device. The device may be
// a V4L2 path ("/dev/video0") or an RTSP/HTTP stream URL. ffmpeg is started
// on the first call to Next.
func NewFFmpegSource(device string, fps int) *FFmpegSource {
	if fps <= 0 {
		fps = 5
	}
	return &FFmpegSource{device: device, fps: fps}
}

func isNetworkSource(device string) bool {
	return strings.HasPrefix(device, "rtsp://") ||
		strings.HasPrefix(device, "http://") ||
		strings.HasPrefix(device, "https://")
}

func (s *FFmpegSource) start() error {
	var args []string
	if isNetworkSource(s.device) {
		args = []string{
			"-i", s.device,
			"-f", "image2pipe",
			"-vcodec", "mjpeg",
			"-r", fmt.Sprintf("%d", s.fps),
			"-q:v", "5",
			"-",
		}
	} else {
		args = []string{
			"-f", "v4l2",
			"-framerate", fmt.Sprintf("%d", s.fps),
			"-i", s.device,
			"-f", "image2pipe",
			"-vcodec", "mjpeg",
			"-q:v", "5",
			"-",
		}
	}

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg for %s: %w", s.device, err)
	}

	// Consume stderr so ffmpeg never blocks on a full pipe.
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
		}
	}()

	s.cmd = cmd
	s.stdout = stdout
	log.Printf("[Frames] started ffmpeg for %s (%d fps)", s.device, s.fps)
	return nil
}

// Next blocks until a complete frame has been read from the pipe, decodes
// it and returns it in grayscale. It returns ErrExhausted once the stream
// ends or the source is closed.
func (s *FFmpegSource) Next() (*Frame, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrExhausted
	}
	if s.cmd == nil {
		if err := s.start(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	stdout := s.stdout
	s.mu.Unlock()

	chunk := make([]byte, 8192)
	for {
		if data := extractJPEG(&s.pending); data != nil {
			img, err := jpeg.Decode(bytes.NewReader(data))
			if err != nil {
				// Torn frame; keep scanning.
				continue
			}
			s.seq++
			f := FromImage(img, s.seq)
			s.mu.Lock()
			s.width, s.height = f.Width, f.Height
			s.mu.Unlock()
			return f, nil
		}

		n, err := stdout.Read(chunk)
		if n > 0 {
			s.pending = append(s.pending, chunk[:n]...)
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("[Frames] read error for %s: %v", s.device, err)
			}
			return nil, ErrExhausted
		}
	}
}

// extractJPEG pulls one complete JPEG (FFD8...FFD9) out of the buffer,
// consuming everything up to and including the frame.
func extractJPEG(buffer *[]byte) []byte {
	b := *buffer
	start := -1
	for i := 0; i < len(b)-1; i++ {
		if b[i] == 0xFF && b[i+1] == 0xD8 {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}
	for i := start + 2; i < len(b)-1; i++ {
		if b[i] == 0xFF && b[i+1] == 0xD9 {
			end := i + 2
			frame := make([]byte, end-start)
			copy(frame, b[start:end])
			*buffer = b[end:]
			return frame
		}
	}
	return nil
}

// Resolution returns the dimensions seen on the most recent frame.
func (s *FFmpegSource) Resolution() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Close stops the ffmpeg process. Next returns ErrExhausted afterwards.
func (s *FFmpegSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		go s.cmd.Wait()
	}
	return nil
}
