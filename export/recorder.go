package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
)

// Recorder consumes composited frames and finalizes them, together with the
// narration audio, into one downloadable file.
type Recorder interface {
	Start(ctx context.Context) error
	WriteFrame(frame *image.RGBA) error
	Stop() (string, error)
}

// FFmpegRecorder muxes raw RGBA frames and the narration WAV into a webm
// file through an ffmpeg subprocess fed over stdin.
type FFmpegRecorder struct {
	width, height, fps int
	audioPath          string
	outPath            string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

// NewFFmpegRecorder prepares a recorder writing to outPath.
func NewFFmpegRecorder(width, height, fps int, audioPath, outPath string) *FFmpegRecorder {
	return &FFmpegRecorder{
		width:     width,
		height:    height,
		fps:       fps,
		audioPath: audioPath,
		outPath:   outPath,
	}
}

// Start launches the encoder. Frames written afterwards stream straight
// into it, so memory use stays flat no matter how long the export runs.
func (r *FFmpegRecorder) Start(ctx context.Context) error {
	r.cmd = exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", r.width, r.height),
		"-r", fmt.Sprintf("%d", r.fps),
		"-i", "-",
		"-i", r.audioPath,
		"-c:v", "libvpx-vp9",
		"-b:v", "2M",
		"-c:a", "libopus",
		"-shortest",
		r.outPath,
	)
	r.cmd.Stderr = &r.stderr

	stdin, err := r.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open encoder pipe: %w", err)
	}
	r.stdin = stdin

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("start encoder: %w", err)
	}
	return nil
}

// WriteFrame streams one RGBA frame to the encoder.
func (r *FFmpegRecorder) WriteFrame(frame *image.RGBA) error {
	if _, err := r.stdin.Write(frame.Pix); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Stop closes the stream and waits for the encoder to finalize the file.
func (r *FFmpegRecorder) Stop() (string, error) {
	if r.stdin != nil {
		_ = r.stdin.Close()
	}
	if err := r.cmd.Wait(); err != nil {
		return "", fmt.Errorf("encoder failed: %w\n%s", err, r.stderr.String())
	}
	return r.outPath, nil
}
