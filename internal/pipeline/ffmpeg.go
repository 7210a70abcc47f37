package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MediaInfo is what the prober reads off an uploaded file.
type MediaInfo struct {
	Duration  float64
	Width     int
	Height    int
	FrameRate float64
}

// Media abstracts the external ffmpeg/ffprobe binaries so the orchestrator
// and the upload path can be exercised without them.
type Media interface {
	Probe(ctx context.Context, inputPath string) (*MediaInfo, error)
	Transcode(ctx context.Context, inputPath, outputPath string, duration float64, onProgress func(frac float64)) error
	ExtractFrames(ctx context.Context, inputPath, outputDir string) ([]string, error)
}

type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

func (f *FFmpeg) Probe(ctx context.Context, inputPath string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "csv=p=0",
		inputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %v output: %v", err, string(output))
	}

	trimmedOutput := strings.TrimSpace(string(output))
	trimmedOutput = strings.TrimRight(trimmedOutput, ",")
	parts := strings.Split(trimmedOutput, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("unexpected ffprobe output: %s", trimmedOutput)
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid width: %v", err)
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid height: %v", err)
	}
	frameRate := parseFrameRate(parts[2])

	cmd = exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		inputPath,
	)
	durationOutput, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe duration error: %v", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(durationOutput)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %v", err)
	}

	return &MediaInfo{
		Duration:  duration,
		Width:     width,
		Height:    height,
		FrameRate: frameRate,
	}, nil
}

// Transcode re-encodes to 720p H.264/AAC and streams fractional progress
// parsed from ffmpeg's -progress output.
func (f *FFmpeg) Transcode(ctx context.Context, inputPath, outputPath string, duration float64, onProgress func(frac float64)) error {
	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-i", inputPath,
		"-vf", "scale='min(1280,iw)':-2",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		"-y", outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach progress pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "out_time_us=") && !strings.HasPrefix(line, "out_time_ms=") {
			continue
		}
		raw := line[strings.Index(line, "=")+1:]
		us, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || duration <= 0 || onProgress == nil {
			continue
		}
		frac := float64(us) / 1e6 / duration
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		onProgress(frac)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg transcode failed: %v, stderr: %s", err, stderr.String())
	}
	return nil
}

// ExtractFrames writes one JPEG per second of video and returns the frame
// paths in frame order.
func (f *FFmpeg) ExtractFrames(ctx context.Context, inputPath, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frames directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-i", inputPath,
		"-vf", "fps=1",
		"-q:v", "2",
		"-y", filepath.Join(outputDir, "frame_%04d.jpg"),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction failed: %v, stderr: %s", err, stderr.String())
	}

	frames, err := filepath.Glob(filepath.Join(outputDir, "frame_*.jpg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(frames)
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", inputPath)
	}
	return frames, nil
}

func parseFrameRate(raw string) float64 {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) == 2 {
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 == nil && err2 == nil && den != 0 {
			return num / den
		}
		return 0
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return rate
}
