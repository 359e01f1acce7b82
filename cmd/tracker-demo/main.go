// cmd/tracker-demo/main.go
//
// Runs the sampling aggregator against a live backend, feeding it
// frames from a directory of JPEG captures in place of a webcam.
// Useful for exercising the whole pipeline without a browser.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"studysynth/api/tracker"
)

// dirFrameSource cycles through the JPEG files in a directory.
type dirFrameSource struct {
	mu    sync.Mutex
	files []string
	next  int
}

func newDirFrameSource(dir string) (*dirFrameSource, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .jpg frames found in %s", dir)
	}
	return &dirFrameSource{files: files}, nil
}

func (d *dirFrameSource) Capture() ([]byte, error) {
	d.mu.Lock()
	path := d.files[d.next%len(d.files)]
	d.next++
	d.mu.Unlock()
	return os.ReadFile(path)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	serverURL := flag.String("server", "http://localhost:5000", "session backend base URL")
	framesDir := flag.String("frames", "testdata/frames", "directory of .jpg frames to cycle through")
	interval := flag.Duration("interval", 5*time.Second, "sampling interval")
	userID := flag.String("user", "", "learner id (defaults to anon)")
	flag.Parse()

	frames, err := newDirFrameSource(*framesDir)
	if err != nil {
		log.Fatalf("Failed to open frame source: %v", err)
	}

	cfg := tracker.DefaultConfig(*serverURL)
	cfg.SampleInterval = *interval
	cfg.UserID = *userID

	t := tracker.NewTracker(cfg, frames)
	t.Start()
	log.Printf("Tracker started, session %s, sampling every %s", t.SessionID(), *interval)

	report := time.NewTicker(10 * time.Second)
	defer report.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-report.C:
			mood, stats := t.Snapshot()
			log.Printf("stable mood %-16s total %.0fs engaged %.0fs focus %.0fs counts %v",
				mood, stats.TotalSec, stats.EngagedSec, stats.FocusSec, stats.EmotionCounts)
		case <-quit:
			log.Println("Stopping tracker...")
			t.Stop()
			return
		}
	}
}
