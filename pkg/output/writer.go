package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"socialharvest/pkg/models"
)

// InstagramHeader is the column order of the Instagram CSV
var InstagramHeader = []string{
	"username",
	"profile_url",
	"profile_image",
	"bio",
	"posts",
	"followers",
	"following",
	"private",
	"recent_posts",
	"average_engagement",
}

// Writer writes run results into an output directory. Every file is
// written to a temporary name first and renamed into place.
type Writer struct {
	outputDir string
	mu        sync.Mutex
	written   []string
}

// NewWriter creates the output directory when needed
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// WriteDiscord writes the scraped servers as a JSON array indented with
// four spaces
func (w *Writer) WriteDiscord(name string, servers []models.ServerInfo) (string, error) {
	if servers == nil {
		servers = []models.ServerInfo{}
	}
	return w.writeAtomic(name, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		return enc.Encode(servers)
	})
}

// WriteInstagram writes one CSV row per profile. recent_posts holds the
// posts as a JSON array.
func (w *Writer) WriteInstagram(name string, profiles []models.Profile) (string, error) {
	return w.writeAtomic(name, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(InstagramHeader); err != nil {
			return err
		}
		for _, p := range profiles {
			row, err := profileRow(p)
			if err != nil {
				return err
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func profileRow(p models.Profile) ([]string, error) {
	posts := p.RecentPosts
	if posts == nil {
		posts = []models.Post{}
	}
	recent, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recent posts of %s: %w", p.Username, err)
	}
	return []string{
		p.Username,
		p.ProfileURL,
		p.ProfileImage,
		p.Bio,
		p.Posts,
		p.Followers,
		p.Following,
		strconv.FormatBool(p.Private),
		string(recent),
		strconv.FormatFloat(p.AverageEngagement, 'f', -1, 64),
	}, nil
}

func (w *Writer) writeAtomic(name string, write func(io.Writer) error) (string, error) {
	filename := filepath.Join(w.outputDir, name)
	tempFile := filename + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = write(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	w.mu.Lock()
	w.written = append(w.written, filename)
	w.mu.Unlock()
	return filename, nil
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.outputDir
}

// Written lists the files written so far, in order
func (w *Writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.written))
	copy(out, w.written)
	return out
}
