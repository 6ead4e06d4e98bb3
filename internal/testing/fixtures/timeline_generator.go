package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/model"
)

// TimelineGenerator writes timeline documents for tests
type TimelineGenerator struct {
	baseDir string
}

// NewTimelineGenerator creates a new generator writing below baseDir
func NewTimelineGenerator(baseDir string) *TimelineGenerator {
	return &TimelineGenerator{
		baseDir: baseDir,
	}
}

// Progressive writes a run that paints in steps equal increments up to
// visualComplete. Frame i is named <name>-<i>.jpg.
func (g *TimelineGenerator) Progressive(name, url string, visualComplete float64, steps int) (string, error) {
	if steps < 1 {
		steps = 1
	}
	frames := make([]model.FrameDocument, 0, steps+1)
	for i := 0; i <= steps; i++ {
		frames = append(frames, model.FrameDocument{
			Time:             visualComplete * float64(i) / float64(steps),
			Image:            fmt.Sprintf("%s-%d.jpg", name, i),
			VisuallyComplete: float64(100 * i / steps),
		})
	}

	vc := visualComplete
	return g.Write(name, model.TimelineDocument{
		URL:             url,
		Summary:         "https://wpt.example/result/" + name + "/",
		VisualComplete:  &vc,
		FilmstripFrames: &frames,
	})
}

// Write encodes doc to <name>.json and returns its path
func (g *TimelineGenerator) Write(name string, doc model.TimelineDocument) (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return g.WriteRaw(name, data)
}

// WriteRaw writes data verbatim, e.g. a malformed document
func (g *TimelineGenerator) WriteRaw(name string, data []byte) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Malformed writes a document without visualComplete
func (g *TimelineGenerator) Malformed(name string) (string, error) {
	return g.WriteRaw(name, []byte(`{"url":"https://broken.example/"}`))
}

func (g *TimelineGenerator) GetBaseDir() string {
	return g.baseDir
}
