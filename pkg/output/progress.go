package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
)

const progressTemplate = `{{string . "prefix"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{string . "current"}}`

// HashProgress shows how many same-name pairs have been hashed
type HashProgress struct {
	bar *pb.ProgressBar
}

// NewHashProgress starts a progress bar for total pairs writing to w
func NewHashProgress(w io.Writer, total int) *HashProgress {
	bar := pb.New(total)
	bar.SetWriter(w)
	bar.SetTemplateString(progressTemplate)
	bar.SetMaxWidth(120)
	bar.Set("prefix", "Hashing")
	bar.Start()
	return &HashProgress{bar: bar}
}

// Advance marks one more pair as hashed
func (p *HashProgress) Advance(baseName string) {
	p.bar.Set("current", baseName)
	p.bar.Increment()
}

// FileProgress shows how far the file currently being hashed has been read.
// It matches hash.ProgressFunc.
func (p *HashProgress) FileProgress(path string, current, total int64) {
	if total <= 0 {
		p.bar.Set("current", filepath.Base(path))
		return
	}
	p.bar.Set("current", fmt.Sprintf("%s %d%%", filepath.Base(path), current*100/total))
}

// Current returns the number of pairs hashed so far
func (p *HashProgress) Current() int64 {
	return p.bar.Current()
}

// Finish stops the bar
func (p *HashProgress) Finish() {
	p.bar.Set("current", "")
	p.bar.Finish()
}
