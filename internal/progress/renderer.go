package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lmarden/volpack/internal/utils"
)

// logWindowLines bounds the rolling tail of job output kept on screen.
const logWindowLines = 10

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	barDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	barRestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	countStyle   = lipgloss.NewStyle().Bold(true)
	percentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	jobLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Renderer draws a transient spinner/bar/log-window block on the
// terminal and interleaves permanent notification lines above it. The
// engine drives it from a single goroutine, so no locking is needed.
type Renderer struct {
	out         io.Writer
	tracker     *Tracker
	description string
	current     string
	window      []string
	frame       int
	lastDraw    time.Time
	drawnLines  int
	barWidth    int
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, barWidth: 30}
}

func (r *Renderer) StartTask(description string, total int64, items int) {
	r.tracker = NewTracker(total, items)
	r.description = description
	r.draw(true)
}

func (r *Renderer) Advance(n int64) {
	if r.tracker == nil {
		return
	}
	r.tracker.Advance(n)
	r.draw(false)
}

func (r *Renderer) SetItem(current int) {
	if r.tracker == nil {
		return
	}
	r.tracker.SetItem(current)
	r.draw(true)
}

// Done erases the live block; the permanent notification lines above it
// stay in the scrollback.
func (r *Renderer) Done() {
	r.clear()
	r.tracker = nil
	r.current = ""
	r.window = nil
}

func (r *Renderer) StartItem(volume string) {
	r.current = volume
	r.window = r.window[:0]
	r.draw(true)
}

func (r *Renderer) JobLine(line string) {
	r.window = append(r.window, utils.TruncateString(line, 100))
	if len(r.window) > logWindowLines {
		r.window = r.window[1:]
	}
	r.draw(false)
}

func (r *Renderer) Successf(format string, args ...any) {
	r.printLine(successStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) Failf(format string, args ...any) {
	r.printLine(failStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) Skipf(format string, args ...any) {
	r.printLine(skipStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) Warnf(format string, args ...any) {
	r.printLine(warnStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) printLine(line string) {
	r.clear()
	fmt.Fprintln(r.out, line)
	r.draw(true)
}

func (r *Renderer) clear() {
	if r.drawnLines > 0 {
		fmt.Fprintf(r.out, "\x1b[%dA\x1b[J", r.drawnLines)
		r.drawnLines = 0
	}
}

func (r *Renderer) draw(force bool) {
	if r.tracker == nil {
		return
	}

	now := time.Now()
	if !force && now.Sub(r.lastDraw) < 80*time.Millisecond {
		return
	}
	r.lastDraw = now
	r.frame++

	r.clear()

	var b strings.Builder
	lines := 0
	if r.current != "" {
		b.WriteString(itemStyle.Render("Processing:") + " " + r.current + "\n")
		lines++
		for _, line := range r.window {
			b.WriteString("  " + jobLineStyle.Render(line) + "\n")
			lines++
		}
	}
	b.WriteString(r.statusLine() + "\n")
	lines++

	fmt.Fprint(r.out, b.String())
	r.drawnLines = lines
}

func (r *Renderer) statusLine() string {
	t := r.tracker
	spin := spinnerFrames[r.frame%len(spinnerFrames)]
	filled := int(t.Percent() / 100 * float64(r.barWidth))
	bar := barDoneStyle.Render(strings.Repeat("█", filled)) +
		barRestStyle.Render(strings.Repeat("░", r.barWidth-filled))
	sep := countStyle.Render("•")

	return fmt.Sprintf("%s %s %s %s %s %s %s %s",
		spin,
		descStyle.Render(r.description+" …"),
		bar,
		percentStyle.Render(fmt.Sprintf("%5.1f%%", t.Percent())),
		sep,
		countStyle.Render(fmt.Sprintf("%d/%d", t.Item(), t.Items())),
		sep,
		countStyle.Render(utils.FormatBytes(t.Completed())+"/"+utils.FormatBytes(t.Total())),
	)
}
