package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/client/transcript"
	"github.com/fatih/color"
)

const timeLayout = "15:04"

// Renderer writes everything the user sees. It is safe for concurrent use:
// assistant replies are printed from request goroutines while the REPL
// prints command output.
type Renderer struct {
	mu  sync.Mutex
	out io.Writer
	md  *glamour.TermRenderer

	userLabel      *color.Color
	assistantLabel *color.Color
	faint          *color.Color
	ok             *color.Color
	warn           *color.Color
	fail           *color.Color
}

// NewRenderer returns a renderer writing to out. With markdown set,
// assistant replies are rendered as terminal markdown; otherwise they are
// printed verbatim.
func NewRenderer(out io.Writer, markdown bool) *Renderer {
	r := &Renderer{
		out:            out,
		userLabel:      color.New(color.FgBlue, color.Bold),
		assistantLabel: color.New(color.FgGreen, color.Bold),
		faint:          color.New(color.Faint),
		ok:             color.New(color.FgGreen),
		warn:           color.New(color.FgYellow),
		fail:           color.New(color.FgRed),
	}
	if markdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			r.md = md
		}
	}
	return r
}

func (r *Renderer) Println(a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, a...)
}

func (r *Renderer) Success(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ok.Fprintln(r.out, fmt.Sprintf(format, args...))
}

func (r *Renderer) Warn(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warn.Fprintln(r.out, fmt.Sprintf(format, args...))
}

func (r *Renderer) Error(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Message prints one transcript entry.
func (r *Renderer) Message(m transcript.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message(m)
}

// Transcript prints the whole conversation.
func (r *Renderer) Transcript(msgs []transcript.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(msgs) == 0 {
		fmt.Fprintln(r.out, "No messages yet. Start a conversation with 'ask <text>'.")
		return
	}
	for _, m := range msgs {
		r.message(m)
	}
}

func (r *Renderer) message(m transcript.Message) {
	stamp := r.faint.Sprintf("[%s]", m.Timestamp.Format(timeLayout))

	if m.IsUser {
		fmt.Fprintf(r.out, "%s %s %s\n", stamp, r.userLabel.Sprint("You:"), m.Text)
		return
	}

	label := r.assistantLabel.Sprint("Assistant:")
	if m.IsPending {
		fmt.Fprintf(r.out, "%s %s %s\n", stamp, label, r.faint.Sprint(m.Text))
		return
	}

	fmt.Fprintf(r.out, "%s %s", stamp, label)
	if m.Text != "" {
		fmt.Fprintf(r.out, " %s", r.markdown(m.Text))
	}
	fmt.Fprintln(r.out)

	if line := imageLine(m); line != "" {
		fmt.Fprintf(r.out, "  %s\n", line)
	}
}

// imageLine describes the image of m, inline data first and the URL as
// fallback.
func imageLine(m transcript.Message) string {
	var parts []string
	if m.ImageData != "" {
		if raw, err := base64.StdEncoding.DecodeString(m.ImageData); err == nil {
			parts = append(parts, fmt.Sprintf("[image: %d bytes inline, 'saveimage <path>' to keep it]", len(raw)))
		}
	}
	if m.ImageURL != "" {
		parts = append(parts, "[image url: "+m.ImageURL+"]")
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) markdown(text string) string {
	if r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) User(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u == nil {
		fmt.Fprintln(r.out, "Profile not loaded.")
		return
	}
	fmt.Fprintf(r.out, "Username: %s\nRole:     %s\nPlan:     %s\nID:       %d\n", u.Username, u.Role(), u.Plan, u.ID)
}

func (r *Renderer) Users(users []models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tPLAN")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role(), u.Plan)
	}
	_ = tw.Flush()
}

func (r *Renderer) Documents(docs []models.Document, selected int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(docs) == 0 {
		fmt.Fprintln(r.out, "No documents uploaded yet.")
		return
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tTITLE\tFILE\tUPLOADED")
	for _, d := range docs {
		mark := " "
		if d.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", mark, d.ID, d.Title, d.OriginalFilename, d.UploadedAt)
	}
	_ = tw.Flush()
}

func (r *Renderer) Document(d *models.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "#%d %s\n", d.ID, d.Title)
	if d.Description != "" {
		fmt.Fprintln(r.out, d.Description)
	}
	fmt.Fprintln(r.out, r.faint.Sprintf("%s (%s), uploaded %s", d.OriginalFilename, d.ContentType, d.UploadedAt))
	if d.Content != "" {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, d.Content)
	}
}

func (r *Renderer) Dashboard(v *services.DashboardView) {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := "User Dashboard"
	if v.Admin {
		title = "Admin Dashboard"
	}
	fmt.Fprintln(r.out, r.assistantLabel.Sprint(title))
	if v.User != nil {
		fmt.Fprintf(r.out, "Welcome %s\nUsername: %s\nRole: %s\n", v.User.Username, v.User.Username, v.User.Role())
	}

	if msg := v.Data.Message(); msg != "" {
		fmt.Fprintln(r.out, msg)
	}
	keys := make([]string, 0, len(v.Data))
	for k := range v.Data {
		if k != "message" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b, err := json.Marshal(v.Data[k])
		if err != nil {
			continue
		}
		fmt.Fprintf(r.out, "%s: %s\n", k, b)
	}
}
