// Package render prints threads and routes for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"routehub-client/internal/domain"
	"routehub-client/internal/thread"
)

const indentUnit = "  "

// Printer writes human-readable output
type Printer struct {
	w   io.Writer
	now func() time.Time
}

// New creates a Printer writing to w
func New(w io.Writer) *Printer {
	return &Printer{w: w, now: time.Now}
}

// WithClock returns a copy of p that measures relative times against now
func (p *Printer) WithClock(now func() time.Time) *Printer {
	return &Printer{w: p.w, now: now}
}

func (p *Printer) ago(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return humanize.RelTime(t, p.now(), "ago", "from now")
}

// Thread prints the comment tree depth-first. The node matching replyTarget
// is marked.
func (p *Printer) Thread(roots []*domain.CommentNode, replyTarget string) {
	entries := thread.Flatten(roots)
	fmt.Fprintf(p.w, "Comments (%d)\n", len(entries))
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "No comments yet. Be the first to comment!")
		return
	}

	for _, e := range entries {
		n := e.Node
		indent := strings.Repeat(indentUnit, e.Depth)
		bullet := "•"
		if e.Depth > 0 {
			bullet = "↳"
		}

		header := fmt.Sprintf("%s%s %s · %s  [%s]", indent, bullet, n.Author.DisplayName(), p.ago(n.CreatedAt), n.ID)
		if n.ID != "" && n.ID == replyTarget {
			header += "  ← replying"
		}
		fmt.Fprintln(p.w, header)

		for _, line := range strings.Split(n.Content, "\n") {
			fmt.Fprintf(p.w, "%s  %s\n", indent, line)
		}
		if count := thread.CountDescendants(n); count > 0 && e.Depth == 0 {
			fmt.Fprintf(p.w, "%s  %s\n", indent, pluralize(count, "reply", "replies"))
		}
	}
}

// Routes prints a route table
func (p *Printer) Routes(routes []domain.Route) {
	if len(routes) == 0 {
		fmt.Fprintln(p.w, "No routes found.")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tVIEWS\tCOMMENTS\tCREATED\tCATEGORIES")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Title,
			r.Status,
			humanize.Comma(int64(r.ViewCount)),
			humanize.Comma(int64(r.CommentCount)),
			p.ago(r.CreatedAt),
			categoryNames(r.Categories),
		)
	}
	_ = tw.Flush()
}

// RouteDetail prints a route with its stops
func (p *Printer) RouteDetail(d *domain.RouteDetail) {
	fmt.Fprintln(p.w, d.Title)
	fmt.Fprintln(p.w, strings.Repeat("=", len([]rune(d.Title))))
	if d.Description != "" {
		fmt.Fprintln(p.w, d.Description)
	}
	fmt.Fprintln(p.w)

	tw := tabwriter.NewWriter(p.w, 0, 0, 1, ' ', 0)
	if d.Owner != nil {
		fmt.Fprintf(tw, "By:\t%s\n", d.Owner.DisplayName())
	}
	fmt.Fprintf(tw, "Link:\t%s\n", d.RouteLink)
	fmt.Fprintf(tw, "Status:\t%s\n", d.Status)
	fmt.Fprintf(tw, "Views:\t%s\n", humanize.Comma(int64(d.ViewCount)))
	fmt.Fprintf(tw, "Created:\t%s\n", p.ago(d.CreatedAt))
	if len(d.Categories) > 0 {
		fmt.Fprintf(tw, "Categories:\t%s\n", categoryNames(d.Categories))
	}
	_ = tw.Flush()

	fmt.Fprintln(p.w)
	p.Stops(d.Stops)
}

// Stops prints stops in their given order
func (p *Printer) Stops(stops []domain.Stop) {
	fmt.Fprintf(p.w, "Stops (%d)\n", len(stops))
	total := 0
	for i, s := range stops {
		line := fmt.Sprintf("%d. %s", i+1, s.Title)
		if s.Address != "" {
			line += " · " + s.Address
		}
		if s.Duration > 0 {
			line += fmt.Sprintf(" (%s)", minutes(s.Duration))
			total += s.Duration
		}
		fmt.Fprintln(p.w, line)
		if s.Description != "" {
			fmt.Fprintf(p.w, "   %s\n", s.Description)
		}
	}
	if total > 0 {
		fmt.Fprintf(p.w, "Total time: %s\n", minutes(total))
	}
}

// Categories prints a category table
func (p *Printer) Categories(cats []domain.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(p.w, "No categories found.")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSLUG")
	for _, c := range cats {
		name := c.Name
		if c.Icon != "" {
			name = c.Icon + " " + name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, name, c.Slug)
	}
	_ = tw.Flush()
}

func categoryNames(cats []domain.Category) string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), many)
}

func minutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%d h", m/60)
	}
	return fmt.Sprintf("%d h %d min", m/60, m%60)
}
