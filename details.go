package main

import (
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// cell is one column of a details row. Widths are measured on plain; the
// painted form is what gets printed.
type cell struct {
	plain   string
	painted string
	right   bool
}

func plainCell(s string) cell { return cell{plain: s, painted: s} }

// detailsView prints one row per entry: permissions, size, owner,
// modification date, optional git status, and name.
type detailsView struct {
	colors *colorScheme
	sizes  SizeFormat
	header bool
	git    *gitCache // nil when the git column is off
	now    time.Time
	owners map[uint32]string
}

func (v *detailsView) Render(w io.Writer, _ *Dir, files []*File) error {
	rows := make([][]cell, 0, len(files)+1)
	if v.header {
		rows = append(rows, v.headerRow())
	}
	for _, f := range files {
		rows = append(rows, v.row(f, ""))
	}
	return writeTable(w, rows)
}

func (v *detailsView) headerRow() []cell {
	titles := []string{"Permissions", "Size", "User", "Date Modified"}
	if v.git != nil {
		titles = append(titles, "Git")
	}
	titles = append(titles, "Name")

	row := make([]cell, len(titles))
	for i, t := range titles {
		row[i] = cell{plain: t, painted: v.colors.header.Sprint(t)}
	}
	row[1].right = true
	return row
}

// row builds the cells for f. prefix is drawn before the name, which is how
// the tree view indents.
func (v *detailsView) row(f *File, prefix string) []cell {
	row := []cell{
		plainCell(permissionString(f)),
		v.sizeCell(f),
		v.userCell(f),
		v.dateCell(f),
	}
	if v.git != nil {
		row = append(row, v.gitCell(f))
	}
	plain, painted := v.colors.nameWithTarget(f)
	row = append(row, cell{plain: prefix + plain, painted: v.colors.punctuation.Sprint(prefix) + painted})
	return row
}

// permissionString renders the type character followed by rwx triplets,
// e.g. "drwxr-xr-x" or ".rw-r--r--".
func permissionString(f *File) string {
	if f.Info == nil {
		return "??????????"
	}
	mode := f.Info.Mode()
	var kind byte
	switch {
	case mode&fs.ModeSymlink != 0:
		kind = 'l'
	case mode.IsDir():
		kind = 'd'
	case mode&fs.ModeNamedPipe != 0:
		kind = 'p'
	case mode&fs.ModeSocket != 0:
		kind = 's'
	case mode&fs.ModeCharDevice != 0:
		kind = 'c'
	case mode&fs.ModeDevice != 0:
		kind = 'b'
	default:
		kind = '.'
	}
	return string(kind) + mode.Perm().String()[1:]
}

func (v *detailsView) sizeCell(f *File) cell {
	if f.IsDir || f.Info == nil {
		c := plainCell("-")
		c.painted = v.colors.punctuation.Sprint("-")
		c.right = true
		return c
	}
	s := formatSize(f.Size(), v.sizes)
	return cell{plain: s, painted: v.colors.size.Sprint(s), right: true}
}

func formatSize(n int64, format SizeFormat) string {
	if n < 0 {
		n = 0
	}
	switch format {
	case SizeBinary:
		return humanize.IBytes(uint64(n))
	case SizeBytes:
		return humanize.Comma(n)
	default:
		return humanize.Bytes(uint64(n))
	}
}

func (v *detailsView) userCell(f *File) cell {
	uid, ok := fileOwner(f.Info)
	if !ok {
		return plainCell("-")
	}
	name, cached := v.owners[uid]
	if !cached {
		name = lookupUser(uid)
		v.owners[uid] = name
	}
	return cell{plain: name, painted: v.colors.user.Sprint(name)}
}

func (v *detailsView) dateCell(f *File) cell {
	s := formatDate(f.ModTime(), v.now)
	return cell{plain: s, painted: v.colors.date.Sprint(s)}
}

// formatDate shows the time of day for recent files and the year for
// anything older than six months or in the future.
func formatDate(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if t.After(now) || now.Sub(t) > 182*24*time.Hour {
		return t.Format("02 Jan  2006")
	}
	return t.Format("02 Jan 15:04")
}

func (v *detailsView) gitCell(f *File) cell {
	staged, unstaged := v.git.Status(f)
	s, u := gitStatusChar(staged, false), gitStatusChar(unstaged, true)
	return cell{plain: string(s) + string(u), painted: v.paintGit(s) + v.paintGit(u)}
}

func (v *detailsView) paintGit(c byte) string {
	switch c {
	case 'N':
		return v.colors.gitNew.Sprint(string(c))
	case 'M':
		return v.colors.gitModified.Sprint(string(c))
	case 'D':
		return v.colors.gitDeleted.Sprint(string(c))
	case '-':
		return v.colors.punctuation.Sprint(string(c))
	default:
		return v.colors.gitOther.Sprint(string(c))
	}
}

// writeTable pads every column but the last to its widest cell.
func writeTable(w io.Writer, rows [][]cell) error {
	var widths []int
	for _, row := range rows {
		for i, c := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(c.plain))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, c := range row {
			last := i == len(row)-1
			pad := widths[i] - runewidth.StringWidth(c.plain)
			if c.right {
				b.WriteString(strings.Repeat(" ", pad))
			}
			b.WriteString(c.painted)
			if !last {
				if !c.right {
					b.WriteString(strings.Repeat(" ", pad))
				}
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
