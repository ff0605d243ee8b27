package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/brickingsoft/fio"
	"github.com/brickingsoft/fio/pkg/attr"
	"github.com/dustin/go-humanize"
)

type record struct {
	File     string    `json:"file"`
	Backend  string    `json:"backend"`
	Size     int64     `json:"size"`
	Blocks   int64     `json:"blocks"`
	Blksize  int64     `json:"blksize"`
	Mode     string    `json:"mode"`
	Inode    uint64    `json:"inode"`
	Nlink    uint64    `json:"nlink"`
	Uid      uint32    `json:"uid"`
	Gid      uint32    `json:"gid"`
	Device   string    `json:"device"`
	Accessed time.Time `json:"accessed"`
	Modified time.Time `json:"modified"`
	Changed  time.Time `json:"changed"`
	Created  time.Time `json:"created,omitzero"`
	Mask     uint32    `json:"mask"`
}

func newRecord(name, backend string, m *fio.Metadata) record {
	r := record{
		File:     name,
		Backend:  backend,
		Size:     m.Size(),
		Blocks:   m.Blocks(),
		Blksize:  m.Blksize(),
		Mode:     m.Mode().String(),
		Inode:    m.Inode(),
		Nlink:    m.Nlink(),
		Uid:      m.Uid(),
		Gid:      m.Gid(),
		Device:   fmt.Sprintf("%d:%d", attr.Major(m.Dev()), attr.Minor(m.Dev())),
		Accessed: m.Accessed(),
		Modified: m.Modified(),
		Changed:  m.Changed(),
		Mask:     m.Mask(),
	}
	if m.Mask()&attr.MaskBtime != 0 {
		r.Created = m.Created()
	}
	return r
}

// printer writes one record per stat, safe for the watch goroutine and the caller.
type printer struct {
	mu   sync.Mutex
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	return &printer{w: w, json: asJSON}
}

func (p *printer) print(name, backend string, m *fio.Metadata) error {
	r := newRecord(name, backend, m)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.json {
		return json.NewEncoder(p.w).Encode(r)
	}
	_, err := io.WriteString(p.w, formatText(r))
	return err
}

func formatText(r record) string {
	created := "-"
	if !r.Created.IsZero() {
		created = formatTime(r.Created)
	}
	return fmt.Sprintf(
		"  File: %s\n"+
			"  Size: %d (%s)\tBlocks: %d\tIO Block: %d\n"+
			"Device: %s\tInode: %d\tLinks: %d\n"+
			"Access: (%s)\tUid: %d\tGid: %d\n"+
			"Access: %s (%s)\n"+
			"Modify: %s (%s)\n"+
			"Change: %s\n"+
			" Birth: %s\n"+
			"   Via: %s\n",
		r.File,
		r.Size, humanize.IBytes(uint64(max(r.Size, 0))), r.Blocks, r.Blksize,
		r.Device, r.Inode, r.Nlink,
		r.Mode, r.Uid, r.Gid,
		formatTime(r.Accessed), humanize.Time(r.Accessed),
		formatTime(r.Modified), humanize.Time(r.Modified),
		formatTime(r.Changed),
		created,
		r.Backend,
	)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05.000000000 -0700")
}
