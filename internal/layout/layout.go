// Package layout manages the on-disk directory tree of a collection and the
// deterministic naming of sample field files.
//
// The tree looks like:
//
//	<dataset_root>/
//	  <folder_name>/
//	    positive_samples/
//	      <field>/  positive_<field>_<total>_(<ordinal>)
//	    negative_samples/
//	      <field>/  negative_<field>_<total>_(<ordinal>)
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/labelset/internal/fs"
)

// Branch directory names. These are part of the on-disk format and must
// never change.
const (
	PositiveDirName = "positive_samples"
	NegativeDirName = "negative_samples"
)

// Polarity identifies the positive or negative branch of a collection.
type Polarity uint8

const (
	// Positive is the branch holding positively labeled samples.
	Positive Polarity = iota
	// Negative is the branch holding negatively labeled samples.
	Negative
)

// Of returns the polarity for a boolean label.
func Of(positive bool) Polarity {
	if positive {
		return Positive
	}
	return Negative
}

// String returns the file-name prefix of the polarity ("positive"/"negative").
func (p Polarity) String() string {
	if p == Positive {
		return "positive"
	}
	return "negative"
}

// DirName returns the branch directory name.
func (p Polarity) DirName() string {
	if p == Positive {
		return PositiveDirName
	}
	return NegativeDirName
}

// Layout owns the directory tree of one collection.
type Layout struct {
	datasetPath string
	folderName  string
	fields      []string
	fsys        fs.FileSystem
}

// New creates a Layout for the given dataset path, folder and field names.
// fields must be non-empty and in the sample's declared order.
func New(datasetPath, folderName string, fields []string, fsys fs.FileSystem) *Layout {
	if fsys == nil {
		fsys = fs.Default
	}
	return &Layout{
		datasetPath: datasetPath,
		folderName:  folderName,
		fields:      fields,
		fsys:        fsys,
	}
}

// Fields returns the declared field names in order.
func (l *Layout) Fields() []string { return l.fields }

// FolderName returns the collection folder name.
func (l *Layout) FolderName() string { return l.folderName }

// BranchDir returns the directory of a branch.
func (l *Layout) BranchDir(p Polarity) string {
	return filepath.Join(l.datasetPath, l.folderName, p.DirName())
}

// FieldDir returns the directory holding one field's files within a branch.
func (l *Layout) FieldDir(p Polarity, field string) string {
	return filepath.Join(l.BranchDir(p), field)
}

// Setup validates the dataset path and idempotently creates the directory
// tree. The parent of the dataset path must already exist; the returned
// error satisfies errors.Is(err, os.ErrNotExist) if it does not, and no
// directory is created in that case.
func (l *Layout) Setup() error {
	parent := filepath.Dir(l.datasetPath)
	if _, err := l.fsys.Stat(parent); err != nil {
		return fmt.Errorf("dataset path parent %q: %w", parent, err)
	}

	dirs := []string{
		l.datasetPath,
		filepath.Join(l.datasetPath, l.folderName),
		l.BranchDir(Positive),
		l.BranchDir(Negative),
	}
	for _, p := range []Polarity{Positive, Negative} {
		for _, field := range l.fields {
			dirs = append(dirs, l.FieldDir(p, field))
		}
	}

	for _, dir := range dirs {
		if err := l.fsys.Mkdir(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create %q: %w", dir, err)
		}
	}

	return nil
}

// CountExisting counts the files already stored per branch. Only the first
// declared field is inspected; all field directories of a branch hold the
// same number of files at any quiescent point.
func (l *Layout) CountExisting() (positive, negative int, err error) {
	field := l.fields[0]

	positive, err = l.countFiles(l.FieldDir(Positive, field))
	if err != nil {
		return 0, 0, err
	}
	negative, err = l.countFiles(l.FieldDir(Negative, field))
	if err != nil {
		return 0, 0, err
	}
	return positive, negative, nil
}

func (l *Layout) countFiles(dir string) (int, error) {
	entries, err := l.fsys.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			n++
		}
	}
	return n, nil
}

// FileName builds the deterministic file name of one stored field value.
// total is the combined sample count at the moment of saving (post-increment)
// and ordinal is the sample's position within its own branch (pre-increment).
func FileName(p Polarity, field string, total, ordinal int) string {
	return fmt.Sprintf("%s_%s_%d_(%d)", p, field, total, ordinal)
}

// FilePath returns the absolute path a field value is stored at.
func (l *Layout) FilePath(p Polarity, field string, total, ordinal int) string {
	return filepath.Join(l.FieldDir(p, field), FileName(p, field, total, ordinal))
}

// FileInfo is the parsed form of a stored file name.
type FileInfo struct {
	Polarity Polarity
	Field    string
	Total    int
	Ordinal  int
}

// ParseFileName is the inverse of FileName. It reports ok=false for names
// that do not follow the scheme. Field names may themselves contain
// underscores, so the numeric components are taken from the right.
func ParseFileName(name string) (FileInfo, bool) {
	var info FileInfo

	rest, found := strings.CutPrefix(name, "positive_")
	if found {
		info.Polarity = Positive
	} else {
		if rest, found = strings.CutPrefix(name, "negative_"); !found {
			return FileInfo{}, false
		}
		info.Polarity = Negative
	}

	if !strings.HasSuffix(rest, ")") {
		return FileInfo{}, false
	}
	rest = strings.TrimSuffix(rest, ")")

	i := strings.LastIndex(rest, "_(")
	if i < 0 {
		return FileInfo{}, false
	}
	ordinal, err := strconv.Atoi(rest[i+2:])
	if err != nil || ordinal < 0 {
		return FileInfo{}, false
	}
	rest = rest[:i]

	i = strings.LastIndex(rest, "_")
	if i <= 0 {
		return FileInfo{}, false
	}
	total, err := strconv.Atoi(rest[i+1:])
	if err != nil || total <= 0 {
		return FileInfo{}, false
	}

	info.Field = rest[:i]
	info.Total = total
	info.Ordinal = ordinal
	return info, true
}

// FindFile scans a field directory for the file carrying the given ordinal.
// The total component cannot be derived from the ordinal alone, so lookup
// goes through the directory listing.
func (l *Layout) FindFile(p Polarity, field string, ordinal int) (string, bool, error) {
	dir := l.FieldDir(p, field)
	entries, err := l.fsys.ReadDir(dir)
	if err != nil {
		return "", false, fmt.Errorf("scan %q: %w", dir, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, ok := ParseFileName(e.Name())
		if ok && info.Polarity == p && info.Field == field && info.Ordinal == ordinal {
			return e.Name(), true, nil
		}
	}
	return "", false, nil
}
