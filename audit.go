package labelset

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/labelset/internal/layout"
)

// BranchAudit describes the on-disk state of one branch.
type BranchAudit struct {
	// FileCounts maps each field to the number of well-formed files in its
	// directory.
	FileCounts map[string]int

	// Ordinals maps each field to the set of ordinals stored for it.
	Ordinals map[string]*roaring.Bitmap

	// Missing maps each field to the ordinals some other field has but
	// this one lacks. A failed field write shows up here.
	Missing map[string][]uint32

	// Foreign maps each field to file names in its directory that do not
	// follow the naming scheme, or that name a different polarity/field.
	Foreign map[string][]string
}

// MissingFiles returns the total number of (field, ordinal) holes.
func (b *BranchAudit) MissingFiles() int {
	n := 0
	for _, ordinals := range b.Missing {
		n += len(ordinals)
	}
	return n
}

// AuditReport is the result of reconciling a collection with its directory
// tree.
type AuditReport struct {
	Positive BranchAudit
	Negative BranchAudit
}

// Consistent reports whether every field directory of each branch holds
// exactly the same ordinals.
func (r *AuditReport) Consistent() bool {
	return r.Positive.MissingFiles() == 0 && r.Negative.MissingFiles() == 0
}

// MissingFiles returns the total number of holes across both branches.
func (r *AuditReport) MissingFiles() int {
	return r.Positive.MissingFiles() + r.Negative.MissingFiles()
}

// Audit scans every field directory and cross-checks the stored ordinals.
//
// Counters are never rolled back when a field write fails, so a crashed or
// failed save leaves some fields of a sample on disk and others missing.
// The startup count also trusts a single representative field. Audit is the
// explicit check for both: it reports, per field, the ordinals present
// elsewhere but absent there. It takes no lock; run it at a quiescent point
// or treat in-flight saves as expected noise.
func (c *Collection) Audit(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{}

	for _, p := range []Polarity{Positive, Negative} {
		branch, err := c.auditBranch(ctx, p)
		if err != nil {
			c.logger.LogAudit(ctx, false, 0, err)
			return nil, err
		}
		if p == Positive {
			report.Positive = *branch
		} else {
			report.Negative = *branch
		}
	}

	c.logger.LogAudit(ctx, report.Consistent(), report.MissingFiles(), nil)
	return report, nil
}

func (c *Collection) auditBranch(ctx context.Context, p Polarity) (*BranchAudit, error) {
	branch := &BranchAudit{
		FileCounts: make(map[string]int, len(c.fields)),
		Ordinals:   make(map[string]*roaring.Bitmap, len(c.fields)),
		Missing:    make(map[string][]uint32),
		Foreign:    make(map[string][]string),
	}

	union := roaring.New()
	for _, field := range c.fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ordinals, foreign, err := c.scanFieldDir(p, field)
		if err != nil {
			return nil, err
		}

		branch.FileCounts[field] = int(ordinals.GetCardinality())
		branch.Ordinals[field] = ordinals
		if len(foreign) > 0 {
			branch.Foreign[field] = foreign
		}
		union.Or(ordinals)
	}

	for _, field := range c.fields {
		missing := roaring.AndNot(union, branch.Ordinals[field])
		if !missing.IsEmpty() {
			branch.Missing[field] = missing.ToArray()
		}
	}

	return branch, nil
}

func (c *Collection) scanFieldDir(p Polarity, field string) (*roaring.Bitmap, []string, error) {
	dir := c.layout.FieldDir(p, field)
	entries, err := c.fsys.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %q: %w", dir, err)
	}

	ordinals := roaring.New()
	var foreign []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, ok := layout.ParseFileName(e.Name())
		if !ok || info.Polarity != p || info.Field != field {
			foreign = append(foreign, e.Name())
			continue
		}
		ordinals.Add(uint32(info.Ordinal))
	}
	return ordinals, foreign, nil
}
