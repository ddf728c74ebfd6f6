package http

import (
	"context"
	"fmt"
	"sync"

	"wattboard/internal/backend"
	"wattboard/internal/core"
	"wattboard/internal/sample"
	"wattboard/internal/session"
	"wattboard/internal/source"
)

// Dataset is the table the dashboard currently shows.
//
// With the session backend it is sample data, replaced by CSV uploads, plus
// the session's manual entries on top. With the sheets backend the table
// comes from the spreadsheet. In both cases an uploaded table overrides the
// backend until the session is reset.
type Dataset struct {
	reader   source.TableReader
	appender source.RecordAppender
	store    *session.Store

	units   []string
	rateMin float64
	rateMax float64

	mu      sync.Mutex
	base    *core.Table // uploaded override, nil when absent
	baseRev uint64
}

// NewDataset wires a dataset to the constructed backend. Unit labels and the
// rate band parameterize the sample fallback.
func NewDataset(res *backend.Result, units []string, rateMin, rateMax float64) *Dataset {
	d := &Dataset{
		reader:   res.Backend,
		appender: res.Backend,
		store:    res.Session,
		units:    units,
		rateMin:  rateMin,
		rateMax:  rateMax,
	}
	if d.store != nil {
		// Session backend: the store starts empty, so the initial view is
		// a sample table generated once per process.
		base := sample.GenerateRates(units, rateMin, rateMax)
		d.base = &base
	}
	return d
}

// Table returns the current table: the uploaded override (or, for the
// session backend, the sample base) with manual session entries appended.
func (d *Dataset) Table(ctx context.Context) (core.Table, error) {
	d.mu.Lock()
	base := d.base
	d.mu.Unlock()

	var t core.Table
	if base != nil {
		t = core.Table{Records: base.Records, ExtraColumns: base.ExtraColumns}
	} else {
		loaded, err := d.reader.Table(ctx)
		if err != nil {
			return core.Table{}, fmt.Errorf("load table: %w", err)
		}
		return loaded, nil
	}

	if d.store != nil {
		entries, _ := d.store.Table(ctx)
		if len(entries.Records) > 0 {
			merged := make([]core.Record, 0, len(t.Records)+len(entries.Records))
			merged = append(merged, t.Records...)
			merged = append(merged, entries.Records...)
			t.Records = merged
		}
	}
	return t, nil
}

// Append stores one manual entry in the active backend.
func (d *Dataset) Append(ctx context.Context, r core.Record) (string, error) {
	ref, err := d.appender.Append(ctx, r)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	d.baseRev++
	d.mu.Unlock()
	return ref, nil
}

// SetBase replaces the displayed table with an uploaded one.
func (d *Dataset) SetBase(t core.Table) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.base = &t
	d.baseRev++
}

// UseSample swaps in a freshly generated sample table. Called when an
// uploaded CSV is unreadable.
func (d *Dataset) UseSample() {
	t := sample.GenerateRates(d.units, d.rateMin, d.rateMax)
	d.SetBase(t)
}

// Reset ends the session: manual entries are dropped and, for the session
// backend, a new sample table is generated.
func (d *Dataset) Reset() {
	if d.store != nil {
		d.store.Reset()
		t := sample.GenerateRates(d.units, d.rateMin, d.rateMax)
		d.SetBase(t)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.base = nil
	d.baseRev++
}

// Revision changes on every mutation and keys the fragment cache.
func (d *Dataset) Revision() uint64 {
	d.mu.Lock()
	rev := d.baseRev
	d.mu.Unlock()
	if d.store != nil {
		rev += d.store.Revision()
	}
	return rev
}

// Cacheable reports whether rendered fragments may be cached. The sheets
// backend can change underneath us, so only session-backed data qualifies.
func (d *Dataset) Cacheable() bool {
	return d.store != nil
}
