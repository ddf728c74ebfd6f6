// Package sheets backs the dashboard with a Google Sheets spreadsheet: the
// usage table is read from one sheet, manual entries are appended to it, and
// exports are written to a second sheet.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"wattboard/internal/core"
	"wattboard/internal/source"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	usageSheet    string
	exportSheet   string
}

// Ensure interface conformance
var (
	_ source.TableReader    = (*Client)(nil)
	_ source.RecordAppender = (*Client)(nil)
	_ source.TableExporter  = (*Client)(nil)
)

// Options configures the Sheets client. OAuth credentials may be given as
// raw JSON or as file paths; JSON wins when both are set.
type Options struct {
	SpreadsheetID   string
	UsageSheet      string
	ExportSheet     string
	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
}

// New creates a Sheets client for the configured spreadsheet.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	usage := opts.UsageSheet
	if usage == "" {
		usage = "Usage"
	}
	export := opts.ExportSheet
	if export == "" {
		export = "Export"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		usageSheet:    usage,
		exportSheet:   export,
	}, nil
}

// newSheetsService builds the API client from the OAuth client config and a
// previously obtained token (see cmd/oauth-init).
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	clientJSON, err := loadCredential(opts.OAuthClientJSON, opts.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("oauth client: %w", err)
	}
	tokenJSON, err := loadCredential(opts.OAuthTokenJSON, opts.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	cfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	return gsheet.NewService(ctx, goption.WithHTTPClient(cfg.Client(ctx, &tok)))
}

func loadCredential(raw, file string) ([]byte, error) {
	switch {
	case raw != "":
		return []byte(raw), nil
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, errors.New("no JSON or file configured")
	}
}

// Table reads the usage sheet into a table. The first row is the header and
// is validated for the required columns; extra columns pass through.
func (c *Client) Table(ctx context.Context) (core.Table, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(c.usageSheet, "A1:Z")).Context(ctx).Do()
	if err != nil {
		return core.Table{}, fmt.Errorf("read sheet %q: %w", c.usageSheet, err)
	}
	if len(resp.Values) == 0 {
		return core.Table{}, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		header[i] = strings.TrimSpace(cellString(v))
	}
	if err := core.ValidateColumns(header); err != nil {
		return core.Table{}, err
	}

	colAt := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := colAt[name]; !dup {
			colAt[name] = i
		}
	}
	required := make(map[string]bool, 4)
	for _, name := range core.RequiredColumns() {
		required[name] = true
	}
	var extras []string
	for _, name := range header {
		if !required[name] && name != "" {
			extras = append(extras, name)
		}
	}

	tbl := core.Table{ExtraColumns: extras}
	for rowIdx, row := range resp.Values[1:] {
		cell := func(col string) string {
			i := colAt[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(cellString(row[i]))
		}

		rec := core.Record{Month: cell(core.ColMonth), UnitName: cell(core.ColUnitName)}
		rec.UnitsConsumed, err = parseCell(cell(core.ColUnitsConsumed))
		if err != nil {
			return core.Table{}, fmt.Errorf("row %d: %s: %w", rowIdx+2, core.ColUnitsConsumed, err)
		}
		rec.Cost, err = parseCell(cell(core.ColCost))
		if err != nil {
			return core.Table{}, fmt.Errorf("row %d: %s: %w", rowIdx+2, core.ColCost, err)
		}
		if len(extras) > 0 {
			rec.Extra = make(map[string]string, len(extras))
			for _, name := range extras {
				rec.Extra[name] = cell(name)
			}
		}
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl, nil
}

// Append stores one manual entry at the end of the usage sheet.
func (c *Client) Append(ctx context.Context, r core.Record) (string, error) {
	vr := &gsheet.ValueRange{
		Values: [][]interface{}{{r.Month, r.UnitName, r.UnitsConsumed.String(), r.Cost.String()}},
	}
	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, sheetRange(c.usageSheet, "A:D"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %q: %w", c.usageSheet, err)
	}
	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Appended record to sheet", "sheet", c.usageSheet, "row_ref", ref)
	return ref, nil
}

// Export replaces the export sheet's contents with a snapshot of the table.
func (c *Client) Export(ctx context.Context, t core.Table) error {
	clearRange := sheetRange(c.exportSheet, "A:Z")
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %q: %w", c.exportSheet, err)
	}

	values := make([][]interface{}, 0, t.Len()+1)
	header := make([]interface{}, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		header = append(header, col)
	}
	values = append(values, header)
	for _, r := range t.Records {
		row := []interface{}{r.Month, r.UnitName, r.UnitsConsumed.String(), r.Cost.String()}
		for _, name := range t.ExtraColumns {
			row = append(row, r.Extra[name])
		}
		values = append(values, row)
	}

	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, sheetRange(c.exportSheet, "A1"), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %q: %w", c.exportSheet, err)
	}
	slog.InfoContext(ctx, "Exported table to sheet", "sheet", c.exportSheet, "rows", t.Len())
	return nil
}

func parseCell(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	// Sheets may render numbers with a decimal comma depending on locale
	raw = strings.ReplaceAll(raw, ",", ".")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("value %q is not numeric", raw)
	}
	return d, nil
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return decimal.NewFromFloat(val).String()
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// sheetRange builds an A1-notation range with the sheet name quoted.
func sheetRange(sheet, ref string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + ref
}
