package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"commission-manager/models"
)

// Tab names inside the spreadsheet. Each row is [order id, order JSON].
const (
	queueSheet   = "Queue"
	archiveSheet = "Archive"
)

// SheetsGateway stores the collections directly in a Google Spreadsheet, one
// tab per collection. Rows are appended oldest-first; Snapshot reverses them
// to recover the newest-first view.
type SheetsGateway struct {
	svc           *sheets.Service
	spreadsheetID string
}

var _ Gateway = (*SheetsGateway)(nil)

// NewSheetsGateway creates a gateway backed by the given spreadsheet.
// credentialsPath is a Service Account JSON file with edit access to it.
func NewSheetsGateway(ctx context.Context, credentialsPath, spreadsheetID string) (*SheetsGateway, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsGateway{
		svc:           svc,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Snapshot reads both tabs. Rows whose JSON payload fails to parse are skipped
// with a warning rather than failing the whole reload.
func (g *SheetsGateway) Snapshot(ctx context.Context) (*Snapshot, error) {
	resp, err := g.svc.Spreadsheets.Values.
		BatchGet(g.spreadsheetID).
		Ranges(queueSheet+"!A:B", archiveSheet+"!A:B").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	if len(resp.ValueRanges) != 2 {
		return nil, fmt.Errorf("expected 2 value ranges, got %d", len(resp.ValueRanges))
	}

	return &Snapshot{
		Queue:      parseOrderRows(queueSheet, resp.ValueRanges[0].Values),
		Archive:    parseOrderRows(archiveSheet, resp.ValueRanges[1].Values),
		QueueSet:   true,
		ArchiveSet: true,
	}, nil
}

func parseOrderRows(sheet string, rows [][]interface{}) []models.Order {
	orders := make([]models.Order, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		payload, ok := row[1].(string)
		if !ok {
			continue
		}
		var order models.Order
		if err := json.Unmarshal([]byte(payload), &order); err != nil {
			log.Printf("⚠️  SheetsGateway: skipping unparsable row %d in %s: %v", i+1, sheet, err)
			continue
		}
		orders = append(orders, order)
	}

	// Stored oldest-first, served newest-first.
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
	return orders
}

// Dispatch applies one mutation to the spreadsheet.
func (g *SheetsGateway) Dispatch(ctx context.Context, m Mutation) error {
	switch m.Action {
	case ActionCreate:
		return g.appendOrder(ctx, queueSheet, m.Order)
	case ActionUpdate:
		return g.updateOrder(ctx, queueSheet, m.Order)
	case ActionArchive:
		if err := g.deleteOrder(ctx, queueSheet, m.ID); err != nil {
			return err
		}
		return g.appendOrder(ctx, archiveSheet, m.Order)
	case ActionDeleteQueue:
		return g.deleteOrder(ctx, queueSheet, m.ID)
	case ActionDeleteArchive:
		return g.deleteOrder(ctx, archiveSheet, m.ID)
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
}

func orderRow(order *models.Order) ([]interface{}, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order %s: %w", order.ID, err)
	}
	return []interface{}{order.ID, string(payload)}, nil
}

func (g *SheetsGateway) appendOrder(ctx context.Context, sheet string, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("append to %s requires an order payload", sheet)
	}
	row, err := orderRow(order)
	if err != nil {
		return err
	}

	_, err = g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, sheet+"!A:B", &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append order %s to %s: %w", order.ID, sheet, err)
	}
	return nil
}

func (g *SheetsGateway) updateOrder(ctx context.Context, sheet string, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("update in %s requires an order payload", sheet)
	}
	rowIdx, found, err := g.findRow(ctx, sheet, order.ID)
	if err != nil {
		return err
	}
	if !found {
		// The remote copy may lag behind local state; recreate the row.
		log.Printf("⚠️  SheetsGateway: order %s not found in %s, appending instead", order.ID, sheet)
		return g.appendOrder(ctx, sheet, order)
	}

	row, err := orderRow(order)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:B%d", sheet, rowIdx+1, rowIdx+1)
	_, err = g.svc.Spreadsheets.Values.
		Update(g.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update order %s in %s: %w", order.ID, sheet, err)
	}
	return nil
}

func (g *SheetsGateway) deleteOrder(ctx context.Context, sheet string, id string) error {
	rowIdx, found, err := g.findRow(ctx, sheet, id)
	if err != nil {
		return err
	}
	if !found {
		log.Printf("⚠️  SheetsGateway: order %s not found in %s, nothing to delete", id, sheet)
		return nil
	}

	sheetID, err := g.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	_, err = g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIdx),
					EndIndex:   int64(rowIdx + 1),
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete order %s from %s: %w", id, sheet, err)
	}
	return nil
}

// findRow returns the 0-based row index of the order id in the sheet's first
// column.
func (g *SheetsGateway) findRow(ctx context.Context, sheet string, id string) (int, bool, error) {
	resp, err := g.svc.Spreadsheets.Values.
		Get(g.spreadsheetID, sheet+"!A:A").
		Context(ctx).
		Do()
	if err != nil {
		return 0, false, fmt.Errorf("failed to scan %s ids: %w", sheet, err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && row[0] == id {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// sheetID resolves a tab title to its numeric sheet id.
func (g *SheetsGateway) sheetID(ctx context.Context, title string) (int64, error) {
	ss, err := g.svc.Spreadsheets.
		Get(g.spreadsheetID).
		Fields("sheets(properties(sheetId,title))").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", title)
}
