package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"commission-manager/models"
	"commission-manager/pricing"
	"commission-manager/utils"
)

// ReceiptService renders a frozen order into the receipt view and rasterizes
// it with headless Chrome. All numeric content echoes what was frozen at
// checkout, never a live recomputation against the current catalog.
type ReceiptService struct {
	baseURL string
	tmpl    *template.Template
}

// detectChromePath detects the path to the Chrome/Chromium executable.
// Checks CHROME_PATH env var first, then common installation paths.
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// NewReceiptService creates a ReceiptService. baseURL is where this process
// serves the receipt HTML view for Chrome to load (e.g. "http://localhost:8080").
func NewReceiptService(baseURL string) (*ReceiptService, error) {
	tmplPath := filepath.Join("templates", "receipt.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}
	return &ReceiptService{
		baseURL: baseURL,
		tmpl:    tmpl,
	}, nil
}

// receiptLine is one rendered row of the receipt.
type receiptLine struct {
	Name   string
	Detail string
	Amount string
	Note   string
}

// receiptData is the data passed to the receipt template.
type receiptData struct {
	Order       *models.Order
	StatusLabel string
	DisplayDate string
	Lines       []receiptLine
	AddOnLines  []receiptLine
	HasAddOns   bool
	Multiplier  string
	Total       string
	Deposit     string
	Balance     string
}

// RenderHTML renders the receipt view for a frozen order.
func (s *ReceiptService) RenderHTML(order *models.Order) (string, error) {
	data := s.buildReceiptData(order)

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute receipt template: %w", err)
	}
	return buf.String(), nil
}

func (s *ReceiptService) buildReceiptData(order *models.Order) *receiptData {
	// Per-item prices derive from the frozen line items; the order total,
	// deposit and balance come from the frozen TotalPrice.
	breakdown := pricing.Breakdown(order.Items, order.Multiplier, order.AddOns)
	deposit, balance := pricing.Split(order.TotalPrice)

	data := &receiptData{
		Order:       order,
		StatusLabel: order.Status.Label(),
		DisplayDate: displayDate(order.Date),
		Multiplier:  formatMultiplier(order.Multiplier),
		Total:       utils.FormatTHB(order.TotalPrice),
		Deposit:     utils.FormatTHB(deposit),
		Balance:     utils.FormatTHB(balance),
	}

	for i, detail := range breakdown.Items {
		line := receiptLine{
			Name:   detail.Name,
			Detail: detail.SubType,
			Amount: utils.FormatTHB(detail.LineTotal),
			Note:   itemNotes(order.Items[i]),
		}
		data.Lines = append(data.Lines, line)
	}

	data.HasAddOns = !order.AddOns.Empty()
	if order.AddOns.PropSmall > 0 {
		data.AddOnLines = append(data.AddOnLines, receiptLine{
			Name:   "Prop (Small)",
			Detail: fmt.Sprintf("x%d", order.AddOns.PropSmall),
			Amount: utils.FormatTHB(float64(order.AddOns.PropSmall) * pricing.SmallPropPrice),
		})
	}
	if order.AddOns.PropLarge > 0 {
		data.AddOnLines = append(data.AddOnLines, receiptLine{
			Name:   "Prop (Large)",
			Detail: fmt.Sprintf("x%d", order.AddOns.PropLarge),
			Amount: utils.FormatTHB(float64(order.AddOns.PropLarge) * pricing.LargePropPrice),
		})
	}
	if order.AddOns.CustomDesignPrice > 0 {
		data.AddOnLines = append(data.AddOnLines, receiptLine{
			Name:   "Custom Design",
			Amount: utils.FormatTHB(order.AddOns.CustomDesignPrice),
		})
	}

	return data
}

// itemNotes annotates the modifiers applied to a line item.
func itemNotes(item models.LineItem) string {
	var notes []string
	if item.CustomPrice != nil {
		notes = append(notes, "custom price")
	}
	if item.IsFullBody {
		notes = append(notes, "full body x2")
	}
	if item.HasAIFile {
		notes = append(notes, fmt.Sprintf("+AI file (%s)", utils.FormatTHB(pricing.AIFileSurcharge)))
	}
	if item.NoMultiplier {
		notes = append(notes, "fixed rate")
	}
	return strings.Join(notes, " · ")
}

// displayDate formats an order date with the Thai month and Buddhist year.
func displayDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s", d.Day(), utils.ThaiMonthYear(int(d.Month()), d.Year()))
}

func formatMultiplier(m float64) string {
	if m == float64(int64(m)) {
		return fmt.Sprintf("x%d", int64(m))
	}
	return fmt.Sprintf("x%.1f", m)
}

// receiptURL is the address Chrome loads to rasterize an order's receipt.
func (s *ReceiptService) receiptURL(orderID, source string) string {
	url := fmt.Sprintf("%s/api/orders/%s/receipt", s.baseURL, orderID)
	if source != "" {
		url += "?source=" + source
	}
	return url
}

func (s *ReceiptService) newChromeContext(ctx context.Context) (context.Context, context.CancelFunc, context.CancelFunc) {
	chromePath := detectChromePath()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	return chromeCtx, chromeCancel, allocCancel
}

// GeneratePNG rasterizes the receipt view at 2x device scale.
func (s *ReceiptService) GeneratePNG(ctx context.Context, orderID, source string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	chromeCtx, chromeCancel, allocCancel := s.newChromeContext(ctx)
	defer allocCancel()
	defer chromeCancel()

	var buf []byte
	err := chromedp.Run(chromeCtx,
		chromedp.EmulateViewport(640, 800, chromedp.EmulateScale(2)),
		chromedp.Navigate(s.receiptURL(orderID, source)),
		chromedp.WaitReady("body"),
		// Wait for fonts to settle before capturing.
		chromedp.Sleep(1*time.Second),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt PNG: %w", err)
	}
	return buf, nil
}

// GeneratePDF renders the receipt view to a PDF document.
func (s *ReceiptService) GeneratePDF(ctx context.Context, orderID, source string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	chromeCtx, chromeCancel, allocCancel := s.newChromeContext(ctx)
	defer allocCancel()
	defer chromeCancel()

	var pdfBuf []byte
	err := chromedp.Run(chromeCtx,
		chromedp.EmulateViewport(640, 800),
		chromedp.Navigate(s.receiptURL(orderID, source)),
		chromedp.WaitReady("body"),
		chromedp.Sleep(1*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A5 portrait: 148mm x 210mm (1mm = 0.03937 inches).
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(5.83).
				WithPaperHeight(8.27).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt PDF: %w", err)
	}
	return pdfBuf, nil
}
