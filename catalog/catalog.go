package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"commission-manager/models"
)

// PricingMode identifies how a catalog entry is priced. Exactly one mode
// applies per entry; Validate enforces this when a catalog is built.
type PricingMode int

const (
	ModeFixed PricingMode = iota
	ModeOptions
	ModeCustom
)

// SubOption is one priced variant of a catalog entry (e.g. head / bust up /
// full body for chibi commissions).
type SubOption struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Entry is one purchasable commission type. JSON tags match the catalog
// config file format.
type Entry struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	BasePrice float64     `json:"basePrice,omitempty"`
	Options   []SubOption `json:"options,omitempty"`
	Custom    bool        `json:"isCustom,omitempty"`

	// FullBodyEligible marks entries whose price doubles when drawn full body.
	FullBodyEligible bool `json:"hasFullBodyOption,omitempty"`
	// AIFileEligible marks entries that can include the editable source file
	// for a fixed surcharge.
	AIFileEligible bool `json:"hasAiOption,omitempty"`
	// MultiplierExempt entries never scale with the order multiplier.
	MultiplierExempt bool `json:"noMultiplier,omitempty"`
}

// Mode returns the entry's pricing mode. Only meaningful on validated entries.
func (e Entry) Mode() PricingMode {
	switch {
	case e.Custom:
		return ModeCustom
	case len(e.Options) > 0:
		return ModeOptions
	default:
		return ModeFixed
	}
}

// Catalog is the static, read-only table of commission types, loaded once at
// process start.
type Catalog struct {
	entries []Entry
	byID    map[string]Entry
	byName  map[string]Entry
}

// New builds a catalog from entries, validating that IDs are unique and every
// entry carries exactly one pricing mode.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: entries,
		byID:    make(map[string]Entry, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.ID, err)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", e.ID)
		}
		c.byID[e.ID] = e
		c.byName[e.Name] = e
	}
	return c, nil
}

func validateEntry(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}

	modes := 0
	if e.BasePrice > 0 {
		modes++
	}
	if len(e.Options) > 0 {
		modes++
	}
	if e.Custom {
		modes++
	}
	if modes != 1 {
		return fmt.Errorf("exactly one pricing mode (basePrice, options or isCustom) must be set, got %d", modes)
	}

	for _, opt := range e.Options {
		if opt.Label == "" {
			return fmt.Errorf("option label is required")
		}
		if opt.Price <= 0 {
			return fmt.Errorf("option %q: price must be greater than 0", opt.Label)
		}
	}
	return nil
}

// Load reads a catalog config file (JSON array of entries) and validates it.
func Load(configPath string) (*Catalog, error) {
	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog config: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog config: %w", err)
	}

	c, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog config: %w", err)
	}

	log.Printf("✅ Catalog: loaded %d commission types from %s", len(entries), configPath)
	return c, nil
}

// Default returns the built-in commission catalog.
func Default() *Catalog {
	c, err := New(defaultEntries())
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return c
}

func defaultEntries() []Entry {
	return []Entry{
		{ID: "mini-chibi", Name: "Mini Chibi (Full Body)", BasePrice: 180},
		{ID: "chibi", Name: "Chibi", Options: []SubOption{
			{Label: "Head", Price: 100},
			{Label: "Bust Up", Price: 125},
			{Label: "Fullbody", Price: 200},
		}},
		{ID: "rough-icon", Name: "Rough Icon", BasePrice: 100},
		{ID: "little-type", Name: "The Little Type", BasePrice: 50, FullBodyEligible: true},
		{ID: "dumdui", Name: "DumDui", BasePrice: 150},
		{ID: "emote", Name: "Emote", MultiplierExempt: true, Options: []SubOption{
			{Label: "1 รูป", Price: 250},
			{Label: "5 รูป", Price: 1225},
			{Label: "10 รูป", Price: 2400},
		}},
		{ID: "ych-yeh", Name: "YCH Yeh!", BasePrice: 100},
		{ID: "reactive-gif", Name: "Reactive GIF", BasePrice: 500, MultiplierExempt: true},
		{ID: "logo-typo", Name: "Logo / Typo", BasePrice: 1000, AIFileEligible: true},
		{ID: "video-pv", Name: "Video / PV", Custom: true},
	}
}

// Entries returns the catalog entries in display order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Resolve looks up an entry by id. The selectable id set is closed, so a miss
// is a programming error on the caller's side.
func (c *Catalog) Resolve(id string) (Entry, error) {
	e, ok := c.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("catalog entry %q not found", id)
	}
	return e, nil
}

// ResolveByName looks up an entry by display name.
func (c *Catalog) ResolveByName(name string) (Entry, error) {
	e, ok := c.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("catalog entry named %q not found", name)
	}
	return e, nil
}

// NewLineItem instantiates a line item from a catalog entry, copying the
// resolved price so later catalog edits cannot alter it. Entries with
// sub-options start on their first option; custom-priced entries start at 0
// and must receive a custom price before checkout.
func (c *Catalog) NewLineItem(id string) (models.LineItem, error) {
	entry, err := c.Resolve(id)
	if err != nil {
		return models.LineItem{}, err
	}

	item := models.LineItem{
		ID:           uuid.NewString(),
		Name:         entry.Name,
		BasePrice:    entry.BasePrice,
		NoMultiplier: entry.MultiplierExempt,
	}
	if len(entry.Options) > 0 {
		item.SubType = entry.Options[0].Label
		item.BasePrice = entry.Options[0].Price
	}
	return item, nil
}
