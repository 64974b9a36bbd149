package models

// ContactChannel identifies where the client can be reached.
type ContactChannel string

const (
	ContactFacebook ContactChannel = "Facebook"
	ContactTwitter  ContactChannel = "X/Twitter"
	ContactDiscord  ContactChannel = "Discord"
	ContactVGen     ContactChannel = "VGen"
	ContactOther    ContactChannel = "Other"
)

var contactChannels = map[ContactChannel]bool{
	ContactFacebook: true,
	ContactTwitter:  true,
	ContactDiscord:  true,
	ContactVGen:     true,
	ContactOther:    true,
}

// Valid reports whether c is one of the known contact channels.
func (c ContactChannel) Valid() bool {
	return contactChannels[c]
}

// LineItem is one catalog selection within an order. BasePrice is copied from
// the catalog (or the chosen sub-option) at selection time, so later catalog
// changes never retroactively alter existing items.
type LineItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BasePrice    float64  `json:"basePrice"`
	SubType      string   `json:"subType,omitempty"`
	IsFullBody   bool     `json:"isFullBody,omitempty"`
	HasAIFile    bool     `json:"hasAiFile,omitempty"`
	CustomPrice  *float64 `json:"customPrice,omitempty"`
	NoMultiplier bool     `json:"noMultiplier,omitempty"`
}

// AddOns records the per-order priced extras. PropSmall and PropLarge are
// counts; CustomDesignPrice is a direct amount, not a unit price.
type AddOns struct {
	PropSmall         int     `json:"propSmall"`
	PropLarge         int     `json:"propLarge"`
	CustomDesignPrice float64 `json:"customDesignPrice"`
}

// Empty reports whether no add-on carries a value.
func (a AddOns) Empty() bool {
	return a.PropSmall == 0 && a.PropLarge == 0 && a.CustomDesignPrice == 0
}

// Order is a confirmed commission. Items, multiplier, add-ons and TotalPrice
// are frozen at checkout; only Status and Deadline mutate afterwards.
type Order struct {
	ID            string         `json:"id"`
	ClientName    string         `json:"clientName"`
	ClientContact string         `json:"clientContact"`
	ContactType   ContactChannel `json:"contactType"`
	Items         []LineItem     `json:"items"`
	Multiplier    float64        `json:"multiplier"`
	AddOns        AddOns         `json:"addOns"`
	TotalPrice    float64        `json:"totalPrice"`
	Date          Date           `json:"date"`
	Deadline      string         `json:"deadline"`
	Status        Status         `json:"status"`
}

// CheckoutRequest is the request body for confirming a draft order.
// Example: {"clientName": "Mint", "contactType": "Discord", "items": [...], "multiplier": 1.5, "addOns": {"propSmall": 1}}
type CheckoutRequest struct {
	ClientName    string         `json:"clientName"`
	ClientContact string         `json:"clientContact"`
	ContactType   ContactChannel `json:"contactType"`
	Deadline      string         `json:"deadline"`
	Items         []LineItem     `json:"items"`
	Multiplier    float64        `json:"multiplier"`
	AddOns        AddOns         `json:"addOns"`
}

// QuoteRequest is the request body for a live pricing preview.
type QuoteRequest struct {
	Items      []LineItem `json:"items"`
	Multiplier float64    `json:"multiplier"`
	AddOns     AddOns     `json:"addOns"`
}

// UpdateStatusRequest is the request body for changing an order's status.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateDeadlineRequest is the request body for changing an order's deadline.
type UpdateDeadlineRequest struct {
	Deadline string `json:"deadline"`
}
