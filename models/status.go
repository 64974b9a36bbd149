package models

// Status represents an order's position in the production workflow.
// The sequence is fixed, but transitions are free-choice: staff may move an
// order to any status, including backward, to correct a mis-set stage.
type Status string

const (
	StatusAwaitingDeposit Status = "awaiting_deposit"
	StatusBriefing        Status = "briefing"
	StatusDraft           Status = "draft"
	StatusLineart         Status = "lineart"
	StatusBaseColor       Status = "base_color"
	StatusMotionColor     Status = "motion_color"
	StatusFinished        Status = "finished"
)

// statusOrder lists statuses in production order, used for display and validation.
var statusOrder = []Status{
	StatusAwaitingDeposit,
	StatusBriefing,
	StatusDraft,
	StatusLineart,
	StatusBaseColor,
	StatusMotionColor,
	StatusFinished,
}

// statusLabels maps statuses to the display labels used on receipts and the
// dashboard (the studio operates in Thai).
var statusLabels = map[Status]string{
	StatusAwaitingDeposit: "รอชำระมัดจำ",
	StatusBriefing:        "บรีฟงาน",
	StatusDraft:           "ร่างภาพ",
	StatusLineart:         "ตัดเส้น",
	StatusBaseColor:       "ลงสีพื้น",
	StatusMotionColor:     "ลงสี/ขยับ",
	StatusFinished:        "เสร็จสมบูรณ์",
}

// AllStatuses returns the workflow statuses in production order.
func AllStatuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Valid reports whether s is one of the workflow statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label for the status, or the raw value if unknown.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
