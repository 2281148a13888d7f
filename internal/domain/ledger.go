package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger section keys, in pipeline order
const (
	SectionStandardDeduction = "Standard Deduction"
	Section80C               = "80C"
	Section24B               = "24(b)"
	Section80EEA             = "80EEA"
	Section80D               = "80D"
	Section80DParents        = "80D (Parents)"
	SectionHRA               = "HRA"
	Section80GG              = "80GG"
	Section80E               = "80E"
	Section80G               = "80G"
	Section80DDB             = "80DDB"
	Section80CCD1B           = "80CCD(1B)"
	Section80CCD1            = "80CCD(1)"
	Section80CCD2            = "80CCD(2)"
	Section80TTA             = "80TTA"
	Section80TTB             = "80TTB"
	Section80U               = "80U"
	Section80DD              = "80DD"
	Section80RRB             = "80RRB"
	Section80IAC             = "80IAC"
	Section80P               = "80P"
	Section80JJAA            = "80JJAA"
	Section80GGA             = "80GGA"
)

// LimitKind tags the variant held by a Limit
type LimitKind int

const (
	LimitFixed LimitKind = iota
	LimitUnbounded
	LimitIndeterminate
)

func (k LimitKind) String() string {
	switch k {
	case LimitFixed:
		return "fixed"
	case LimitUnbounded:
		return "unbounded"
	case LimitIndeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("LimitKind(%d)", int(k))
	}
}

// Limit is the statutory cap of a deduction category.
// Amount is only meaningful for LimitFixed; Note carries the reason for the other kinds.
type Limit struct {
	Kind   LimitKind
	Amount decimal.Decimal
	Note   string
}

// FixedLimit is a numeric cap
func FixedLimit(amount decimal.Decimal) Limit {
	return Limit{Kind: LimitFixed, Amount: amount}
}

// UnboundedLimit means the category is capped only by remaining income
func UnboundedLimit(note string) Limit {
	return Limit{Kind: LimitUnbounded, Note: note}
}

// IndeterminateLimit marks a category whose cap could not be resolved
func IndeterminateLimit(reason string) Limit {
	return Limit{Kind: LimitIndeterminate, Note: reason}
}

// IsFixed reports whether the limit carries a numeric cap
func (l Limit) IsFixed() bool { return l.Kind == LimitFixed }

// String renders the limit for reports
func (l Limit) String() string {
	switch l.Kind {
	case LimitFixed:
		return l.Amount.StringFixed(2)
	case LimitUnbounded:
		return "No Limit"
	default:
		return "Check applicable limits"
	}
}

type limitJSON struct {
	Kind   string           `json:"kind"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Note   string           `json:"note,omitempty"`
}

func (l Limit) MarshalJSON() ([]byte, error) {
	out := limitJSON{Kind: l.Kind.String(), Note: l.Note}
	if l.Kind == LimitFixed {
		amt := l.Amount
		out.Amount = &amt
	}
	return json.Marshal(out)
}

func (l *Limit) UnmarshalJSON(data []byte) error {
	var in limitJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "fixed":
		if in.Amount == nil {
			return fmt.Errorf("fixed limit without amount")
		}
		*l = FixedLimit(*in.Amount)
	case "unbounded":
		*l = UnboundedLimit(in.Note)
	case "indeterminate":
		*l = IndeterminateLimit(in.Note)
	default:
		return fmt.Errorf("unknown limit kind %q", in.Kind)
	}
	return nil
}

// LedgerEntry records how one deduction category was applied.
type LedgerEntry struct {
	Section string `json:"section"`
	Label   string `json:"label"`

	Used              decimal.Decimal     `json:"used"`
	Limit             Limit               `json:"limit"`
	RemainingCapacity decimal.NullDecimal `json:"remaining_capacity"`

	// Tax deltas, in full liability terms
	EstimatedSavingIfFullyUsed decimal.Decimal `json:"estimated_tax_saving_if_fully_used"`
	TaxSavedFromUsed           decimal.Decimal `json:"tax_saved_from_used_approx"`

	// Taxable income around the step that produced this entry
	IncomeBefore decimal.Decimal `json:"income_before"`
	IncomeAfter  decimal.Decimal `json:"income_after"`
}

// Headroom returns the remaining capacity, or zero for non-fixed limits
func (e LedgerEntry) Headroom() decimal.Decimal {
	if !e.RemainingCapacity.Valid {
		return decimal.Zero
	}
	return e.RemainingCapacity.Decimal
}

// Ledger is an insertion-ordered mapping from section to entry.
// The zero value is an empty ledger.
type Ledger struct {
	entries []LedgerEntry
	index   map[string]int
}

// NewLedger builds a ledger from entries in application order. A repeated
// section replaces the earlier entry in place.
func NewLedger(entries ...LedgerEntry) Ledger {
	l := Ledger{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := l.index[e.Section]; ok {
			l.entries[i] = e
			continue
		}
		l.index[e.Section] = len(l.entries)
		l.entries = append(l.entries, e)
	}
	return l
}

// Get returns the entry for a section
func (l Ledger) Get(section string) (LedgerEntry, bool) {
	i, ok := l.index[section]
	if !ok {
		return LedgerEntry{}, false
	}
	return l.entries[i], true
}

// Entries returns a copy of the entries in application order
func (l Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l Ledger) Len() int { return len(l.entries) }

// TotalUsed sums the used amount of every entry
func (l Ledger) TotalUsed() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.Used)
	}
	return total
}

// TotalEstimatedSaving sums the potential saving of every entry
func (l Ledger) TotalEstimatedSaving() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.EstimatedSavingIfFullyUsed)
	}
	return total
}

func (l Ledger) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var entries []LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*l = NewLedger(entries...)
	return nil
}
