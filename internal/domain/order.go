package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentCompleted:
		return PaymentStatus(s), nil
	}
	return "", NewValidationError("paymentStatus", fmt.Sprintf("unknown payment status %q", s))
}

type PaymentType string

const (
	PaymentCash   PaymentType = "Cash"
	PaymentCard   PaymentType = "Card"
	PaymentUPI    PaymentType = "UPI"
	PaymentOnline PaymentType = "Online"
)

func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(s) {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentOnline:
		return PaymentType(s), nil
	}
	return "", NewValidationError("paymentType", fmt.Sprintf("unknown payment type %q", s))
}

// PrescriptionEyes holds one sph/cyl/axis triple per eye.
type PrescriptionEyes struct {
	RightSph  string `json:"rightSph,omitempty"`
	RightCyl  string `json:"rightCyl,omitempty"`
	RightAxis string `json:"rightAxis,omitempty"`
	LeftSph   string `json:"leftSph,omitempty"`
	LeftCyl   string `json:"leftCyl,omitempty"`
	LeftAxis  string `json:"leftAxis,omitempty"`
}

type Prescription struct {
	Dist  PrescriptionEyes `json:"dist"`
	Near  PrescriptionEyes `json:"near"`
	Notes string           `json:"notes,omitempty"`
}

// Order is a single bill. BillNo is unique per branch and assigned by the
// store on insert; ID is the storage-level unique id.
//
// Monetary fields are carried as strings the way the billing clients send
// them ("100", "79.50"); Total and Balance are derived and recomputed
// whenever their inputs change, inside the same write transaction.
type Order struct {
	ID         string `json:"id"`
	BillNo     int    `json:"billNo"`
	BranchID   string `json:"branchId"`
	SalesmanID string `json:"salesmanId,omitempty"`

	Name    string `json:"name"`
	Contact string `json:"contact"`
	Date    string `json:"date"`

	// Component prices. Empty string means the component was not sold.
	Frame       string `json:"frame,omitempty"`
	Glass       string `json:"glass,omitempty"`
	ContactLens string `json:"contactLens,omitempty"`

	Total   string `json:"total"`
	Advance string `json:"advance,omitempty"`
	Balance string `json:"balance"`

	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentType   PaymentType   `json:"paymentType,omitempty"`

	Prescription Prescription `json:"prescription"`

	CreatedAt time.Time `json:"createdAt"`
}

// OrderPatch is the whitelisted set of fields the update path may change.
// Nil pointer means "leave as is". Payment fields are settable only through
// the payment-status transition.
type OrderPatch struct {
	Name        *string
	Contact     *string
	Date        *string
	Frame       *string
	Glass       *string
	ContactLens *string
	Total       *string
	Advance     *string
	SalesmanID  *string

	Prescription *Prescription

	PaymentStatus *PaymentStatus
	PaymentType   *PaymentType
}

// Apply mutates o with the patch and recomputes the derived monetary
// fields. If any component price changes, Total becomes the sum of the
// components; Balance is always Total - Advance afterwards.
func (p OrderPatch) Apply(o *Order) error {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Contact != nil {
		o.Contact = *p.Contact
	}
	if p.Date != nil {
		o.Date = *p.Date
	}
	if p.SalesmanID != nil {
		o.SalesmanID = *p.SalesmanID
	}
	if p.Prescription != nil {
		o.Prescription = *p.Prescription
	}

	componentsChanged := false
	if p.Frame != nil {
		o.Frame = *p.Frame
		componentsChanged = true
	}
	if p.Glass != nil {
		o.Glass = *p.Glass
		componentsChanged = true
	}
	if p.ContactLens != nil {
		o.ContactLens = *p.ContactLens
		componentsChanged = true
	}
	if p.Total != nil {
		o.Total = *p.Total
	}
	if p.Advance != nil {
		o.Advance = *p.Advance
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentType != nil {
		o.PaymentType = *p.PaymentType
	}

	if componentsChanged {
		total, err := sumComponents(o)
		if err != nil {
			return err
		}
		o.Total = FormatAmount(total)
	}
	return o.RecomputeBalance()
}

// RecomputeBalance derives Balance = Total - Advance. An empty Advance
// counts as zero; an empty Total is invalid.
func (o *Order) RecomputeBalance() error {
	total, err := ParseAmount("total", o.Total)
	if err != nil {
		return err
	}
	advance := 0.0
	if o.Advance != "" {
		if advance, err = ParseAmount("advance", o.Advance); err != nil {
			return err
		}
	}
	o.Balance = FormatAmount(total - advance)
	return nil
}

// ComputeTotal fills Total from the component prices when the caller did
// not provide one, then derives Balance. Used on the create path.
func (o *Order) ComputeTotal() error {
	if o.Total == "" {
		total, err := sumComponents(o)
		if err != nil {
			return err
		}
		o.Total = FormatAmount(total)
	}
	return o.RecomputeBalance()
}

func sumComponents(o *Order) (float64, error) {
	var total float64
	for _, c := range []struct{ field, value string }{
		{"frame", o.Frame},
		{"glass", o.Glass},
		{"contactLens", o.ContactLens},
	} {
		if c.value == "" {
			continue
		}
		v, err := ParseAmount(c.field, c.value)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// ParseAmount parses a monetary string field. The field name is only used
// to build the validation error.
func ParseAmount(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, NewValidationError(field, fmt.Sprintf("invalid amount %q", s))
	}
	return v, nil
}

// FormatAmount renders an amount the way the clients sent it: integral
// values without a fraction ("80"), anything else with two digits ("79.50").
func FormatAmount(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
