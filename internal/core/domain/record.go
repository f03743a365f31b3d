package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRecord = errors.New("invalid record")

// Record is a single production entry as stored in the collection.
type Record struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	PartName  string    `json:"parca_ad"`
	Quantity  int       `json:"adet"`
	Shift     string    `json:"vardiya"`
	Operator  string    `json:"operator"`
	Machine   string    `json:"makine"`
	CreatedAt time.Time `json:"timestamp"`
}

// RecordInput is the client-supplied part of a record.
type RecordInput struct {
	PartName string `json:"parca_ad"`
	Quantity int    `json:"adet"`
	Shift    string `json:"vardiya"`
	Operator string `json:"operator"`
	Machine  string `json:"makine"`
}

func (in RecordInput) Validate() error {
	switch {
	case in.PartName == "":
		return fmt.Errorf("%w: parca_ad is required", ErrInvalidRecord)
	case in.Quantity <= 0:
		return fmt.Errorf("%w: adet must be a positive integer", ErrInvalidRecord)
	case in.Shift == "":
		return fmt.Errorf("%w: vardiya is required", ErrInvalidRecord)
	case in.Operator == "":
		return fmt.Errorf("%w: operator is required", ErrInvalidRecord)
	case in.Machine == "":
		return fmt.Errorf("%w: makine is required", ErrInvalidRecord)
	}
	return nil
}
