// Package seed loads catalog feed files and imports them into the store.
//
// A feed is JSON Lines, optionally gzip-compressed. Each line is one Record:
//
//	{"kind":"project","project":"tea-house"}
//	{"kind":"product","project":"tea-house","name":"Milk Tea","price":"4.50","group":"tea","limit":2}
//	{"kind":"topping","project":"tea-house","name":"Pearls","price":"0.50","group":"tea"}
//
// Blank lines and lines starting with '#' are ignored.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Record kinds.
const (
	KindProject = "project"
	KindProduct = "product"
	KindTopping = "topping"
)

// Record is one line of a catalog feed.
type Record struct {
	Kind    string          `json:"kind"`
	Project string          `json:"project"`
	Name    string          `json:"name,omitempty"`
	Price   decimal.Decimal `json:"price"`
	Group   *string         `json:"group,omitempty"`
	Limit   int             `json:"limit,omitempty"`
}

// Validate checks the fields required by the record's kind.
func (r Record) Validate() error {
	if r.Project == "" {
		return errors.New("project is required")
	}

	switch r.Kind {
	case KindProject:
		return nil
	case KindProduct:
		if r.Name == "" {
			return errors.New("product name is required")
		}
		if r.Limit < 0 {
			return errors.New("topping limit cannot be negative")
		}
	case KindTopping:
		if r.Name == "" {
			return errors.New("topping name is required")
		}
		if r.Group == nil || *r.Group == "" {
			return errors.New("topping group is required")
		}
	default:
		return fmt.Errorf("unknown record kind %q", r.Kind)
	}

	if r.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}

	return nil
}

// Feed is the decoded content of one feed file.
type Feed struct {
	Source  string
	Records []Record
}

// Count returns how many records of kind the feed holds.
func (f *Feed) Count(kind string) int {
	n := 0
	for _, r := range f.Records {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// Loader defines the interface for loading feed files.
type Loader interface {
	// Load reads a plain or gzipped feed file and decodes it.
	Load(ctx context.Context, path string) (*Feed, error)
}
