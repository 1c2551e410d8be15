// Package provider loads raw survey tabs from the configured data source and
// merges the text and numeric tabs into one table.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/metrics"
)

// Provider loads one tab of the survey export.
type Provider interface {
	// Load returns the tab as a table. Failures are *DataProviderError.
	Load(ctx context.Context, tab string) (dataset.Table, error)
	// Name identifies the source in logs and metrics.
	Name() string
}

// Mode decides how the text and numeric tabs are combined.
type Mode string

const (
	// ModeUnion concatenates every tab that loaded.
	ModeUnion Mode = "union"
	// ModePrefer uses the numeric tab when it has rows, else the text tab.
	ModePrefer Mode = "prefer"
)

// ParseMode validates a configured mode; empty means union.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeUnion:
		return ModeUnion, nil
	case ModePrefer:
		return ModePrefer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// LoadOption configures LoadTabs.
type LoadOption func(*loadOptions)

type loadOptions struct {
	log logger.Logger
}

// WithLoadLogger sets the logger LoadTabs reports tab failures to.
func WithLoadLogger(l logger.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// LoadTabs loads the text and numeric tabs. One failing is logged and
// tolerated; both failing returns ErrNoData wrapping both causes. When both
// names are the same tab it is loaded once.
func LoadTabs(ctx context.Context, p Provider, textTab, numericTab string, mode Mode, opts ...LoadOption) (dataset.Table, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get().Named("provider")
	}
	log := o.log

	load := func(tab string) (dataset.Table, error) {
		t, err := p.Load(ctx, tab)
		if err != nil {
			metrics.RecordTabLoad(p.Name(), "error")
			metrics.RecordErrorByComponent("provider", "load")
			log.Warn(ctx, "tab unavailable", logger.String("source", p.Name()), logger.String("tab", tab), logger.Error(err))
			return dataset.Table{}, err
		}
		metrics.RecordTabLoad(p.Name(), "ok")
		log.Debug(ctx, "tab loaded", logger.String("source", p.Name()), logger.String("tab", tab), logger.Int("rows", t.Len()))
		return t, nil
	}

	if textTab == numericTab {
		t, err := load(textTab)
		if err != nil {
			return dataset.Table{}, fmt.Errorf("%w: %w", ErrNoData, err)
		}
		return t, nil
	}

	text, textErr := load(textTab)
	numeric, numErr := load(numericTab)
	if textErr != nil && numErr != nil {
		return dataset.Table{}, fmt.Errorf("%w: %w", ErrNoData, errors.Join(textErr, numErr))
	}

	switch mode {
	case ModePrefer:
		if numErr == nil && !numeric.Empty() {
			return numeric, nil
		}
		return text, nil
	default:
		var tables []dataset.Table
		if textErr == nil {
			tables = append(tables, text)
		}
		if numErr == nil {
			tables = append(tables, numeric)
		}
		return dataset.Concat(tables...), nil
	}
}
