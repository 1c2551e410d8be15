package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
)

const (
	sourceSheets = "sheets"

	defaultAPIBase    = "https://sheets.googleapis.com"
	defaultExportBase = "https://docs.google.com"
	sheetsReadScope   = "https://www.googleapis.com/auth/spreadsheets.readonly"
	defaultTimeout    = 30 * time.Second
)

// Sheets reads tabs of a Google spreadsheet. With a service-account file it
// uses the Sheets API; without one, or when the API call fails, it reads the
// public CSV export.
type Sheets struct {
	sheetID     string
	gids        map[string]string
	credentials string
	apiBase     string
	exportBase  string
	client      *http.Client
	log         logger.Logger
}

// SheetsOption configures Sheets.
type SheetsOption func(*Sheets)

// WithCredentialsFile sets the service-account JSON used for the API.
func WithCredentialsFile(path string) SheetsOption {
	return func(s *Sheets) { s.credentials = path }
}

// WithGID reads tab from the export of worksheet gid instead of by name.
// Other tabs are still addressed by name.
func WithGID(tab, gid string) SheetsOption {
	return func(s *Sheets) {
		if tab == "" || gid == "" {
			return
		}
		if s.gids == nil {
			s.gids = map[string]string{}
		}
		s.gids[tab] = gid
	}
}

// WithHTTPClient sets the client used for unauthenticated requests.
func WithHTTPClient(c *http.Client) SheetsOption {
	return func(s *Sheets) {
		if c != nil {
			s.client = c
		}
	}
}

// WithBaseURLs overrides the API and export hosts.
func WithBaseURLs(api, export string) SheetsOption {
	return func(s *Sheets) {
		if api != "" {
			s.apiBase = strings.TrimRight(api, "/")
		}
		if export != "" {
			s.exportBase = strings.TrimRight(export, "/")
		}
	}
}

// WithSheetsLogger sets the logger.
func WithSheetsLogger(l logger.Logger) SheetsOption {
	return func(s *Sheets) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSheets creates a provider for spreadsheet sheetID.
func NewSheets(sheetID string, opts ...SheetsOption) *Sheets {
	s := &Sheets{
		sheetID:    sheetID,
		apiBase:    defaultAPIBase,
		exportBase: defaultExportBase,
		client:     &http.Client{Timeout: defaultTimeout},
		log:        logger.Get().Named("sheets"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Provider.
func (s *Sheets) Name() string { return sourceSheets }

// Load implements Provider.
func (s *Sheets) Load(ctx context.Context, tab string) (dataset.Table, error) {
	if s.credentials != "" {
		t, err := s.loadAPI(ctx, tab)
		if err == nil {
			return t, nil
		}
		s.log.Warn(ctx, "sheets api failed, using public export", logger.String("tab", tab), logger.Error(err))
	}
	t, err := s.loadExport(ctx, tab)
	if err != nil {
		return dataset.Table{}, &DataProviderError{Source: sourceSheets, Tab: tab, Err: err}
	}
	return t, nil
}

type valueRange struct {
	Values [][]string `json:"values"`
}

func (s *Sheets) loadAPI(ctx context.Context, tab string) (dataset.Table, error) {
	raw, err := os.ReadFile(s.credentials)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(raw, sheetsReadScope)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("parse credentials: %w", err)
	}
	client := conf.Client(ctx)
	client.Timeout = s.client.Timeout

	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s", s.apiBase, url.PathEscape(s.sheetID), url.PathEscape(tab))
	body, err := get(ctx, client, u)
	if err != nil {
		return dataset.Table{}, err
	}
	defer body.Close()

	var vr valueRange
	if err := json.NewDecoder(body).Decode(&vr); err != nil {
		return dataset.Table{}, fmt.Errorf("decode values: %w", err)
	}
	if len(vr.Values) == 0 {
		return dataset.Table{}, fmt.Errorf("%w: %s", ErrTabNotFound, tab)
	}
	return dataset.NewTable(tab, vr.Values[0], vr.Values[1:]), nil
}

func (s *Sheets) loadExport(ctx context.Context, tab string) (dataset.Table, error) {
	body, err := get(ctx, s.client, s.ExportURL(tab))
	if err != nil {
		return dataset.Table{}, err
	}
	defer body.Close()
	return ReadCSV(tab, body)
}

// ExportURL is the public CSV address of a tab.
func (s *Sheets) ExportURL(tab string) string {
	base := fmt.Sprintf("%s/spreadsheets/d/%s", s.exportBase, url.PathEscape(s.sheetID))
	if gid, ok := s.gids[tab]; ok {
		return base + "/export?format=csv&gid=" + url.QueryEscape(gid)
	}
	return base + "/gviz/tq?tqx=out:csv&sheet=" + url.QueryEscape(tab)
}

func get(ctx context.Context, c *http.Client, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: status %d", ErrTabNotFound, resp.StatusCode)
		}
		return nil, fmt.Errorf("get %s: status %d", u, resp.StatusCode)
	}
	return resp.Body, nil
}
