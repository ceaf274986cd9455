// Package scrape reads a cube card list published in the Wizards of the
// Coast article format.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mesh-intelligence/xcube/internal/catalog"
	"github.com/mesh-intelligence/xcube/pkg/types"
)

// DefaultURL is the Magic Online Vintage Cube card list.
const DefaultURL = "https://magic.wizards.com/en/articles/archive/vintage-cube-cardlist"

// headers make the request look like a browser arriving from a search
// engine; the article host rejects bare clients.
var headers = map[string]string{
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/79.0.3945.130 Safari/537.36",
	"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp," +
		"image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"Sec-Fetch-Site":  "cross-site",
	"Sec-Fetch-Mode":  "navigate",
	"Sec-Fetch-User":  "?1",
	"Referer":         "https://duckduckgo.com/",
	"Accept-Language": "en-US,en-GB;q=0.9,en;q=0.8",
}

var (
	namePattern      = regexp.MustCompile(`^(?s)(?:Spotlight Cube Series ?[:-] )?(.*)$`)
	postedInSplitter = regexp.MustCompile(` [io]n `)
)

// Publication date cleanup applied before parsing.
var (
	ordinalSuffix  = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)
	abbrevPeriod   = regexp.MustCompile(`\b([A-Za-z]{3,4})\.`)
	septemberShort = regexp.MustCompile(`(?i)\bsept\b`)
)

// dayFirstLayout covers European numeric dates such as 15.03.2021, which
// month-first parsing rejects.
const dayFirstLayout = "02.01.2006"

// Parse errors.
var (
	ErrDateNotFound   = errors.New("publication date not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrTableNotFound  = errors.New("card list table not found")
)

// Scraper fetches and parses cube list articles.
type Scraper struct {
	http      *http.Client
	sanitizer *catalog.Sanitizer
	log       *zap.SugaredLogger
}

// NewScraper returns a Scraper. A nil client uses a client with a timeout.
func NewScraper(client *http.Client, sanitizer *catalog.Sanitizer, log *zap.SugaredLogger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scraper{http: client, sanitizer: sanitizer, log: log}
}

// Execute fetches url and parses the article.
func (s *Scraper) Execute(ctx context.Context, url string) (*types.RawCube, error) {
	s.log.Infof("Scraping data from %s", url)

	body, err := s.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	s.log.Info("Scraping completed successfully!")
	return s.Parse(body)
}

// ExecuteFile parses a saved copy of the article.
func (s *Scraper) ExecuteFile(path string) (*types.RawCube, error) {
	s.log.Infof("Reading cube data from %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Parse(f)
}

// Fetch issues the GET for url. The caller closes the body.
func (s *Scraper) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	s.log.Debugf("Response status code: %d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return resp.Body, nil
}

// Parse extracts the cube name, date, author and entries from an article.
func (s *Scraper) Parse(r io.Reader) (*types.RawCube, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	s.log.Info("Processing cube data")

	name := parseName(doc)
	s.log.Debugf("Name: %s", name)

	date, err := parseDate(doc)
	if err != nil {
		return nil, err
	}
	author, err := parseAuthor(doc)
	if err != nil {
		return nil, err
	}
	entries, err := s.parseEntries(doc)
	if err != nil {
		return nil, err
	}

	s.log.Infof("Cube data: %s (%s) by %s, %d entries total", name, date.Format("02.01.2006"), author, len(entries))

	return &types.RawCube{Name: name, Date: date, Author: author, Entries: entries}, nil
}

func parseName(doc *html.Node) string {
	h1 := find(doc, isAtom(atom.H1))
	if h1 == nil {
		return "Cube"
	}
	m := namePattern.FindStringSubmatch(text(h1))
	if m == nil {
		return "Cube"
	}
	return strings.TrimSuffix(m[1], " Cardlist")
}

func parseDate(doc *html.Node) (time.Time, error) {
	content := find(doc, hasID("content"))
	if content == nil {
		return time.Time{}, ErrDateNotFound
	}
	posted := find(content, and(isAtom(atom.P), hasClass("posted-in")))
	if posted == nil {
		return time.Time{}, ErrDateNotFound
	}

	parts := postedInSplitter.Split(text(posted), -1)
	value := strings.TrimSpace(parts[len(parts)-1])
	return ParseDate(value)
}

// ParseDate parses a free-form publication date in UTC.
func ParseDate(value string) (time.Time, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(value), ".,; ")
	cleaned = ordinalSuffix.ReplaceAllString(cleaned, "$1")
	cleaned = abbrevPeriod.ReplaceAllString(cleaned, "$1")
	cleaned = septemberShort.ReplaceAllString(cleaned, "Sep")

	t, err := dateparse.ParseIn(cleaned, time.UTC)
	if err == nil {
		return t, nil
	}
	if t, derr := time.Parse(dayFirstLayout, cleaned); derr == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q: %v", ErrDateNotFound, value, err)
}

func parseAuthor(doc *html.Node) (string, error) {
	author := find(doc, hasClass("author"))
	if author == nil {
		return "", ErrAuthorNotFound
	}
	p := find(author, isAtom(atom.P))
	if p == nil {
		return "", ErrAuthorNotFound
	}
	return strings.TrimPrefix(text(p), "By "), nil
}

// parseEntries reads the last sortable table; earlier ones list changes.
func (s *Scraper) parseEntries(doc *html.Node) ([]types.RawEntry, error) {
	tables := findAll(doc, and(isAtom(atom.Table), hasClass("sortable-table")))
	if len(tables) == 0 {
		return nil, ErrTableNotFound
	}
	table := tables[len(tables)-1]

	body := find(table, isAtom(atom.Tbody))
	if body == nil {
		return nil, ErrTableNotFound
	}

	var entries []types.RawEntry
	for _, row := range children(body, isAtom(atom.Tr)) {
		cells := children(row, isAtom(atom.Td))
		if len(cells) < 2 {
			continue
		}
		name := text(cells[0])
		if s.sanitizer != nil {
			name = s.sanitizer.Sanitize(name)
		}
		entries = append(entries, types.RawEntry{Name: name, Bucket: text(cells[1])})
	}

	if len(entries) == 0 {
		return nil, types.ErrNoEntries
	}
	return entries, nil
}
