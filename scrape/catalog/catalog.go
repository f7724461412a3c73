// Package catalog locates a course in the university catalog via its
// advanced-search page and extracts the detail fields from the course page.
//
// The extraction is deliberately structural: it assumes the catalog's fixed
// page template and fails hard (Malformed) when the template itself is
// gone. Individual fields are allowed to be absent.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"coursevane"
	"coursevane/lib/htmlutil"
	"coursevane/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("coursevane.scrape.catalog")

var (
	ErrNoMatch         = errors.New("no best-match anchor found")
	ErrMalformedAnchor = errors.New("best-match anchor has no href")
)

// descriptionTextNode is the ordinal of the direct text node holding the
// course description inside the content block. The description carries no
// element of its own in the catalog template, so position is all there is
// to go by. Known fragility: a template change shifts this silently.
const descriptionTextNode = 4

type Scraper struct {
	client  *resty.Client
	baseUrl *url.URL
	oid     string
}

// NewScraper builds a catalog scraper rooted at base (e.g.
// "https://catalog.sjsu.edu") for the given catalog snapshot oid.
func NewScraper(base string, oid string) (Scraper, error) {
	baseUrl, err := url.Parse(base)
	if err != nil {
		return Scraper{}, err
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)
	restyutil.InstrumentClient(client, tracer)

	return Scraper{
		client:  client,
		baseUrl: baseUrl,
		oid:     oid,
	}, nil
}

func (s Scraper) searchUrl(subject, course string) string {
	query := url.Values{}
	query.Set("cur_cat_oid", s.oid)
	query.Set("search_database", "Search")
	query.Set("filter[keyword]", subject+" "+course)
	query.Set("filter[exact_match]", "1")
	query.Set("filter[3]", "1")
	query.Set("filter[31]", "1")

	link := *s.baseUrl
	link.Path = "/search_advanced.php"
	link.RawQuery = query.Encode()
	return link.String()
}

// FindCourseLink runs an exact-match catalog search and resolves the single
// result the catalog marks "Best Match" to an absolute course-page URL.
func (s Scraper) FindCourseLink(ctx context.Context, subject, course string) (string, error) {
	ctx, span := tracer.Start(ctx, "FindCourseLink")
	defer span.End()
	span.SetAttributes(
		attribute.String("subject", subject),
		attribute.String("course", course),
	)

	res, err := s.client.R().
		SetContext(ctx).
		Get(s.searchUrl(subject, course))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search page")
		return "", coursevane.Unavailable("search catalog", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search page")
		return "", coursevane.Unavailable("parse catalog search", err)
	}

	link, err := BestMatchLink(s.baseUrl, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no usable best-match anchor")
		return "", err
	}

	span.SetAttributes(attribute.String("link", link))
	return link, nil
}

// BestMatchLink scans a search-results document for the anchor the catalog
// marks "Best Match" and resolves its href against base.
func BestMatchLink(base *url.URL, doc *goquery.Document) (string, error) {
	var anchor *goquery.Selection
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(a.Find("strong").Text(), "Best Match") {
			return true
		}
		anchor = a
		return false
	})
	if anchor == nil {
		return "", coursevane.NotFound("find best match", ErrNoMatch)
	}

	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return "", coursevane.Malformed("find best match", ErrMalformedAnchor)
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return "", coursevane.Malformed("find best match", err)
	}
	return resolved.String(), nil
}

// FetchDetails downloads a course page and extracts its catalog fields.
func (s Scraper) FetchDetails(ctx context.Context, pageUrl string) (coursevane.ClassDetails, error) {
	ctx, span := tracer.Start(ctx, "FetchDetails")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	res, err := s.client.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course page")
		return coursevane.ClassDetails{}, coursevane.Unavailable("fetch course page", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse course page")
		return coursevane.ClassDetails{}, coursevane.Unavailable("parse course page", err)
	}

	details, err := ParseDetails(s.oid, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course page has no content block")
		return coursevane.ClassDetails{}, err
	}
	return details, nil
}

// ParseDetails extracts a ClassDetails from a course page document. Only a
// missing content block is an error; every individual field may come back
// empty when the page does not carry it.
func ParseDetails(oid string, doc *goquery.Document) (coursevane.ClassDetails, error) {
	block := doc.Find("td.block_content").First()
	if block.Length() == 0 {
		return coursevane.ClassDetails{}, coursevane.Malformed(
			"parse course page", errors.New("no td.block_content in document"))
	}

	title := htmlutil.CollapseWhitespace(block.Find("#course_preview_title").First().Text())
	credits := htmlutil.CollapseWhitespace(block.Find("em").First().Text())

	description := ""
	if texts := htmlutil.DirectTextNodes(block); len(texts) > descriptionTextNode {
		description = htmlutil.CollapseWhitespace(texts[descriptionTextNode])
	}

	prereq := htmlutil.CollapseWhitespace(labeledText(block, "Prerequisite(s):"))
	grading := htmlutil.CollapseWhitespace(labeledText(block, "Grading"))
	notes := htmlutil.CollapseWhitespace(labeledText(block, "Note"))

	satisfies := ""
	block.Find("em").EachWithBreak(func(_ int, em *goquery.Selection) bool {
		if !strings.Contains(em.Text(), "Satisfies") {
			return true
		}
		satisfies = strings.TrimSpace(em.Next().Text())
		return false
	})

	// catalog titles follow a "CODE - Name" convention
	courseKey := strings.ToUpper(strings.TrimSpace(strings.SplitN(title, "-", 2)[0]))

	return coursevane.ClassDetails{
		Oid:         oid,
		CourseKey:   courseKey,
		CourseTitle: title,
		Credits:     credits,
		Description: description,
		Satisfies:   satisfies,
		Prereq:      prereq,
		Grading:     grading,
		Notes:       notes,
	}, nil
}

// labeledText finds the first bold label containing `label` and collects
// the text that follows it up to the next line break, bold text or rule.
func labeledText(block *goquery.Selection, label string) string {
	var out string
	block.Find("strong").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), label) {
			return true
		}
		out = htmlutil.TextUntil(sel.Get(0), "br", "strong", "hr")
		return false
	})
	return out
}
