// Package schedule scrapes the public class-schedule page: one big table
// of sections, fourteen fixed columns per row.
package schedule

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"coursevane"
	"coursevane/lib/courseparse"
	"coursevane/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("coursevane.scrape.schedule")

// fixed column layout of the schedule table
const (
	colCode = iota
	colClassNumber
	colMode
	colTitle
	colSatisfies
	colUnits
	colType
	colDays
	colTimes
	colInstructor
	colLocation
	colDates
	colOpenSeats
	colNotes
)

type Scraper struct {
	client  *resty.Client
	pageUrl string
}

func NewScraper(pageUrl string) Scraper {
	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)
	restyutil.InstrumentClient(client, tracer)

	return Scraper{
		client:  client,
		pageUrl: pageUrl,
	}
}

// Fetch downloads the schedule page and parses every class row, preserving
// table order.
func (s Scraper) Fetch(ctx context.Context) ([]coursevane.ClassRecord, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", s.pageUrl))

	res, err := s.client.R().
		SetContext(ctx).
		Get(s.pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch schedule page")
		return nil, coursevane.Unavailable("fetch schedule", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse schedule page")
		return nil, coursevane.Unavailable("parse schedule", err)
	}

	return Parse(ctx, doc), nil
}

// Parse walks the table body and maps each row to a ClassRecord. Rows are
// tolerated individually: a row whose class number does not parse is
// dropped with a warning rather than poisoning the snapshot, since the
// class number is the record's only usable identifier. Mode and type
// values outside the known enums are kept as-is.
func Parse(ctx context.Context, doc *goquery.Document) []coursevane.ClassRecord {
	ctx, span := tracer.Start(ctx, "Parse")
	defer span.End()

	var rows []coursevane.ClassRecord
	doc.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		text := func(col int) string {
			return strings.TrimSpace(cells.Eq(col).Text())
		}

		code := courseparse.Split(text(colCode))

		classNumber, err := strconv.Atoi(text(colClassNumber))
		if err != nil {
			slog.WarnContext(
				ctx, "dropping row with unparseable class number",
				"raw", text(colClassNumber),
				"code", text(colCode),
			)
			return
		}

		units, err := strconv.ParseFloat(text(colUnits), 64)
		if err != nil {
			units = 0
		}
		openSeats, err := strconv.Atoi(text(colOpenSeats))
		if err != nil {
			openSeats = 0
		}

		rows = append(rows, coursevane.ClassRecord{
			Subject:           code.Subject,
			Course:            code.Course,
			Section:           code.SectionText,
			ClassNumber:       classNumber,
			ModeOfInstruction: coursevane.InstructionMode(text(colMode)),
			CourseTitle:       text(colTitle),
			Satisfies:         text(colSatisfies),
			Units:             units,
			Type:              coursevane.SectionType(text(colType)),
			Days:              text(colDays),
			Times:             text(colTimes),
			Instructor:        text(colInstructor),
			Location:          text(colLocation),
			Dates:             text(colDates),
			OpenSeats:         openSeats,
			Notes:             text(colNotes),
		})
	})

	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows
}
