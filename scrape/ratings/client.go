// Package ratings talks to the third-party professor-ratings provider and
// normalizes its payloads into the domain types.
package ratings

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursevane"
	"coursevane/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/antzucaro/matchr"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("coursevane.scrape.ratings")

const defaultBaseUrl = "https://www.ratemyprofessors.com"

// the provider's well-known public frontend token
const graphqlAuthorization = "Basic dGVzdDp0ZXN0"

var ErrProfessorNotFound = errors.New("no professor matched the target name")

type ClientOptions struct {
	// BaseUrl overrides the provider endpoint, used by tests.
	BaseUrl string
	// SchoolID is the provider's numeric id for the university.
	SchoolID int64
}

// Client implements the provider contract: SetTarget, then GetInfo and
// GetReviews for that target. It is not safe for concurrent use, callers
// serialize access around a target.
type Client struct {
	client   *resty.Client
	schoolId string

	target    string
	teacherId string
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	// the provider fronts everything with Cloudflare
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("authorization", graphqlAuthorization)
	client.SetTimeout(time.Second * 30)
	restyutil.InstrumentClient(client, tracer)

	return &Client{
		client:   client,
		schoolId: base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("School-%d", opts.SchoolID))),
	}
}

// SetTarget selects the professor subsequent GetInfo/GetReviews calls
// refer to. Clears any previously resolved provider id.
func (c *Client) SetTarget(name string) {
	c.target = name
	c.teacherId = ""
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func (c *Client) graphql(ctx context.Context, query string, variables map[string]any, out any) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(graphqlRequest{Query: query, Variables: variables}).
		Post("/graphql")
	if err != nil {
		return coursevane.Unavailable("query ratings provider", err)
	}
	if res.StatusCode() != 200 {
		return coursevane.Unavailable(
			"query ratings provider",
			fmt.Errorf("unexpected status %d", res.StatusCode()),
		)
	}
	err = json.Unmarshal(res.Body(), out)
	if err != nil {
		return coursevane.Malformed("decode ratings payload", err)
	}
	return nil
}

const searchQuery = `query NewSearchTeachersQuery($text: String!, $schoolID: ID!) {
  newSearch {
    teachers(query: {text: $text, schoolID: $schoolID}) {
      edges {
        node {
          id
          firstName
          lastName
        }
      }
    }
  }
}`

type searchResponse struct {
	Data struct {
		NewSearch struct {
			Teachers struct {
				Edges []struct {
					Node struct {
						Id        string `json:"id"`
						FirstName string `json:"firstName"`
						LastName  string `json:"lastName"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"teachers"`
		} `json:"newSearch"`
	} `json:"data"`
}

// resolveTarget searches the provider for the target name and remembers
// the id of the closest hit. The provider's search is fuzzy, so the hits
// are re-ranked by Jaro-Winkler similarity against the requested name.
func (c *Client) resolveTarget(ctx context.Context) (string, error) {
	if c.teacherId != "" {
		return c.teacherId, nil
	}

	ctx, span := tracer.Start(ctx, "resolveTarget")
	defer span.End()
	span.SetAttributes(attribute.String("target", c.target))

	var res searchResponse
	err := c.graphql(ctx, searchQuery, map[string]any{
		"text":     c.target,
		"schoolID": c.schoolId,
	}, &res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return "", err
	}

	bestId := ""
	bestSimilarity := 0.0
	for _, edge := range res.Data.NewSearch.Teachers.Edges {
		name := strings.TrimSpace(edge.Node.FirstName + " " + edge.Node.LastName)
		similarity := matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(c.target), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestId = edge.Node.Id
		}
	}
	if bestId == "" {
		return "", coursevane.NotFound("resolve professor", ErrProfessorNotFound)
	}

	c.teacherId = bestId
	return bestId, nil
}

const teacherQuery = `query TeacherRatingsPageQuery($id: ID!) {
  node(id: $id) {
    ... on Teacher {
      firstName
      lastName
      department
      avgRating
      avgDifficulty
      wouldTakeAgainPercent
    }
  }
}`

type teacherResponse struct {
	Data struct {
		Node RawProfessor `json:"node"`
	} `json:"data"`
}

// GetInfo fetches the aggregate rating payload for the current target.
func (c *Client) GetInfo(ctx context.Context) (RawProfessor, error) {
	ctx, span := tracer.Start(ctx, "GetInfo")
	defer span.End()

	id, err := c.resolveTarget(ctx)
	if err != nil {
		span.RecordError(err)
		return RawProfessor{}, err
	}

	var res teacherResponse
	err = c.graphql(ctx, teacherQuery, map[string]any{"id": id}, &res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "teacher query failed")
		return RawProfessor{}, err
	}
	return res.Data.Node, nil
}

const reviewsQuery = `query RatingsListQuery($id: ID!, $count: Int!) {
  node(id: $id) {
    ... on Teacher {
      ratings(first: $count) {
        edges {
          node {
            date
            clarityRating
            difficultyRating
            class
            attendanceMandatory
            wouldTakeAgain
            grade
            textbookUse
            isForOnlineClass
            comment
            thumbsUpTotal
            thumbsDownTotal
            ratingTags
          }
        }
      }
    }
  }
}`

type reviewsResponse struct {
	Data struct {
		Node struct {
			Ratings struct {
				Edges []struct {
					Node struct {
						Date                string  `json:"date"`
						ClarityRating       float64 `json:"clarityRating"`
						DifficultyRating    float64 `json:"difficultyRating"`
						Class               string  `json:"class"`
						AttendanceMandatory string  `json:"attendanceMandatory"`
						WouldTakeAgain      int     `json:"wouldTakeAgain"`
						Grade               string  `json:"grade"`
						TextbookUse         int     `json:"textbookUse"`
						IsForOnlineClass    bool    `json:"isForOnlineClass"`
						Comment             string  `json:"comment"`
						ThumbsUpTotal       int     `json:"thumbsUpTotal"`
						ThumbsDownTotal     int     `json:"thumbsDownTotal"`
						RatingTags          string  `json:"ratingTags"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"ratings"`
		} `json:"node"`
	} `json:"data"`
}

// GetReviews fetches the raw review payloads for the current target, in
// provider order.
func (c *Client) GetReviews(ctx context.Context) ([]RawReview, error) {
	ctx, span := tracer.Start(ctx, "GetReviews")
	defer span.End()

	id, err := c.resolveTarget(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var res reviewsResponse
	err = c.graphql(ctx, reviewsQuery, map[string]any{"id": id, "count": 100}, &res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ratings query failed")
		return nil, err
	}

	edges := res.Data.Node.Ratings.Edges
	reviews := make([]RawReview, 0, len(edges))
	for _, edge := range edges {
		n := edge.Node
		reviews = append(reviews, RawReview{
			DatePosted:       n.Date,
			ClarityRating:    n.ClarityRating,
			DifficultyRating: n.DifficultyRating,
			Class:            n.Class,
			AttendanceStatus: n.AttendanceMandatory,
			WouldTakeAgain:   n.WouldTakeAgain > 0,
			StudentGrade:     n.Grade,
			TextbookUse:      n.TextbookUse,
			IsOnline:         n.IsForOnlineClass,
			Comment:          n.Comment,
			CommentLikes:     n.ThumbsUpTotal,
			CommentDislikes:  n.ThumbsDownTotal,
			RatingTags:       n.RatingTags,
		})
	}

	span.SetAttributes(attribute.Int("reviews", len(reviews)))
	return reviews, nil
}
