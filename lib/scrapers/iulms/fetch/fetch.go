// Package fetch retrieves raw portal documents over an authenticated
// session. Failures are folded into the returned Document so batch
// callers can keep going past one broken endpoint.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"iulms-backend/lib/scrapers/iulms/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/iulms/fetch")

// DataServicePath answers POST requests for the browser-rendered
// transcript widget, it is the portal's only JSON endpoint.
const DataServicePath = "/sic/SICDataService.php"

const transcriptPathMarker = "Transcript.php"

const (
	EndpointSchedule     = "schedule"
	EndpointAttendance   = "attendance"
	EndpointTranscript   = "transcript"
	EndpointExamResult   = "exam_result"
	EndpointVouchers     = "vouchers"
	EndpointExamSchedule = "exam_schedule"
)

var DefaultEndpoints = map[string]string{
	EndpointSchedule:     "/sic/Schedule.php",
	EndpointAttendance:   "/sic/StudentAttendance.php",
	EndpointTranscript:   "/sic/Transcript.php",
	EndpointExamResult:   "/sic/examresult.php",
	EndpointVouchers:     "/sic/Vouchers.php",
	EndpointExamSchedule: "/sic/examschedule.php",
}

var ErrMissingDegreeId = fmt.Errorf("could not find a degree id on the transcript page")

// Document is one endpoint's raw content. Body holds HTML, or JSON for
// the transcript endpoint. Err carries a *core.NetworkError,
// *core.HttpError or ErrMissingDegreeId when the fetch failed.
type Document struct {
	Endpoint string
	Body     string
	Err      error
}

func (d Document) Ok() bool { return d.Err == nil }

// One performs a single authenticated GET.
func One(ctx context.Context, client *core.Client, endpoint, path string) Document {
	ctx, span := tracer.Start(ctx, "One")
	defer span.End()

	res, err := client.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		return Document{Endpoint: endpoint, Err: &core.NetworkError{URL: path, Err: err}}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "non-2xx response")
		return Document{Endpoint: endpoint, Err: &core.HttpError{URL: path, Status: res.StatusCode()}}
	}
	return Document{Endpoint: endpoint, Body: res.String()}
}

// Transcript is the two-step special case: GET the transcript page,
// pull the degree id out of the first option of the degree dropdown,
// then POST to the data service for the JSON payload.
func Transcript(ctx context.Context, client *core.Client, endpoint, path string) Document {
	ctx, span := tracer.Start(ctx, "Transcript")
	defer span.End()

	res, err := client.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure fetching transcript page")
		return Document{Endpoint: endpoint, Err: &core.NetworkError{URL: path, Err: err}}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "transcript page returned non-2xx")
		return Document{Endpoint: endpoint, Err: &core.HttpError{URL: path, Status: res.StatusCode()}}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse transcript page html")
		return Document{Endpoint: endpoint, Err: fmt.Errorf("parse transcript page: %w", err)}
	}

	degreeId := doc.Find("#cmbDegree option").First().AttrOr("value", "")
	if degreeId == "" {
		span.SetStatus(codes.Error, ErrMissingDegreeId.Error())
		return Document{Endpoint: endpoint, Err: ErrMissingDegreeId}
	}

	res, err = client.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"action":   "GetTranscript",
			"degreeId": degreeId,
		}).
		Post(DataServicePath)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure fetching transcript json")
		return Document{Endpoint: endpoint, Err: &core.NetworkError{URL: DataServicePath, Err: err}}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "data service returned non-2xx")
		return Document{Endpoint: endpoint, Err: &core.HttpError{URL: DataServicePath, Status: res.StatusCode()}}
	}
	return Document{Endpoint: endpoint, Body: res.String()}
}

// All fetches every endpoint concurrently over the shared session. The
// result always has one entry per requested endpoint; one endpoint
// failing neither cancels nor taints its siblings.
func All(ctx context.Context, client *core.Client, endpoints map[string]string) map[string]Document {
	ctx, span := tracer.Start(ctx, "All")
	defer span.End()

	out := make(map[string]Document, len(endpoints))
	mu := sync.Mutex{}
	wg := sync.WaitGroup{}

	for name, path := range endpoints {
		wg.Add(1)
		go func(name, path string) {
			defer wg.Done()

			var doc Document
			if strings.Contains(path, transcriptPathMarker) {
				doc = Transcript(ctx, client, name, path)
			} else {
				doc = One(ctx, client, name, path)
			}
			if doc.Err != nil {
				slog.WarnContext(ctx, "endpoint fetch failed", "endpoint", name, "err", doc.Err)
			}

			mu.Lock()
			defer mu.Unlock()
			out[name] = doc
		}(name, path)
	}

	wg.Wait()
	return out
}
