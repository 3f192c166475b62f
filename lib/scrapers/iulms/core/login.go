package core

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// Login drives the portal's form login. The steps are strictly
// sequential: prime session cookies, re-fetch the login page, discover
// the form and its hidden fields, submit, classify the outcome.
//
// Returns nil on success, ErrInvalidCredentials / ErrFormNotFound /
// ErrAmbiguousOutcome, or a *NetworkError / *HttpError from the
// underlying exchanges. Credentials are not retained.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	loginUrl := c.LoginUrl().String()

	// first contact establishes baseline session cookies; some
	// deployments answer it with a cookie-test redirect instead of the
	// form
	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to reach login page")
		return &NetworkError{URL: loginUrl, Err: err}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "login page returned non-2xx")
		return &HttpError{URL: loginUrl, Status: res.StatusCode()}
	}

	c.pause(ctx, c.primeDelay)

	res, err = c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", loginUrl).
		Get(c.loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login form")
		return &NetworkError{URL: loginUrl, Err: err}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "login form fetch returned non-2xx")
		return &HttpError{URL: loginUrl, Status: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		return fmt.Errorf("parse login page: %w", err)
	}

	form := findLoginForm(doc)
	if form == nil {
		span.SetStatus(codes.Error, ErrFormNotFound.Error())
		slog.WarnContext(ctx, "no login form on page", "url", loginUrl)
		return ErrFormNotFound
	}

	// hidden inputs carry anti-csrf tokens and session markers;
	// credentials override hidden fields of the same name
	fields := map[string]string{}
	form.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		fields[name] = input.AttrOr("value", "")
	})
	fields["username"] = username
	fields["password"] = password

	postUrl := c.resolveAction(form.AttrOr("action", ""))
	slog.DebugContext(ctx, "discovered login form", "action", postUrl, "hidden_fields", len(fields)-2)

	c.pause(ctx, c.submitDelay)

	res, err = c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", loginUrl).
		SetFormData(fields).
		Post(postUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to submit login form")
		return &NetworkError{URL: postUrl, Err: err}
	}

	finalUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}

	switch c.classifier.Classify(finalUrl, res.String()) {
	case OutcomeSuccess:
		slog.InfoContext(ctx, "login successful", "final_url", finalUrl)
		return nil
	case OutcomeBadCredentials:
		span.SetStatus(codes.Error, ErrInvalidCredentials.Error())
		return ErrInvalidCredentials
	default:
		span.SetStatus(codes.Error, ErrAmbiguousOutcome.Error())
		slog.WarnContext(ctx, "unrecognized login outcome", "final_url", finalUrl, "status", res.StatusCode())
		return ErrAmbiguousOutcome
	}
}

// Cookies enumerates the session's current cookies, e.g. for handing
// the session to an embedded browser view. Read-only dump.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Dump()
}

// findLoginForm tries, in order: a form carrying both a username and a
// password input, a form identified as a login form by id/name/action,
// the first form on the page.
func findLoginForm(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		hasUser := form.Find("input[name=username]").Length() > 0
		hasPass := form.Find("input[type=password], input[name=password]").Length() > 0
		if hasUser && hasPass {
			found = form
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	if sel := doc.Find("form#login, form[name=login], form[action*=login]"); sel.Length() > 0 {
		return sel.First()
	}
	if sel := doc.Find("form"); sel.Length() > 0 {
		return sel.First()
	}
	return nil
}

func (c *Client) resolveAction(action string) string {
	loginUrl := c.LoginUrl()
	if action == "" {
		return loginUrl.String()
	}
	ref, err := url.Parse(action)
	if err != nil {
		return loginUrl.String()
	}
	return loginUrl.ResolveReference(ref).String()
}

func (c *Client) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
