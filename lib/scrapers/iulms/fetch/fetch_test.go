package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"iulms-backend/lib/scrapers/iulms/core"
	"iulms-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newPortal(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/sic/Schedule.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>schedule page</body></html>")
	})
	mux.HandleFunc("/sic/StudentAttendance.php", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session expired", http.StatusForbidden)
	})
	mux.HandleFunc("/sic/Transcript.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<select id="cmbDegree">
				<option value="BSCS-42">BS Computer Science</option>
				<option value="MIN-7">Minor</option>
			</select>
		</body></html>`)
	})
	mux.HandleFunc("/sic/SICDataService.php", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "GetTranscript", r.PostForm.Get("action"))
		require.Equal(t, "BSCS-42", r.PostForm.Get("degreeId"))
		fmt.Fprint(w, `{"attemptedCourses":[],"cgpa":"3.10"}`)
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseUrl string) *core.Client {
	client, err := core.NewClient(core.ClientOptions{
		BaseUrl:       baseUrl,
		DisablePacing: true,
	})
	require.NoError(t, err)
	return client
}

func TestOne(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/fetch")
	defer cleanup()

	portal := newPortal(t)
	defer portal.Close()
	client := newTestClient(t, portal.URL)

	doc := One(context.Background(), client, EndpointSchedule, "/sic/Schedule.php")
	require.True(t, doc.Ok())
	require.Contains(t, doc.Body, "schedule page")

	doc = One(context.Background(), client, EndpointAttendance, "/sic/StudentAttendance.php")
	require.False(t, doc.Ok())
	var httpErr *core.HttpError
	require.True(t, errors.As(doc.Err, &httpErr))
	require.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestTranscriptTwoStep(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/fetch")
	defer cleanup()

	portal := newPortal(t)
	defer portal.Close()
	client := newTestClient(t, portal.URL)

	doc := Transcript(context.Background(), client, EndpointTranscript, "/sic/Transcript.php")
	require.True(t, doc.Ok())
	require.Contains(t, doc.Body, `"cgpa":"3.10"`)
}

func TestTranscriptMissingDegreeId(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/fetch")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/sic/Transcript.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>no dropdown today</p></body></html>`)
	})
	portal := httptest.NewServer(mux)
	defer portal.Close()
	client := newTestClient(t, portal.URL)

	doc := Transcript(context.Background(), client, EndpointTranscript, "/sic/Transcript.php")
	require.ErrorIs(t, doc.Err, ErrMissingDegreeId)
}

func TestAllIsolatesFailures(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/fetch")
	defer cleanup()

	portal := newPortal(t)
	defer portal.Close()
	client := newTestClient(t, portal.URL)

	endpoints := map[string]string{
		EndpointSchedule:   "/sic/Schedule.php",
		EndpointAttendance: "/sic/StudentAttendance.php",
		EndpointTranscript: "/sic/Transcript.php",
	}
	docs := All(context.Background(), client, endpoints)

	// one entry per requested endpoint, no matter what failed
	require.Len(t, docs, len(endpoints))
	require.True(t, docs[EndpointSchedule].Ok())
	require.True(t, docs[EndpointTranscript].Ok())
	require.False(t, docs[EndpointAttendance].Ok())
	require.Contains(t, docs[EndpointTranscript].Body, "attemptedCourses")
}
