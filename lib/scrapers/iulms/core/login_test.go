package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"iulms-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const loginFormHtml = `<html><body>
<form id="login" action="%s" method="post">
	<input type="hidden" name="logintoken" value="abc123">
	<input type="hidden" name="anchor" value="">
	<input type="text" name="username">
	<input type="password" name="password">
</form>
</body></html>`

// portal double implementing the observed login flow: cookie-test
// redirect on first contact, form page, POST handler
func newPortal(t *testing.T, onSubmit func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/index.php", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "MoodleSession", Value: "s3ss10n", Path: "/"})
		fmt.Fprintf(w, loginFormHtml, "/login/submit.php")
	})
	mux.HandleFunc("/login/submit.php", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		onSubmit(w, r)
	})
	mux.HandleFunc("/my/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>You are logged in as Test Student</body></html>`)
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(ClientOptions{
		BaseUrl:       baseUrl,
		DisablePacing: true,
	})
	require.NoError(t, err)
	return client
}

func TestLoginSuccess(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/core")
	defer cleanup()

	portal := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "student", r.PostForm.Get("username"))
		require.Equal(t, "hunter2", r.PostForm.Get("password"))
		// hidden fields must travel with the submission
		require.Equal(t, "abc123", r.PostForm.Get("logintoken"))
		require.Contains(t, r.Header.Get("Referer"), "/login/index.php")
		http.Redirect(w, r, "/my/", http.StatusSeeOther)
	})
	defer portal.Close()

	client := newTestClient(t, portal.URL)
	err := client.Login(context.Background(), "student", "hunter2")
	require.NoError(t, err)

	// the session cookie from the priming request must be retained
	var names []string
	for _, c := range client.Cookies() {
		names = append(names, c.Name)
	}
	require.Contains(t, names, "MoodleSession")
}

func TestLoginSuccessByBodyMarker(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/core")
	defer cleanup()

	portal := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		// no redirect, but the page shows the logged-in banner
		fmt.Fprint(w, `<html><body><div class="loggedinas">Test Student</div></body></html>`)
	})
	defer portal.Close()

	client := newTestClient(t, portal.URL)
	require.NoError(t, client.Login(context.Background(), "student", "hunter2"))
}

func TestLoginInvalidCredentials(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/core")
	defer cleanup()

	portal := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Invalid login, please try again</body></html>`)
	})
	defer portal.Close()

	client := newTestClient(t, portal.URL)
	err := client.Login(context.Background(), "student", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAmbiguousOutcome(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/core")
	defer cleanup()

	portal := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Scheduled maintenance in progress.</body></html>`)
	})
	defer portal.Close()

	client := newTestClient(t, portal.URL)
	err := client.Login(context.Background(), "student", "hunter2")
	require.ErrorIs(t, err, ErrAmbiguousOutcome)
}

func TestLoginFormNotFound(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/core")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/index.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Portal is down for maintenance.</p></body></html>`)
	})
	portal := httptest.NewServer(mux)
	defer portal.Close()

	client := newTestClient(t, portal.URL)
	err := client.Login(context.Background(), "student", "hunter2")
	require.ErrorIs(t, err, ErrFormNotFound)
}

func TestLoginPageHttpError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/core")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/index.php", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	portal := httptest.NewServer(mux)
	defer portal.Close()

	client := newTestClient(t, portal.URL)
	err := client.Login(context.Background(), "student", "hunter2")

	var httpErr *HttpError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestFindLoginFormFallbacks(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/core")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/index.php", func(w http.ResponseWriter, r *http.Request) {
		// no username/password inputs, only an action hinting at login
		fmt.Fprint(w, `<html><body>
			<form action="/search.php"><input type="text" name="q"></form>
			<form action="/login/submit.php">
				<input type="hidden" name="sesskey" value="k1">
			</form>
		</body></html>`)
	})
	mux.HandleFunc("/login/submit.php", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "k1", r.PostForm.Get("sesskey"))
		http.Redirect(w, r, "/my/", http.StatusSeeOther)
	})
	mux.HandleFunc("/my/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	portal := httptest.NewServer(mux)
	defer portal.Close()

	client := newTestClient(t, portal.URL)
	require.NoError(t, client.Login(context.Background(), "student", "hunter2"))
}
