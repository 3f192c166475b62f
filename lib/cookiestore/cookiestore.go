// Package cookiestore is an in-memory cookie jar for portal sessions.
//
// Unlike net/http/cookiejar it expires entries lazily on read and can
// dump every live cookie, which is what lets a session be handed off to
// an embedded browser view.
package cookiestore

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type entry struct {
	cookie  *http.Cookie
	domain  string
	path    string
	expires time.Time
}

// Jar implements net/http.CookieJar. All methods are safe for use from
// concurrent fetches sharing one session.
type Jar struct {
	mu      sync.Mutex
	entries []entry
	now     func() time.Time
}

func New() *Jar {
	return &Jar{now: time.Now}
}

// SetCookies stores the cookies set by a response from u, dropping any
// that are already expired. Cookies without an explicit domain or path
// are scoped to the request host and "/".
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, c := range cookies {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		domain := strings.TrimPrefix(c.Domain, ".")
		if domain == "" {
			domain = u.Hostname()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		// the portal rotates its session cookie on login, a re-set
		// replaces the previous value instead of stacking
		j.remove(c.Name, strings.ToLower(domain), path)
		j.entries = append(j.entries, entry{
			cookie:  c,
			domain:  strings.ToLower(domain),
			path:    path,
			expires: c.Expires,
		})
	}
}

// Cookies returns the live cookies matching u, purging expired entries
// as a side effect.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.purge()

	host := strings.ToLower(u.Hostname())
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	var out []*http.Cookie
	for _, e := range j.entries {
		if !domainMatch(host, e.domain) {
			continue
		}
		if !pathMatch(path, e.path) {
			continue
		}
		out = append(out, e.cookie)
	}
	return out
}

// Dump returns a snapshot of every live cookie regardless of domain.
// It is a read-only view for session export, not a mutation point.
func (j *Jar) Dump() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.purge()

	out := make([]*http.Cookie, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.cookie
	}
	return out
}

// callers must hold mu
func (j *Jar) remove(name, domain, path string) {
	kept := j.entries[:0]
	for _, e := range j.entries {
		if e.cookie.Name == name && e.domain == domain && e.path == path {
			continue
		}
		kept = append(kept, e)
	}
	j.entries = kept
}

// callers must hold mu
func (j *Jar) purge() {
	now := j.now()
	live := j.entries[:0]
	for _, e := range j.entries {
		if !e.expires.IsZero() && !e.expires.After(now) {
			continue
		}
		live = append(live, e)
	}
	j.entries = live
}

func domainMatch(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func pathMatch(requestPath, cookiePath string) bool {
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	if len(requestPath) == len(cookiePath) {
		return true
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}
