package connection

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// StoredCookie is the persisted form of a cookie.
type StoredCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
}

func (s StoredCookie) expired(now time.Time) bool {
	return !s.Expires.IsZero() && !s.Expires.After(now)
}

// Jar is an http.CookieJar that also remembers the cookies it was given so
// they can be written to disk. Cookie values are never inspected.
type Jar struct {
	mu    sync.Mutex
	inner *cookiejar.Jar
	saved map[string]StoredCookie
	dirty bool
}

// NewJar creates an empty jar using the public suffix list.
func NewJar() (*Jar, error) {
	inner, err := newInnerJar()
	if err != nil {
		return nil, err
	}
	return &Jar{inner: inner, saved: make(map[string]StoredCookie)}, nil
}

func newInnerJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)

	now := time.Now()
	for _, c := range cookies {
		key := c.Name + "|" + c.Path
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(j.saved, key)
			j.dirty = true
			continue
		}
		sc := StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.saved[key] = sc
		j.dirty = true
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Clear drops every cookie.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if inner, err := newInnerJar(); err == nil {
		j.inner = inner
	}
	if len(j.saved) > 0 {
		j.dirty = true
	}
	j.saved = make(map[string]StoredCookie)
}

// Len returns the number of live cookies.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	n := 0
	now := time.Now()
	for _, c := range j.saved {
		if !c.expired(now) {
			n++
		}
	}
	return n
}

// Dirty reports whether the jar changed since the last Export or Import.
func (j *Jar) Dirty() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dirty
}

// Export returns the live cookies for persistence.
func (j *Jar) Export() []StoredCookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	out := make([]StoredCookie, 0, len(j.saved))
	for _, c := range j.saved {
		if !c.expired(now) {
			out = append(out, c)
		}
	}
	j.dirty = false
	return out
}

// Import loads persisted cookies as if u had set them. Expired cookies are
// skipped.
func (j *Jar) Import(u *url.URL, cookies []StoredCookie) {
	now := time.Now()
	hc := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.expired(now) {
			continue
		}
		hc = append(hc, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		})
	}
	j.SetCookies(u, hc)

	j.mu.Lock()
	j.dirty = false
	j.mu.Unlock()
}
