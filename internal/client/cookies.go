package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
)

const cookiesKey = "campushub:cookies"

// persistentJar is a cookie jar for a single server whose cookies are saved
// in the local store, standing in for a browser's cookie storage.
type persistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	store  kvStore
	scope  *url.URL
	logger logrus.FieldLogger
}

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// apiScope is the URL whose cookies are persisted: the API root on server.
func apiScope(server string) (*url.URL, error) {
	base, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("server url %q needs scheme and host", server)
	}
	return &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/api/"}, nil
}

// NewCookieJar returns a jar seeded with the cookies saved for server.
func NewCookieJar(ctx context.Context, store kvStore, server string, logger logrus.FieldLogger) (http.CookieJar, error) {
	scope, err := apiScope(server)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	raw, err := store.Get(ctx, cookiesKey)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		var saved []savedCookie
		if err := json.Unmarshal(raw, &saved); err != nil {
			logger.WithError(err).Warn("discarding unreadable saved cookies")
		} else {
			cookies := make([]*http.Cookie, 0, len(saved))
			for _, c := range saved {
				cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/api", HttpOnly: true})
			}
			jar.SetCookies(scope, cookies)
		}
	}

	return &persistentJar{jar: jar, store: store, scope: scope, logger: logger}, nil
}

func (j *persistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

func (j *persistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	current := j.jar.Cookies(j.scope)
	saved := make([]savedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		j.logger.WithError(err).Warn("encode session cookies")
		return
	}
	// http.CookieJar has no error path, so a failed write is only reported.
	if err := j.store.Set(context.Background(), cookiesKey, raw); err != nil {
		j.logger.WithError(err).Warn("persist session cookies")
	}
}

// Clear forgets every cookie in memory and on disk.
func (j *persistentJar) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.jar = jar
	return j.store.Delete(ctx, cookiesKey)
}
