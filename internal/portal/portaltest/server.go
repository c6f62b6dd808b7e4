// Package portaltest provides an in-process fake of the identity provider and
// topic registration portal for tests.
package portaltest

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

const (
	// LoginToken is the CSRF token served on the login page
	LoginToken = "login-token"
	// PortalToken is the CSRF token served on the topic browser
	PortalToken = "portal-token"

	// SessionExpiredText is shown on the topic browser without a session
	SessionExpiredText = "Wymagane zalogowanie"
	// InvalidPasswordText is shown after a rejected login
	InvalidPasswordText = "Podano nieprawidłowe hasło"

	sessionCookie = "sessionid"
)

// Row is a topic listed by the fake portal
type Row struct {
	Title    string
	Href     string
	Provider string
}

// Server is a fake portal. All fields guarded by mu.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	login       string
	password    string
	rows        []Row
	sessions    map[string]bool
	filters     map[string]map[string]string
	nextSession int
	logins      int
	filterSets  int
	lastFilter  map[string]string
	rateLimited bool
}

// NewServer starts a fake portal accepting the given credentials
func NewServer(login, password string, rows ...Row) *Server {
	s := &Server{
		login:    login,
		password: password,
		rows:     rows,
		sessions: make(map[string]bool),
		filters:  make(map[string]map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/app/login", s.handleLogin)
	mux.HandleFunc("/topics/browse/", s.handleBrowse)
	mux.HandleFunc("/topics/browse/filter/set/", s.handleFilterSet)
	s.Server = httptest.NewServer(mux)
	return s
}

// LoginURL returns the login form URL
func (s *Server) LoginURL() string {
	return s.URL + "/app/login"
}

// SetRows replaces the listed topics
func (s *Server) SetRows(rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
}

// ExpireSessions invalidates every session cookie handed out so far
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]bool)
}

// SetRateLimited makes every request answer 429
func (s *Server) SetRateLimited(limited bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimited = limited
}

// Logins returns the number of successful logins
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// FilterSets returns the number of accepted filter requests
func (s *Server) FilterSets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterSets
}

// LastFilter returns the most recently posted filter form
func (s *Server) LastFilter() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFilter
}

func (s *Server) throttled(w http.ResponseWriter) bool {
	if !s.rateLimited {
		return false
	}
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	return true
}

func (s *Server) session(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	return cookie.Value, s.sessions[cookie.Value]
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.throttled(w) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch r.Method {
	case http.MethodGet:
		fmt.Fprintf(w, `<html><body><form method="post">
<input type="hidden" name="csrf_token" value="%s">
<input name="login"><input type="password" name="password">
<button name="send">Zaloguj</button></form></body></html>`, LoginToken)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("csrf_token") != LoginToken {
			http.Error(w, "CSRF verification failed", http.StatusForbidden)
			return
		}
		if r.PostForm.Get("login") != s.login || r.PostForm.Get("password") != s.password {
			fmt.Fprintf(w, `<html><body><div class="error">%s</div></body></html>`, InvalidPasswordText)
			return
		}
		s.nextSession++
		s.logins++
		id := "session-" + strconv.Itoa(s.nextSession)
		s.sessions[id] = true
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/"})
		fmt.Fprint(w, `<html><body>Zalogowano</body></html>`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.throttled(w) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	id, ok := s.session(r)
	if !ok {
		fmt.Fprintf(w, `<html><body><p>%s</p></body></html>`, SessionExpiredText)
		return
	}

	var sb strings.Builder
	sb.WriteString(`<html><body><form method="post" action="/topics/browse/filter/set/">`)
	fmt.Fprintf(&sb, `<input type="hidden" name="csrfmiddlewaretoken" value="%s"></form>`, PortalToken)
	sb.WriteString(`<table><thead><tr><th>Temat</th><th>Osoba</th></tr></thead><tbody>`)
	if filter, applied := s.filters[id]; applied && filter["status"] == "AVAILABLE" {
		for _, row := range s.rows {
			fmt.Fprintf(&sb, "<tr>\n<td><a href=\"%s\">\n<span>\n%s\n</span></a></td>\n<td><a href=\"/people/1/\">  %s  </a></td>\n</tr>\n",
				html.EscapeString(row.Href), html.EscapeString(row.Title), html.EscapeString(row.Provider))
		}
	}
	sb.WriteString(`</tbody></table></body></html>`)
	fmt.Fprint(w, sb.String())
}

func (s *Server) handleFilterSet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.throttled(w) {
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.session(r)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("csrfmiddlewaretoken") != PortalToken || r.Header.Get("Origin") != s.URL {
		http.Error(w, "CSRF verification failed", http.StatusForbidden)
		return
	}

	s.filterSets++
	filter := make(map[string]string)
	for key := range r.PostForm {
		filter[key] = r.PostForm.Get(key)
	}
	s.filters[id] = filter
	s.lastFilter = filter
	w.WriteHeader(http.StatusOK)
}
