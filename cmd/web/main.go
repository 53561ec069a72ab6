package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates
var templatesFS embed.FS

const (
	cookieName  = "milstock_token"
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "MILSTOCK_WEB_PORT"
	envAPIURL   = "MILSTOCK_API_URL"
)

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health (no auth, no templates)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public
	r.Get("/login", loginForm)
	r.Post("/login", loginSubmit(apiBase))
	r.Get("/logout", logout)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(apiBase))
		r.Get("/", redirectDashboard)
		r.Get("/dashboard", dashboard(apiBase))
		r.Get("/logs", logsPage(apiBase))
	})

	log.Printf("Web UI running on http://localhost:%s (API: %s)", port, apiBase)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requireAuth redirects to /login if the cookie is missing or if the API
// rejects the token.
func requireAuth(apiBase string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := r.Cookie(cookieName)
			if err != nil || token.Value == "" {
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
				return
			}
			_, status, _ := apiGet(apiBase, "/api/bases", token.Value)
			if status == http.StatusUnauthorized {
				clearAuthAndRedirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(cookieName); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	renderTemplate(w, "login.html", map[string]string{})
}

func loginSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || password == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Username and password are required"})
			return
		}

		body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
		req, _ := http.NewRequest("POST", apiBase+"/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			renderTemplate(w, "login.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			var errResp struct{ Error string }
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Error
			if msg == "" {
				msg = string(data)
			}
			renderTemplate(w, "login.html", map[string]string{"Error": msg})
			return
		}

		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &out); err != nil || out.Token == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Invalid login response"})
			return
		}

		next := r.URL.Query().Get("next")
		if next == "" {
			next = "/dashboard"
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    out.Token,
			Path:     "/",
			MaxAge:   24 * 3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, next, http.StatusFound)
	}
}

func logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusFound)
}

// clearAuthAndRedirectToLogin clears the token cookie and sends the user back
// to login with next=current path.
func clearAuthAndRedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusFound)
}

// apiGet performs GET to the API with a bearer token.
func apiGet(apiBase, path, token string) ([]byte, int, error) {
	req, _ := http.NewRequest("GET", apiBase+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

func cookieToken(r *http.Request) string {
	token, _ := r.Cookie(cookieName)
	if token == nil {
		return ""
	}
	return token.Value
}

type baseOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type equipmentOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// dashboard renders the reconciliation report with base/equipment/date filters.
func dashboard(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := cookieToken(r)

		payload := map[string]interface{}{}

		// Selection lists for the filter form.
		if data, status, err := apiGet(apiBase, "/api/bases", tok); err == nil && status == http.StatusOK {
			var bases []baseOption
			if json.Unmarshal(data, &bases) == nil {
				payload["Bases"] = bases
			}
		}
		if data, status, err := apiGet(apiBase, "/api/equipment-types", tok); err == nil && status == http.StatusOK {
			var types []equipmentOption
			if json.Unmarshal(data, &types) == nil {
				payload["EquipmentTypes"] = types
			}
		}

		q := url.Values{}
		for _, key := range []string{"base_id", "equipment_type_id", "start_date", "end_date"} {
			if v := r.URL.Query().Get(key); v != "" {
				q.Set(key, v)
			}
		}
		payload["Query"] = r.URL.Query()

		path := "/api/dashboard"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		data, status, err := apiGet(apiBase, path, tok)
		if err != nil {
			payload["Error"] = err.Error()
			renderTemplate(w, "dashboard.html", payload)
			return
		}
		if status == http.StatusUnauthorized {
			clearAuthAndRedirectToLogin(w, r)
			return
		}
		if status != http.StatusOK {
			var errResp struct{ Error string }
			_ = json.Unmarshal(data, &errResp)
			msg := errResp.Error
			if msg == "" {
				msg = string(data)
			}
			payload["Error"] = msg
			renderTemplate(w, "dashboard.html", payload)
			return
		}

		var report struct {
			Base struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
				Code string `json:"code"`
			} `json:"base"`
			EquipmentType struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"equipment_type"`
			Filters struct {
				StartDate *string `json:"start_date"`
				EndDate   *string `json:"end_date"`
			} `json:"filters"`
			OpeningBalance int `json:"opening_balance"`
			ClosingBalance int `json:"closing_balance"`
			NetMovement    struct {
				Total        int `json:"total"`
				Purchases    int `json:"purchases"`
				TransfersIn  int `json:"transfers_in"`
				TransfersOut int `json:"transfers_out"`
			} `json:"net_movement"`
			AssignedTotal int `json:"assigned_total"`
			ExpendedTotal int `json:"expended_total"`
		}
		if err := json.Unmarshal(data, &report); err != nil {
			payload["Error"] = "Invalid report response"
			renderTemplate(w, "dashboard.html", payload)
			return
		}

		payload["Report"] = report
		renderTemplate(w, "dashboard.html", payload)
	}
}

// logsPage renders the transaction audit log, newest first.
func logsPage(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := cookieToken(r)

		q := url.Values{}
		for _, key := range []string{"action_type", "base_id", "start_date", "end_date"} {
			if v := r.URL.Query().Get(key); v != "" {
				q.Set(key, v)
			}
		}
		path := "/api/logs"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		payload := map[string]interface{}{"Query": r.URL.Query()}

		data, status, err := apiGet(apiBase, path, tok)
		if err != nil {
			payload["Error"] = err.Error()
			renderTemplate(w, "logs.html", payload)
			return
		}
		if status == http.StatusUnauthorized {
			clearAuthAndRedirectToLogin(w, r)
			return
		}
		if status != http.StatusOK {
			payload["Error"] = "API error: " + string(data)
			renderTemplate(w, "logs.html", payload)
			return
		}

		var entries []struct {
			ID         int    `json:"id"`
			ActionType string `json:"action_type"`
			ModelName  string `json:"model_name"`
			ObjectID   int    `json:"object_id"`
			Timestamp  string `json:"timestamp"`
			UserID     *int   `json:"user_id"`
			Details    struct {
				Base          *int `json:"base"`
				FromBase      *int `json:"from_base"`
				ToBase        *int `json:"to_base"`
				EquipmentType *int `json:"equipment_type"`
				Quantity      *int `json:"quantity"`
			} `json:"details"`
		}
		if err := json.Unmarshal(data, &entries); err != nil {
			payload["Error"] = "Invalid logs response"
			renderTemplate(w, "logs.html", payload)
			return
		}

		payload["Entries"] = entries
		renderTemplate(w, "logs.html", payload)
	}
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if name == "login.html" {
		t := template.Must(template.New("").Parse(string(content)))
		_ = t.ExecuteTemplate(w, "login", data)
		return
	}

	layout, _ := templatesFS.ReadFile("templates/layout.html")
	t := template.Must(template.New("").Parse(string(layout)))
	t = template.Must(t.New("").Parse(string(content)))
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("template execute: %v", err)
	}
}
