package web

// handlers_pages.go contains the users, analytics, settings and login pages.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/core/tables"
	"github.com/JonMunkholm/admindash/internal/logging"
	"github.com/JonMunkholm/admindash/internal/session"
	"github.com/JonMunkholm/admindash/internal/web/templates"
)

// handleUsers renders the role tabs and the selected role's table.
// Unknown roles fall back to the first tab.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	role := tables.RoleByKey(r.URL.Query().Get("role"))

	t, err := s.sessions.Table(r.Context(), sessionFor(r), role.Key)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := applyQuery(t, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	model := tableModel(t, view)
	if isHTMX(r) {
		s.render(w, r, http.StatusOK, templates.TableSection(model))
		return
	}

	tabs := make([]templates.RoleTab, len(tables.Roles))
	for i, rl := range tables.Roles {
		tabs[i] = templates.RoleTab{Key: rl.Key, Label: rl.Title + "s", Active: rl.Key == role.Key}
	}
	s.render(w, r, http.StatusOK, templates.UsersPage(s.sidebar(r, "users"), tabs, model))
}

// handleAnalytics renders the overview cards.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	stats := s.sessions.Analytics(r.Context(), sessionFor(r))

	cards := make([]templates.StatCard, len(stats))
	for i, c := range stats {
		cards[i] = templates.StatCard{Title: c.Title, Value: c.Value, Hint: c.Hint}
	}
	s.render(w, r, http.StatusOK, templates.AnalyticsPage(s.sidebar(r, "analytics"), cards))
}

func settingsForm(st session.Settings) templates.SettingsForm {
	return templates.SettingsForm{
		Name:               st.Name,
		Email:              st.Email,
		DarkMode:           st.DarkMode,
		EmailNotifications: st.EmailNotifications,
		TwoFactor:          st.TwoFactor,
		LoginAlerts:        st.LoginAlerts,
	}
}

// handleSettingsPage renders the settings form.
func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	form := settingsForm(sessionFor(r).Settings())
	s.render(w, r, http.StatusOK, templates.SettingsPage(s.sidebar(r, "settings"), form))
}

// handleSaveSettings stores the submitted settings on the session.
// Unchecked toggles are absent from the form and read as off.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, badRequest("settings form: %v", err))
		return
	}
	sess := sessionFor(r)

	st := sess.Settings()
	if name := strings.TrimSpace(r.PostFormValue("name")); name != "" {
		st.Name = name
	}
	if email := strings.TrimSpace(r.PostFormValue("email")); email != "" {
		st.Email = email
	}
	st.DarkMode = r.PostFormValue("dark_mode") == "on"
	st.EmailNotifications = r.PostFormValue("email_notifications") == "on"
	st.TwoFactor = r.PostFormValue("two_factor") == "on"
	st.LoginAlerts = r.PostFormValue("login_alerts") == "on"
	sess.SaveSettings(st)

	logging.FromContext(r.Context()).Info("settings saved", "dark_mode", st.DarkMode)

	form := settingsForm(st)
	form.Saved = true
	if isHTMX(r) {
		newToastNotifier(w).Notify(r.Context(), "Settings saved", core.NoticeSuccess)
		s.render(w, r, http.StatusOK, templates.SettingsSection(form))
		return
	}
	s.render(w, r, http.StatusOK, templates.SettingsPage(s.sidebar(r, "settings"), form))
}

// handleLoginPage renders the login form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, templates.LoginPage("", ""))
}

// handleLogin checks the submitted credentials and sends the user to the
// dashboard. Failures re-render the form with the mapped message.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds := core.Credentials{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	ip, ua := requestMetadata(r.Context())
	logger := logging.FromContext(r.Context())

	if err := s.auth.Login(r.Context(), creds); err != nil {
		logger.Warn("login failed", "ip", ip, "user_agent", ua, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		s.render(w, r, status, templates.LoginPage(creds.Email, core.MapError(err).Message))
		return
	}

	sess := sessionFor(r)
	sess.SetUser(creds.Email)
	logger.Info("login", "ip", ip, "user_agent", ua)

	newToastNotifier(w).Notify(r.Context(), "Welcome back", core.NoticeSuccess)
	newNavigator(w, r).NavigateTo("/")
}

// handleLogout ends the session and returns to the login page.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFor(r).ID())
	newNavigator(w, r).NavigateTo("/login")
}
