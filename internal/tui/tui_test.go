package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sadopc/mediorg/internal/health"
	"github.com/sadopc/mediorg/internal/insight"
	"github.com/sadopc/mediorg/internal/session"
	"github.com/sadopc/mediorg/internal/store"
)

var fixedNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	s := newTestStore(t)
	log := zerolog.Nop()
	records := health.NewRecordStore(s, log)
	return Deps{
		Records:    records,
		Stats:      health.NewAggregator(records, func() time.Time { return fixedNow }, time.UTC),
		Goals:      health.NewGoalStore(s, log),
		Onboarding: health.NewOnboarding(s),
		Session:    session.NewManager(s, session.NewLocalAccounts(s), log),
		Insight:    insight.New(nil, log),
		Log:        log,
		Slots:      s,
		ExportDir:  t.TempDir(),
	}
}

func signIn(t *testing.T, d Deps) *session.User {
	t.Helper()
	u, err := d.Session.Signup(context.Background(), "ada@example.com", "secret", "Ada")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return u
}

func mustAppend(t *testing.T, d Deps, typ health.ActivityType, value string, at time.Time) health.ActivityRecord {
	t.Helper()
	rec, err := health.NewRecord(typ, value, at, "")
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if _, err := d.Records.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	return rec
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{7.5, "7.5"},
		{999, "999"},
		{1000, "1,000"},
		{10000, "10,000"},
		{1234567, "1,234,567"},
		{0.25, "0.25"},
		{1234.5, "1,234.5"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.v); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatAmountSummedFloats(t *testing.T) {
	// Summed at runtime so the float error survives.
	var sum float64
	for _, v := range []float64{0.1, 0.2} {
		sum += v
	}
	if got := formatAmount(sum); got != "0.3" {
		t.Fatalf("formatAmount(%v) = %q, want 0.3", sum, got)
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += 0.1
	}
	if got := formatAmount(sum); got != "1" {
		t.Fatalf("formatAmount(%v) = %q, want 1", sum, got)
	}
	if got := formatAmount(2.0 / 3); got != "0.67" {
		t.Fatalf("got %q, want 0.67", got)
	}
}

func TestFormatAmountNegative(t *testing.T) {
	if got := formatAmount(-12345); got != "-12,345" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatWithUnit(t *testing.T) {
	if got := formatWithUnit(health.Sleep, 7.5); got != "7.5 hours" {
		t.Fatalf("got %q", got)
	}
	if got := formatWithUnit(health.Steps, 5000); got != "5,000 steps" {
		t.Fatalf("got %q", got)
	}
}

func TestDateLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2025-03-10", "Today"},
		{"2025-03-09", "Yesterday"},
		{"2025-03-05", "Wed, Mar 05"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := dateLabel(tt.key, fixedNow); got != tt.want {
			t.Errorf("dateLabel(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestGreeting(t *testing.T) {
	day := func(h int) time.Time { return time.Date(2025, 3, 10, h, 0, 0, 0, time.UTC) }
	if got := greeting(day(8)); got != "Good morning" {
		t.Fatalf("8h: %q", got)
	}
	if got := greeting(day(13)); got != "Good afternoon" {
		t.Fatalf("13h: %q", got)
	}
	if got := greeting(day(21)); got != "Good evening" {
		t.Fatalf("21h: %q", got)
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	for i, name := range viewNames {
		if name == "" {
			t.Fatalf("view name %d is empty", i)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewLog != 1 || viewHistory != 2 || viewSettings != 3 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Login
// ============================================================

func TestLoginSubmitSignup(t *testing.T) {
	d := newTestDeps(t)
	l := newLoginModel(d.Session)
	*l.mode = modeSignup
	*l.email = " Ada@Example.com "
	*l.password = "secret"
	*l.name = "Ada"

	msg, ok := l.submit()().(authDoneMsg)
	if !ok {
		t.Fatal("expected authDoneMsg")
	}
	if msg.err != nil {
		t.Fatalf("signup: %v", msg.err)
	}
	if msg.user.Email != "ada@example.com" || msg.user.Name != "Ada" {
		t.Fatalf("unexpected user %+v", msg.user)
	}
	if d.Session.Current() == nil {
		t.Fatal("session should be persisted")
	}
}

func TestLoginSubmitWrongPassword(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	d.Session.Logout()

	l := newLoginModel(d.Session)
	*l.email = "ada@example.com"
	*l.password = "nope"

	msg := l.submit()().(authDoneMsg)
	if !errors.Is(msg.err, session.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", msg.err)
	}
	if d.Session.Current() != nil {
		t.Fatal("failed login must not create a session")
	}
}

func TestLoginFailShowsMessageAndClearsPassword(t *testing.T) {
	d := newTestDeps(t)
	l := newLoginModel(d.Session)
	*l.email = "ada@example.com"
	*l.password = "secret"
	l.busy = true

	l, _ = l.fail(session.ErrMissingFields)
	if l.busy {
		t.Fatal("fail should clear busy")
	}
	if l.errMsg != session.Message(session.ErrMissingFields) {
		t.Fatalf("unexpected message %q", l.errMsg)
	}
	if *l.password != "" {
		t.Fatal("password should be cleared")
	}
	if *l.email != "ada@example.com" {
		t.Fatal("email should be kept")
	}
}

func TestLoginIgnoresInputWhileBusy(t *testing.T) {
	d := newTestDeps(t)
	l := newLoginModel(d.Session)
	l.busy = true
	_, cmd := l.update(runeKey("x"))
	if cmd != nil {
		t.Fatal("busy login should ignore input")
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardLoadData(t *testing.T) {
	d := newTestDeps(t)
	mustAppend(t, d, health.Water, "2", fixedNow.Add(-2*time.Hour))
	mustAppend(t, d, health.Water, "3", fixedNow.Add(-time.Hour))
	mustAppend(t, d, health.Steps, "4000", fixedNow.AddDate(0, 0, -1))

	dm := newDashboardModel(d.Stats, d.Goals, d.Onboarding, d.Insight)
	msg, ok := dm.loadData()().(dashboardDataMsg)
	if !ok {
		t.Fatal("expected dashboardDataMsg")
	}
	if msg.today[health.Water] != 5 {
		t.Fatalf("expected 5 water today, got %v", msg.today[health.Water])
	}
	if msg.today[health.Steps] != 0 {
		t.Fatalf("yesterday's steps leaked into today: %v", msg.today[health.Steps])
	}
	if msg.targets[health.Water] != health.DefaultWaterGoal {
		t.Fatalf("expected default water goal, got %d", msg.targets[health.Water])
	}
	if msg.onboarded {
		t.Fatal("fresh store should not be onboarded")
	}
}

func TestDashboardShowsWelcomeUntilOnboarded(t *testing.T) {
	d := newTestDeps(t)
	dm := newDashboardModel(d.Stats, d.Goals, d.Onboarding, d.Insight)
	dm.setSize(100, 40)
	dm, _ = dm.update(dm.loadData()())

	if !strings.Contains(dm.view(), "Welcome") {
		t.Fatal("welcome panel should be shown before onboarding")
	}

	_, cmd := dm.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should complete onboarding")
	}
	if _, ok := cmd().(onboardingDoneMsg); !ok {
		t.Fatal("expected onboardingDoneMsg")
	}
	if !d.Onboarding.Complete() {
		t.Fatal("onboarding flag should be persisted")
	}

	dm, _ = dm.update(onboardingDoneMsg{})
	if strings.Contains(dm.view(), "Press enter to get started") {
		t.Fatal("welcome panel should be gone")
	}
}

func TestDashboardInsightWithoutKey(t *testing.T) {
	d := newTestDeps(t)
	dm := newDashboardModel(d.Stats, d.Goals, d.Onboarding, d.Insight)

	msg, ok := dm.fetchInsight()().(insightMsg)
	if !ok {
		t.Fatal("expected insightMsg")
	}
	if msg.text != insight.FallbackUnavailable {
		t.Fatalf("unexpected insight %q", msg.text)
	}

	dm, _ = dm.update(msg)
	if dm.insightLoading {
		t.Fatal("loading should clear once the insight arrives")
	}
	if dm.insightText != insight.FallbackUnavailable {
		t.Fatal("insight text not stored")
	}
}

func TestDashboardRefreshIgnoredWhileLoading(t *testing.T) {
	d := newTestDeps(t)
	dm := newDashboardModel(d.Stats, d.Goals, d.Onboarding, d.Insight)
	if !dm.insightLoading {
		t.Fatal("first render should be loading")
	}
	if _, cmd := dm.update(runeKey("r")); cmd != nil {
		t.Fatal("refresh while loading should be a no-op")
	}

	dm.insightLoading = false
	dm, cmd := dm.update(runeKey("r"))
	if cmd == nil || !dm.insightLoading {
		t.Fatal("refresh should start a new request")
	}
}

func TestDashboardStart(t *testing.T) {
	d := newTestDeps(t)
	dm := newDashboardModel(d.Stats, d.Goals, d.Onboarding, d.Insight)
	dm.insightLoading = false
	dm.insightText = "old"

	dm, cmd := dm.start()
	if cmd == nil || !dm.insightLoading || dm.insightText != "" {
		t.Fatal("start should reset the insight and reload")
	}
}

// ============================================================
// Log form
// ============================================================

func TestLogOpenPresetsClock(t *testing.T) {
	d := newTestDeps(t)
	l := newLogModel(d.Records, d.Stats)
	l, _ = l.open(health.Sleep)

	if !l.formActive {
		t.Fatal("form should be active")
	}
	if *l.kind != health.Sleep {
		t.Fatalf("expected preselected sleep, got %s", *l.kind)
	}
	if *l.clock != "15:30" {
		t.Fatalf("expected clock 15:30, got %q", *l.clock)
	}
}

func TestLogSaveValid(t *testing.T) {
	d := newTestDeps(t)
	l := newLogModel(d.Records, d.Stats)
	*l.kind = health.Steps
	*l.amount = "5000"
	*l.clock = "09:15"
	*l.notes = "  morning walk "

	msg, ok := l.save()().(recordSavedMsg)
	if !ok {
		t.Fatal("expected recordSavedMsg")
	}
	if d.Records.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", d.Records.Len())
	}
	rec := msg.record
	if rec.Type != health.Steps || rec.Value != 5000 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.OccurredAt.Hour() != 9 || rec.OccurredAt.Minute() != 15 {
		t.Fatalf("expected 09:15, got %s", rec.OccurredAt.Format("15:04"))
	}
	if rec.Notes != "morning walk" {
		t.Fatalf("notes not trimmed: %q", rec.Notes)
	}
}

func TestLogSaveRejectsInvalidAmount(t *testing.T) {
	d := newTestDeps(t)
	l := newLogModel(d.Records, d.Stats)

	for _, raw := range []string{"-1", "0", "", "abc", "NaN"} {
		*l.amount = raw
		msg, ok := l.save()().(logFailedMsg)
		if !ok {
			t.Fatalf("%q: expected logFailedMsg", raw)
		}
		if got := failureText(msg.err); got != "Please enter a valid amount." {
			t.Fatalf("%q: unexpected message %q", raw, got)
		}
	}
	if d.Records.Len() != 0 {
		t.Fatal("invalid input must not be stored")
	}
}

func TestLogSaveRejectsBadClock(t *testing.T) {
	d := newTestDeps(t)
	l := newLogModel(d.Records, d.Stats)
	*l.amount = "2"
	*l.clock = "25:99"

	if _, ok := l.save()().(logFailedMsg); !ok {
		t.Fatal("expected logFailedMsg")
	}
	if d.Records.Len() != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestLogFailedReopensForm(t *testing.T) {
	d := newTestDeps(t)
	l := newLogModel(d.Records, d.Stats)
	*l.amount = "-1"

	l, _ = l.update(logFailedMsg{err: &health.ValidationError{Field: "value", Msg: "Please enter a valid amount."}})
	if !l.formActive {
		t.Fatal("form should reopen")
	}
	if l.errMsg != "Please enter a valid amount." {
		t.Fatalf("unexpected error %q", l.errMsg)
	}
	if *l.amount != "-1" {
		t.Fatal("entered values should be kept")
	}
}

func TestFailureTextStorageError(t *testing.T) {
	got := failureText(errors.New("disk full"))
	if !strings.Contains(got, "disk full") {
		t.Fatalf("got %q", got)
	}
}

func TestLogEscCancels(t *testing.T) {
	d := newTestDeps(t)
	l := newLogModel(d.Records, d.Stats)
	l, _ = l.open(health.Water)

	l, cmd := l.update(tea.KeyMsg{Type: tea.KeyEsc})
	if l.formActive {
		t.Fatal("esc should close the form")
	}
	if _, ok := cmd().(logCancelledMsg); !ok {
		t.Fatal("expected logCancelledMsg")
	}
}

// ============================================================
// History
// ============================================================

func TestHistoryFilterCycle(t *testing.T) {
	d := newTestDeps(t)
	h := newHistoryModel(d.Stats)

	if h.activeFilter() != "" {
		t.Fatal("default filter should be all")
	}
	for i := 0; i < len(historyFilters); i++ {
		h, _ = h.update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if h.filter != 0 {
		t.Fatalf("full cycle should return to all, got %d", h.filter)
	}
	h, _ = h.update(tea.KeyMsg{Type: tea.KeyLeft})
	if h.activeFilter() != health.Sleep {
		t.Fatalf("left from all should wrap to sleep, got %q", h.activeFilter())
	}
	h, _ = h.update(runeKey("f"))
	if h.activeFilter() != "" {
		t.Fatal("f should advance the filter")
	}
}

func TestHistoryChartType(t *testing.T) {
	d := newTestDeps(t)
	h := newHistoryModel(d.Stats)
	if h.chartType() != health.Steps {
		t.Fatal("all should chart steps")
	}
	h.filter = 1
	if h.chartType() != health.Water {
		t.Fatal("water filter should chart water")
	}
}

func TestHistoryLines(t *testing.T) {
	d := newTestDeps(t)
	first := mustAppend(t, d, health.Water, "1", fixedNow.Add(-3*time.Hour))
	second := mustAppend(t, d, health.Steps, "800", fixedNow.Add(-2*time.Hour))
	mustAppend(t, d, health.Sleep, "7", fixedNow.AddDate(0, 0, -1))
	mustAppend(t, d, health.Water, "9", fixedNow.AddDate(0, 0, -8))

	h := newHistoryModel(d.Stats)
	h.setSize(100, 40)
	h, _ = h.update(h.refresh()())

	lines := h.lines()
	// Today header, 2 records, Yesterday header, 1 record.
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "Today") || !strings.Contains(lines[3], "Yesterday") {
		t.Fatalf("unexpected headers: %q / %q", lines[0], lines[3])
	}
	// Newer identifiers come first within a day.
	if !strings.Contains(lines[1], "800") || !strings.Contains(lines[2], "1 glasses") {
		t.Fatalf("unexpected order: %q, %q (ids %s, %s)", lines[1], lines[2], second.ID, first.ID)
	}

	h.filter = 3 // sleep
	lines = h.lines()
	if len(lines) != 2 || !strings.Contains(lines[0], "Yesterday") {
		t.Fatalf("sleep filter: %v", lines)
	}
}

func TestHistoryEmptyView(t *testing.T) {
	d := newTestDeps(t)
	h := newHistoryModel(d.Stats)
	h.setSize(100, 40)
	h, _ = h.update(h.refresh()())

	if !strings.Contains(h.view(), "No activities in the last 7 days") {
		t.Fatal("empty history should say so")
	}
	if len(h.week) != health.HistoryWindowDays {
		t.Fatalf("expected %d chart days, got %d", health.HistoryWindowDays, len(h.week))
	}
}

func TestHistoryScrollBounds(t *testing.T) {
	d := newTestDeps(t)
	mustAppend(t, d, health.Water, "1", fixedNow)
	h := newHistoryModel(d.Stats)
	h, _ = h.update(h.refresh()())

	h, _ = h.update(tea.KeyMsg{Type: tea.KeyUp})
	if h.offset != 0 {
		t.Fatal("offset should not go negative")
	}
	for i := 0; i < 10; i++ {
		h, _ = h.update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if h.offset != len(h.lines())-1 {
		t.Fatalf("offset should stop at last line, got %d", h.offset)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSaveGoal(t *testing.T) {
	d := newTestDeps(t)
	s := newSettingsModel(d.Goals, d.Slots)

	msg, ok := s.saveGoal(" 12 ")().(goalSavedMsg)
	if !ok {
		t.Fatal("expected goalSavedMsg")
	}
	if msg.goal != 12 || d.Goals.WaterGoal() != 12 {
		t.Fatalf("goal not saved: msg=%d store=%d", msg.goal, d.Goals.WaterGoal())
	}
}

func TestSettingsSaveGoalRejectsInvalid(t *testing.T) {
	d := newTestDeps(t)
	s := newSettingsModel(d.Goals, d.Slots)

	for _, raw := range []string{"0", "-3", "2.5", "lots"} {
		msg, ok := s.saveGoal(raw)().(statusMsg)
		if !ok || !msg.isError {
			t.Fatalf("%q: expected error status", raw)
		}
	}
	if d.Goals.WaterGoal() != health.DefaultWaterGoal {
		t.Fatal("invalid goals must not be stored")
	}
}

func TestSettingsShowFormUsesCurrentGoal(t *testing.T) {
	d := newTestDeps(t)
	d.Goals.SetWaterGoal(10)
	s := newSettingsModel(d.Goals, d.Slots)

	s, _ = s.showForm()
	if !s.formActive {
		t.Fatal("form should be active")
	}
	if *s.goalInput != "10" {
		t.Fatalf("expected 10, got %q", *s.goalInput)
	}

	s, _ = s.update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestSettingsRefresh(t *testing.T) {
	d := newTestDeps(t)
	d.Goals.SetWaterGoal(6)
	s := newSettingsModel(d.Goals, d.Slots)
	s, _ = s.update(s.refresh()())
	if s.waterGoal != 6 {
		t.Fatalf("expected 6, got %d", s.waterGoal)
	}
}

func TestSettingsRefreshListsSlots(t *testing.T) {
	d := newTestDeps(t)
	if err := d.Goals.SetWaterGoal(9); err != nil {
		t.Fatal(err)
	}
	s := newSettingsModel(d.Goals, d.Slots)
	s.setSize(100, 40)
	s, _ = s.update(s.refresh()())

	if s.slotsErr != nil {
		t.Fatalf("list slots: %v", s.slotsErr)
	}
	var found bool
	for _, sl := range s.slots {
		if sl.Key == health.WaterGoalKey {
			found = sl.Value == "9"
		}
	}
	if !found {
		t.Fatalf("water goal slot missing from %+v", s.slots)
	}
	view := s.view()
	if !strings.Contains(view, "Storage") || !strings.Contains(view, health.WaterGoalKey) {
		t.Fatalf("storage section missing:\n%s", view)
	}
}

func TestSettingsWithoutListerHidesStorage(t *testing.T) {
	d := newTestDeps(t)
	s := newSettingsModel(d.Goals, nil)
	s.setSize(100, 40)
	s, _ = s.update(s.refresh()())
	if strings.Contains(s.view(), "Storage") {
		t.Fatal("storage section should be hidden without a lister")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewAppWithoutSession(t *testing.T) {
	d := newTestDeps(t)
	app := NewApp(d)

	if app.user != nil {
		t.Fatal("no session should mean no user")
	}
	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("overlays should be hidden by default")
	}

	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if !strings.Contains(m.View(), "Sign in") {
		t.Fatal("signed-out app should show the login form")
	}
}

func TestNewAppRestoresSession(t *testing.T) {
	d := newTestDeps(t)
	u := signIn(t, d)

	app := NewApp(d)
	if app.user == nil || app.user.Email != u.Email {
		t.Fatal("existing session should be restored")
	}
	if app.dashboard.user == nil || app.settings.user == nil {
		t.Fatal("user should be shared with child views")
	}
}

func TestAppAuthDone(t *testing.T) {
	d := newTestDeps(t)
	app := NewApp(d)

	m, cmd := app.Update(authDoneMsg{user: &session.User{Email: "ada@example.com", Name: "Ada"}})
	app = m.(App)
	if app.user == nil || app.user.Name != "Ada" {
		t.Fatal("user should be set")
	}
	if cmd == nil {
		t.Fatal("dashboard should start loading")
	}
	if !strings.Contains(app.status, "ada@example.com") {
		t.Fatalf("unexpected status %q", app.status)
	}
}

func TestAppAuthFailed(t *testing.T) {
	d := newTestDeps(t)
	app := NewApp(d)

	m, _ := app.Update(authDoneMsg{err: session.ErrInvalidCredentials})
	app = m.(App)
	if app.user != nil {
		t.Fatal("failed auth must not sign in")
	}
	if app.login.errMsg != session.Message(session.ErrInvalidCredentials) {
		t.Fatalf("unexpected login error %q", app.login.errMsg)
	}
}

func TestAppLogout(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)

	msg := app.logout()()
	if _, ok := msg.(loggedOutMsg); !ok {
		t.Fatalf("expected loggedOutMsg, got %T", msg)
	}
	if d.Session.Current() != nil {
		t.Fatal("session slot should be cleared")
	}

	m, _ := app.Update(msg)
	app = m.(App)
	if app.user != nil || app.dashboard.user != nil {
		t.Fatal("user should be cleared")
	}
}

func TestAppTabOpensLogForm(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewLog {
		t.Fatalf("expected log view, got %d", app.activeView)
	}
	if !app.isFormActive() {
		t.Fatal("log view should capture input")
	}
}

func TestAppGoalKeyOpensSettingsForm(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)

	m, _ := app.Update(runeKey("g"))
	app = m.(App)
	if app.activeView != viewSettings || !app.settings.formActive {
		t.Fatal("g should open the water goal form")
	}
}

func TestAppRecordSaved(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)
	app.activeView = viewLog

	rec := health.ActivityRecord{ID: "x", Type: health.Water, Value: 2, OccurredAt: fixedNow}
	m, cmd := app.Update(recordSavedMsg{record: rec})
	app = m.(App)
	if app.activeView != viewDashboard {
		t.Fatal("saving should return to the dashboard")
	}
	if app.status != "Logged 2 glasses of Water" {
		t.Fatalf("unexpected status %q", app.status)
	}
	if cmd == nil {
		t.Fatal("views should reload")
	}
}

func TestAppGoalSaved(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)

	m, _ := app.Update(goalSavedMsg{goal: 11})
	app = m.(App)
	if app.settings.waterGoal != 11 {
		t.Fatal("settings should pick up the new goal")
	}
}

func TestAppExportCSV(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	mustAppend(t, d, health.Water, "2", fixedNow)
	app := NewApp(d)

	msg, ok := app.doExport(0)().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	want := filepath.Join(d.ExportDir, "mediorg-export-2025-03-10.csv")
	if msg.path != want {
		t.Fatalf("expected %s, got %s", want, msg.path)
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "WATER") {
		t.Fatal("export should contain the record")
	}
}

func TestAppExportJSON(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)

	msg, ok := app.doExport(1)().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	if filepath.Ext(msg.path) != ".json" {
		t.Fatalf("unexpected path %s", msg.path)
	}
}

func TestAppExportPicker(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)

	m, _ := app.Update(runeKey("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = m.(App)
	if app.exportCursor != 1 {
		t.Fatal("cursor should move to JSON")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = m.(App)
	if app.exportCursor != 1 {
		t.Fatal("cursor should stop at the last format")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = m.(App)
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	d := newTestDeps(t)
	app := NewApp(d)
	if app.View() != "Loading..." {
		t.Fatal("zero-size app should show loading")
	}
}

func TestAppStatusMessage(t *testing.T) {
	d := newTestDeps(t)
	signIn(t, d)
	app := NewApp(d)
	app.width = 120
	app.height = 40

	m, _ := app.Update(statusMsg{text: "Something broke", isError: true})
	app = m.(App)
	if !app.statusErr {
		t.Fatal("error flag should be kept")
	}
	if !strings.Contains(app.renderFooter(), "Something broke") {
		t.Fatal("footer should show the status")
	}
}

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should not be empty")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should not be empty")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("help group %d is empty", i)
		}
	}
}

func TestTypeStyling(t *testing.T) {
	for _, typ := range health.Types {
		if typeIcon(typ) == "•" {
			t.Fatalf("%s has no icon", typ)
		}
		if typeColor(typ) == colorMuted {
			t.Fatalf("%s has no color", typ)
		}
	}
	if typeIcon("OTHER") != "•" {
		t.Fatal("unknown types fall back to a bullet")
	}
}
