package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"vaultpass/internal/client/models"
	"vaultpass/internal/client/services"
	"vaultpass/internal/client/session"
	"vaultpass/internal/client/tokenstore"
	"vaultpass/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestSession(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(tokenstore.NewMemoryStore(), discardLogger())
}

type fakeEntryService struct {
	listPage     int
	listPageSize int
	listOut      *models.EntryPage
	listErr      error

	getID  string
	getOut *models.Entry

	addIn  models.EntryCreate
	addOut *models.Entry
	addErr error

	updID string
	updIn models.EntryUpdate

	delID string

	revealID  string
	revealOut *models.EntryReveal

	searchWebsiteQuery string
	searchEmailQuery   string
	searchOut          *models.EntryPage

	genOpts models.GeneratorOptions
	genOut  *models.GeneratedPassword
}

func (f *fakeEntryService) List(_ context.Context, page, pageSize int) (*models.EntryPage, error) {
	f.listPage, f.listPageSize = page, pageSize
	return f.listOut, f.listErr
}

func (f *fakeEntryService) Get(_ context.Context, entryID string) (*models.Entry, error) {
	f.getID = entryID
	return f.getOut, nil
}

func (f *fakeEntryService) Add(_ context.Context, in models.EntryCreate) (*models.Entry, error) {
	f.addIn = in
	return f.addOut, f.addErr
}

func (f *fakeEntryService) Update(_ context.Context, entryID string, in models.EntryUpdate) (*models.Entry, error) {
	f.updID, f.updIn = entryID, in
	return &models.Entry{EntryID: entryID}, nil
}

func (f *fakeEntryService) Delete(_ context.Context, entryID string) error {
	f.delID = entryID
	return nil
}

func (f *fakeEntryService) Reveal(_ context.Context, entryID string) (*models.EntryReveal, error) {
	f.revealID = entryID
	return f.revealOut, nil
}

func (f *fakeEntryService) SearchByWebsite(_ context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	f.searchWebsiteQuery = query
	return f.searchOut, nil
}

func (f *fakeEntryService) SearchByEmail(_ context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	f.searchEmailQuery = query
	return f.searchOut, nil
}

func (f *fakeEntryService) GeneratePassword(_ context.Context, opts models.GeneratorOptions) (*models.GeneratedPassword, error) {
	f.genOpts = opts
	return f.genOut, nil
}

var _ services.EntryService = (*fakeEntryService)(nil)

func newEntryApp(f *fakeEntryService) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{entries: f, out: &out}, &out
}

func testPage() *models.EntryPage {
	return &models.EntryPage{
		Entries: []models.Entry{
			{
				EntryID:     "e-1",
				WebsiteName: "GitHub",
				Login:       "alice@example.org",
				UpdatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		Total: 1, Page: 1, PageSize: 20, TotalPages: 1,
	}
}

func TestListCommand(t *testing.T) {
	f := &fakeEntryService{listOut: testPage()}
	a, out := newEntryApp(f)

	stubInputs(t, []string{"2"}, nil)

	if err := a.List(context.Background()); err != nil {
		t.Fatalf("List err: %v", err)
	}
	if f.listPage != 2 || f.listPageSize != defaultPageSize {
		t.Fatalf("paging args: %d %d", f.listPage, f.listPageSize)
	}
	got := out.String()
	for _, want := range []string{"e-1", "GitHub", "alice@example.org", "Page 1 of 1 (1 total)"} {
		if !bytes.Contains([]byte(got), []byte(want)) {
			t.Fatalf("missing %q in output: %q", want, got)
		}
	}
}

func TestListCommand_DefaultsToFirstPage(t *testing.T) {
	f := &fakeEntryService{listOut: &models.EntryPage{Page: 1, TotalPages: 1}}
	a, out := newEntryApp(f)

	stubInputs(t, []string{""}, nil)

	if err := a.List(context.Background()); err != nil {
		t.Fatalf("List err: %v", err)
	}
	if f.listPage != 1 {
		t.Fatalf("page: %d", f.listPage)
	}
	if !bytes.Contains(out.Bytes(), []byte("No entries found.")) {
		t.Fatalf("empty-page message missing: %q", out.String())
	}
}

func TestListCommand_InvalidPage(t *testing.T) {
	f := &fakeEntryService{}
	a, _ := newEntryApp(f)

	stubInputs(t, []string{"zero"}, nil)

	if err := a.List(context.Background()); err == nil {
		t.Fatal("want error for invalid page")
	}
	if f.listPage != 0 {
		t.Fatal("service should not be called")
	}
}

func TestAddCommand(t *testing.T) {
	f := &fakeEntryService{addOut: &models.Entry{EntryID: "e-9", WebsiteName: "GitHub"}}
	a, out := newEntryApp(f)

	stubInputs(t, []string{"GitHub", "https://github.com", "alice@example.org", "note"}, []byte("pw"))

	if err := a.Add(context.Background()); err != nil {
		t.Fatalf("Add err: %v", err)
	}
	if f.addIn.WebsiteName != "GitHub" || f.addIn.Login != "alice@example.org" || f.addIn.Password != "pw" {
		t.Fatalf("add args: %+v", f.addIn)
	}
	if !bytes.Contains(out.Bytes(), []byte("e-9")) {
		t.Fatalf("created id missing: %q", out.String())
	}
}

func TestEditCommand_OnlyChangedFields(t *testing.T) {
	f := &fakeEntryService{}
	a, _ := newEntryApp(f)

	// name changes, everything else kept
	stubInputs(t, []string{"e-1", "NewName", "", "", ""}, nil)

	if err := a.Edit(context.Background()); err != nil {
		t.Fatalf("Edit err: %v", err)
	}
	if f.updID != "e-1" {
		t.Fatalf("entry id: %q", f.updID)
	}
	if f.updIn.WebsiteName == nil || *f.updIn.WebsiteName != "NewName" {
		t.Fatalf("website name not set: %+v", f.updIn)
	}
	if f.updIn.WebsiteURL != nil || f.updIn.Login != nil || f.updIn.Password != nil || f.updIn.Notes != nil {
		t.Fatalf("unchanged fields must stay nil: %+v", f.updIn)
	}
}

func TestDeleteCommand_Confirmed(t *testing.T) {
	f := &fakeEntryService{}
	a, out := newEntryApp(f)

	stubInputs(t, []string{"e-1", "y"}, nil)

	if err := a.Delete(context.Background()); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if f.delID != "e-1" {
		t.Fatalf("delete id: %q", f.delID)
	}
	if !bytes.Contains(out.Bytes(), []byte("Entry deleted.")) {
		t.Fatalf("output: %q", out.String())
	}
}

func TestDeleteCommand_Cancelled(t *testing.T) {
	f := &fakeEntryService{}
	a, out := newEntryApp(f)

	stubInputs(t, []string{"e-1", ""}, nil)

	if err := a.Delete(context.Background()); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if f.delID != "" {
		t.Fatal("service should not be called")
	}
	if !bytes.Contains(out.Bytes(), []byte("Cancelled.")) {
		t.Fatalf("output: %q", out.String())
	}
}

func TestRevealCommand(t *testing.T) {
	f := &fakeEntryService{revealOut: &models.EntryReveal{
		EntryID:     "e-1",
		WebsiteName: "GitHub",
		Login:       "alice@example.org",
		Password:    "plain-pw",
	}}
	a, out := newEntryApp(f)

	stubInputs(t, []string{"e-1"}, nil)

	if err := a.Reveal(context.Background()); err != nil {
		t.Fatalf("Reveal err: %v", err)
	}
	if f.revealID != "e-1" {
		t.Fatalf("reveal id: %q", f.revealID)
	}
	if !bytes.Contains(out.Bytes(), []byte("Password: plain-pw")) {
		t.Fatalf("password missing: %q", out.String())
	}
}

func TestSearchCommand(t *testing.T) {
	f := &fakeEntryService{searchOut: testPage()}
	a, _ := newEntryApp(f)

	stubInputs(t, []string{"website", "git"}, nil)
	if err := a.Search(context.Background()); err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if f.searchWebsiteQuery != "git" {
		t.Fatalf("website query: %q", f.searchWebsiteQuery)
	}

	stubInputs(t, []string{"email", "alice"}, nil)
	if err := a.Search(context.Background()); err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if f.searchEmailQuery != "alice" {
		t.Fatalf("email query: %q", f.searchEmailQuery)
	}

	stubInputs(t, []string{"phone", "x"}, nil)
	if err := a.Search(context.Background()); err == nil {
		t.Fatal("want error for unknown field")
	}
}

func TestGeneratePasswordCommand(t *testing.T) {
	f := &fakeEntryService{genOut: &models.GeneratedPassword{Password: "Xy9!", Length: 4, Strength: "weak"}}
	a, out := newEntryApp(f)

	stubInputs(t, []string{"4"}, nil)

	if err := a.GeneratePassword(context.Background()); err != nil {
		t.Fatalf("GeneratePassword err: %v", err)
	}
	if f.genOpts.Length != 4 {
		t.Fatalf("length: %d", f.genOpts.Length)
	}
	if !bytes.Contains(out.Bytes(), []byte("Password: Xy9!")) {
		t.Fatalf("output: %q", out.String())
	}
}
