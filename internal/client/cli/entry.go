package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"vaultpass/internal/client/models"
	"vaultpass/internal/common"
)

const defaultPageSize = 20

// List prints a page of stored entries. An optional page number is prompted
// for; empty input means the first page.
func (a *App) List(ctx context.Context) error {
	page, err := a.promptPage()
	if err != nil {
		return err
	}

	res, err := a.entries.List(ctx, page, defaultPageSize)
	if err != nil {
		return err
	}

	a.printEntryPage(res)
	return nil
}

// Show prints the metadata of a single entry. The password is not included;
// use Reveal for that.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id", a.out)
	if err != nil {
		return err
	}

	e, err := a.entries.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Website:  %s\n", e.WebsiteName)
	if e.WebsiteURL != "" {
		fmt.Fprintf(a.out, "URL:      %s\n", e.WebsiteURL)
	}
	fmt.Fprintf(a.out, "Login:    %s\n", e.Login)
	if e.Notes != "" {
		fmt.Fprintf(a.out, "Notes:    %s\n", e.Notes)
	}
	if e.PasswordStrength != "" {
		fmt.Fprintf(a.out, "Strength: %s\n", e.PasswordStrength)
	}
	fmt.Fprintf(a.out, "Updated:  %s\n", e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Reveal fetches and prints an entry's plaintext password.
func (a *App) Reveal(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id", a.out)
	if err != nil {
		return err
	}

	r, err := a.entries.Reveal(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Website:  %s\n", r.WebsiteName)
	fmt.Fprintf(a.out, "Login:    %s\n", r.Login)
	fmt.Fprintf(a.out, "Password: %s\n", r.Password)
	return nil
}

// Add prompts for the fields of a new entry and creates it.
func (a *App) Add(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter website name", a.out)
	if err != nil {
		return err
	}

	rawURL, err := getSimpleText(a.reader, "Enter website URL (optional)", a.out)
	if err != nil {
		return err
	}

	login, err := getSimpleText(a.reader, "Enter login email or username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	notes, err := getSimpleText(a.reader, "Enter notes (optional)", a.out)
	if err != nil {
		return err
	}

	e, err := a.entries.Add(ctx, models.EntryCreate{
		WebsiteName: name,
		WebsiteURL:  rawURL,
		Login:       login,
		Password:    string(password),
		Notes:       notes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Entry %s created (id %s).\n", e.WebsiteName, e.EntryID)
	return nil
}

// Edit prompts for replacement values for an existing entry. Empty input
// leaves the corresponding field unchanged.
func (a *App) Edit(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id", a.out)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Leave a field empty to keep its current value.")

	var upd models.EntryUpdate

	name, err := getSimpleText(a.reader, "New website name", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		upd.WebsiteName = &name
	}

	rawURL, err := getSimpleText(a.reader, "New website URL", a.out)
	if err != nil {
		return err
	}
	if rawURL != "" {
		upd.WebsiteURL = &rawURL
	}

	login, err := getSimpleText(a.reader, "New login email or username", a.out)
	if err != nil {
		return err
	}
	if login != "" {
		upd.Login = &login
	}

	password, err := getPassword("New password (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) > 0 {
		pw := string(password)
		upd.Password = &pw
	}

	notes, err := getSimpleText(a.reader, "New notes", a.out)
	if err != nil {
		return err
	}
	if notes != "" {
		upd.Notes = &notes
	}

	e, err := a.entries.Update(ctx, id, upd)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Entry %s updated.\n", e.EntryID)
	return nil
}

// Delete removes an entry after an explicit confirmation.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id", a.out)
	if err != nil {
		return err
	}

	confirm, err := getSimpleText(a.reader, "Delete this entry? (y/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "y") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.entries.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Entry deleted.")
	return nil
}

// Search looks up entries by website name or by login email.
func (a *App) Search(ctx context.Context) error {
	field, err := getSimpleText(a.reader, "Search by (website/email)", a.out)
	if err != nil {
		return err
	}

	query, err := getSimpleText(a.reader, "Enter query", a.out)
	if err != nil {
		return err
	}

	var res *models.EntryPage
	switch strings.ToLower(field) {
	case "", "website":
		res, err = a.entries.SearchByWebsite(ctx, query, 1, defaultPageSize)
	case "email":
		res, err = a.entries.SearchByEmail(ctx, query, 1, defaultPageSize)
	default:
		return fmt.Errorf("unknown search field %q, expected website or email", field)
	}
	if err != nil {
		return err
	}

	a.printEntryPage(res)
	return nil
}

// GeneratePassword asks the server to generate a password. The length is
// prompted for; empty input uses the server default.
func (a *App) GeneratePassword(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Enter desired length (empty for default)", a.out)
	if err != nil {
		return err
	}

	var opts models.GeneratorOptions
	if raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return fmt.Errorf("invalid length %q", raw)
		}
		opts.Length = n
	}

	res, err := a.entries.GeneratePassword(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Password: %s\n", res.Password)
	fmt.Fprintf(a.out, "Strength: %s\n", res.Strength)
	return nil
}

func (a *App) promptPage() (int, error) {
	raw, err := getSimpleText(a.reader, "Enter page (empty for first)", a.out)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return n, nil
}

func (a *App) printEntryPage(p *models.EntryPage) {
	if len(p.Entries) == 0 {
		fmt.Fprintln(a.out, "No entries found.")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWEBSITE\tLOGIN\tUPDATED")
	for _, e := range p.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.EntryID, e.WebsiteName, e.Login, e.UpdatedAt.Local().Format("2006-01-02"))
	}
	tw.Flush()

	fmt.Fprintf(a.out, "Page %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
}
