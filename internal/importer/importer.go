// Package importer loads applications and date notes exported from the
// browser tracker into the local stores.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/jtrack/internal/datecalc"
	"github.com/Tiliavir/jtrack/internal/model"
	"github.com/Tiliavir/jtrack/internal/storage"
)

// Result holds counters for an import run.
type Result struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// Options configures an import run.
type Options struct {
	DryRun         bool
	NormalizeDates bool
	Loc            *time.Location
	Out            io.Writer
}

// Payload is the decoded content of an export file.
type Payload struct {
	Applications []model.Application
	Notes        []model.DateNote
}

// browserDump is a raw localStorage dump, where each value may itself be a
// JSON-encoded string.
type browserDump struct {
	Applications json.RawMessage `json:"jobtracker_applications"`
	Notes        json.RawMessage `json:"jobtracker_date_notes"`
	Apps         json.RawMessage `json:"applications"`
	DateNotes    json.RawMessage `json:"dateNotes"`
}

// Decode accepts either a bare JSON array of applications or an object with
// applications and date notes, keyed by storage name or plain name.
func Decode(data []byte) (Payload, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Payload{}, fmt.Errorf("empty import data")
	}

	var p Payload
	if data[0] == '[' {
		if err := json.Unmarshal(data, &p.Applications); err != nil {
			return Payload{}, fmt.Errorf("decoding applications: %w", err)
		}
		return p, nil
	}

	var dump browserDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return Payload{}, fmt.Errorf("decoding import file: %w", err)
	}
	if err := decodeValue(firstNonEmpty(dump.Applications, dump.Apps), &p.Applications); err != nil {
		return Payload{}, fmt.Errorf("decoding applications: %w", err)
	}
	if err := decodeValue(firstNonEmpty(dump.Notes, dump.DateNotes), &p.Notes); err != nil {
		return Payload{}, fmt.Errorf("decoding date notes: %w", err)
	}
	return p, nil
}

func firstNonEmpty(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}

// decodeValue unmarshals raw into v, unwrapping one level of string encoding.
func decodeValue(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return err
		}
		raw = json.RawMessage(inner)
	}
	return json.Unmarshal(raw, v)
}

// Run merges p into the stores and prints one line per record to opts.Out.
// Applications are matched by id: existing ids are skipped and records
// without one get a fresh id. Notes are matched by date and overwritten when
// their content differs.
func Run(apps *storage.Applications, notes *storage.DateNotes, p Payload, opts Options) (Result, error) {
	var result Result
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	// seen holds ids taken earlier in this payload, so a dry run counts
	// repeats the way a real run does.
	seen := make(map[string]bool)
	for _, app := range p.Applications {
		label := app.CompanyName + " / " + app.Role
		if !app.Status.Valid() {
			fmt.Fprintf(out, "  ! Error importing %q: invalid status %q\n", label, app.Status)
			result.Errors++
			continue
		}
		if app.ID == "" {
			app.ID = uuid.NewString()
		} else if _, err := apps.Get(app.ID); err == nil || seen[app.ID] {
			fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", label)
			result.Skipped++
			continue
		}
		if opts.NormalizeDates {
			app.DateApplied = datecalc.Normalize(app.DateApplied, opts.Loc)
		}

		if !opts.DryRun {
			if err := apps.Add(app); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", label, err)
				result.Errors++
				continue
			}
		}
		seen[app.ID] = true
		fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", label, app.DateApplied)
		result.Imported++
	}

	// staged holds notes accepted earlier in this payload.
	staged := make(map[string]model.DateNote)
	for _, note := range p.Notes {
		if _, err := time.Parse(datecalc.ISOLayout, note.Date); err != nil {
			fmt.Fprintf(out, "  ! Error importing note %q: want YYYY-MM-DD\n", note.Date)
			result.Errors++
			continue
		}
		if note.Applications == nil {
			note.Applications = []string{}
		}
		existing, found := staged[note.Date]
		if !found {
			existing, found = notes.GetByDate(note.Date)
		}
		if found && sameNote(existing, note) {
			fmt.Fprintf(out, "  – Skipped:  note %s (unchanged)\n", note.Date)
			result.Skipped++
			continue
		}
		if !opts.DryRun {
			if err := notes.Save(note); err != nil {
				fmt.Fprintf(out, "  ! Error saving note %s: %v\n", note.Date, err)
				result.Errors++
				continue
			}
		}
		staged[note.Date] = note
		if found {
			fmt.Fprintf(out, "  ↑ Updated:  note %s\n", note.Date)
			result.Updated++
			continue
		}
		fmt.Fprintf(out, "  ✓ Imported: note %s\n", note.Date)
		result.Imported++
	}

	return result, nil
}

func sameNote(a, b model.DateNote) bool {
	if a.Applications == nil {
		a.Applications = []string{}
	}
	return reflect.DeepEqual(a, b)
}
