package days

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/events"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage/storagetest"
)

func setupTestContext(t *testing.T) (*cli.Context, *storagetest.Store, *bytes.Buffer) {
	t.Helper()
	store := storagetest.New()
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		Clock:     calendar.FixedClock{T: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		Publisher: &events.Recorder{},
		Out:       out,
	}
	return ctx, store, out
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[int]string
		wantErr bool
	}{
		{"single", []string{"9=standup"}, map[int]string{9: "standup"}, false},
		{"text with equals", []string{"10=a=b"}, map[int]string{10: "a=b"}, false},
		{"blank text kept", []string{"11="}, map[int]string{11: ""}, false},
		{"last wins", []string{"9=one", "9=two"}, map[int]string{9: "two"}, false},
		{"missing separator", []string{"9 standup"}, nil, true},
		{"bad hour", []string{"nine=standup"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntries(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEntries() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseEntries() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("entry %d = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestDayView(t *testing.T) {
	ctx, _, out := setupTestContext(t)
	p := ctx.Planner()
	today := ctx.Today()

	if _, err := p.AddTask(ctx.Ctx(), ctx.Owner(), "Write report", "", today); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddHourlyTask(ctx.Ctx(), ctx.Owner(), today, 15, "Deep work"); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Habits().Create(ctx.Ctx(), ctx.Owner(), "Stretch", today); err != nil {
		t.Fatal(err)
	}
	if err := (&ReflectJournalCmd{Content: "Good focus today"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&DayCmd{}).Run(ctx); err != nil {
		t.Fatalf("day failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Wednesday, 2024-01-10", "0/1", "Write report", "3–4 PM", "Deep work", "Stretch", "Day 1 / 21", "Good focus today"} {
		if !strings.Contains(got, want) {
			t.Errorf("day output missing %q:\n%s", want, got)
		}
	}
}

func TestDayStoreFailure(t *testing.T) {
	ctx, store, _ := setupTestContext(t)
	store.SetErr(errors.New("db down"))

	if err := (&DayCmd{}).Run(ctx); err == nil {
		t.Error("expected day to fail when the store fails")
	}
}

func TestReflectHourly(t *testing.T) {
	ctx, store, out := setupTestContext(t)

	cmd := &ReflectHourlyCmd{Entries: []string{"9=standup ran long", "10=  ", "14=shipped"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("reflect hourly failed: %v", err)
	}
	if !strings.Contains(out.String(), "Saved 2 hourly") || !strings.Contains(out.String(), "Skipped 1") {
		t.Errorf("reflect output = %q", out.String())
	}

	today := ctx.Today()
	rows, _ := store.ListHourlyJournals(ctx.Ctx(), ctx.Owner(), calendar.CustomWindow(today, today))
	if len(rows) != 2 {
		t.Errorf("stored %d hourly reflections, want 2", len(rows))
	}

	out.Reset()
	if err := (&DayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "shipped") {
		t.Errorf("day output should show hourly reflection:\n%s", out.String())
	}

	err := (&ReflectHourlyCmd{Entries: []string{"9=ok", "25=bad"}}).Run(ctx)
	if !errors.Is(err, models.ErrInvalidHour) {
		t.Errorf("invalid hour error = %v", err)
	}
}
