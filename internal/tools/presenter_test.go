package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/affanstats/Product-Presenter/internal/catalog"
	"github.com/affanstats/Product-Presenter/internal/config"
	"github.com/affanstats/Product-Presenter/internal/domain"
	"github.com/affanstats/Product-Presenter/internal/interaction"
	"github.com/affanstats/Product-Presenter/internal/journal"
	"github.com/affanstats/Product-Presenter/internal/mailer"
)

func newPresenterFixture(t *testing.T) (*Registry, *interaction.Log, string) {
	t.Helper()

	waitlistPath := filepath.Join(t.TempDir(), "waitlist.json")
	waitlist, err := journal.New(journal.Config{Path: waitlistPath, QueueSize: 8}, nil)
	if err != nil {
		t.Fatalf("create waitlist journal: %v", err)
	}
	t.Cleanup(func() { _ = waitlist.Close() })

	log := interaction.NewLog()
	registry, err := NewPresenterRegistry(Deps{
		Log:      log,
		Waitlist: waitlist,
		Mailer:   mailer.New(config.MailConfig{}, nil), // no host: dev mode
	})
	if err != nil {
		t.Fatalf("NewPresenterRegistry failed: %v", err)
	}
	return registry, log, waitlistPath
}

func TestLogUserSentimentTool(t *testing.T) {
	registry, log, _ := newPresenterFixture(t)

	got := registry.Dispatch(context.Background(), "log_user_sentiment", json.RawMessage(`{"sentiment": "positive"}`))
	if got != "Sentiment set to positive" {
		t.Fatalf("unexpected status: %q", got)
	}
	if log.Record().UserSentiment != interaction.SentimentPositive {
		t.Fatal("sentiment not recorded")
	}
}

func TestLogUserSentimentRejectsUnknownValue(t *testing.T) {
	registry, log, _ := newPresenterFixture(t)

	got := registry.Dispatch(context.Background(), "log_user_sentiment", json.RawMessage(`{"sentiment": "furious"}`))
	if !strings.Contains(got, "Invalid arguments") {
		t.Fatalf("expected schema rejection, got %q", got)
	}
	if log.Record().UserSentiment != "" {
		t.Fatal("invalid sentiment must not be stored")
	}
}

func TestLogConversionInterestTool(t *testing.T) {
	registry, log, _ := newPresenterFixture(t)

	got := registry.Dispatch(context.Background(), "log_conversion_interest", nil)
	if got != "Conversion interest logged." {
		t.Fatalf("unexpected status: %q", got)
	}
	if !log.Record().ConversionTriggered {
		t.Fatal("conversion flag not set")
	}
}

func TestLogKeyQuestionsTool(t *testing.T) {
	registry, log, _ := newPresenterFixture(t)

	registry.Dispatch(context.Background(), "log_key_questions", json.RawMessage(`{"question": "is it waterproof?"}`))

	rec := log.Record()
	if len(rec.KeyQuestionsAsked) != 1 || rec.KeyQuestionsAsked[0] != "is it waterproof?" {
		t.Fatalf("unexpected questions: %v", rec.KeyQuestionsAsked)
	}
}

func TestWaitlistToolAppendsWithoutDeduplication(t *testing.T) {
	registry, _, waitlistPath := newPresenterFixture(t)

	args := json.RawMessage(`{"email": "a@b.com", "product_id": "P1"}`)
	for i := 0; i < 2; i++ {
		got := registry.Dispatch(context.Background(), "add_to_product_waitlist", args)
		want := "Successfully added a@b.com to the waitlist for product P1."
		if got != want {
			t.Fatalf("unexpected status: %q", got)
		}
	}

	data, err := os.ReadFile(waitlistPath)
	if err != nil {
		t.Fatalf("read waitlist file: %v", err)
	}
	var entries []domain.WaitlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unmarshal waitlist: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (no dedup), got %d", len(entries))
	}
	if entries[1].Email != "a@b.com" || entries[1].ProductID != "P1" {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
}

func TestSendMailToolInDevMode(t *testing.T) {
	registry, _, _ := newPresenterFixture(t)

	got := registry.Dispatch(context.Background(), "send_mail",
		json.RawMessage(`{"recipient": "a@b.com", "subject": "hi", "body": "hello"}`))
	if got != "Email sent successfully." {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestSendMailToolRequiresAllFields(t *testing.T) {
	registry, _, _ := newPresenterFixture(t)

	got := registry.Dispatch(context.Background(), "send_mail", json.RawMessage(`{"recipient": "a@b.com"}`))
	if !strings.Contains(got, "missing required field") {
		t.Fatalf("expected missing-field status, got %q", got)
	}
}

func TestLookupProductInfoSwitchesContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/P2") {
			_, _ = w.Write([]byte(`{"productId": "P2", "productName": "Gadget", "description": "Shiny.", "price": 25, "currency": "EUR"}`))
			return
		}
		_, _ = w.Write([]byte(`{"error": "No products found!"}`))
	}))
	t.Cleanup(srv.Close)

	log := interaction.NewLog()
	var resolved *domain.ProductRecord
	registry, err := NewPresenterRegistry(Deps{
		Log:     log,
		Catalog: catalog.NewClient(srv.URL, srv.Client()),
		OnProductResolved: func(p *domain.ProductRecord) {
			resolved = p
		},
	})
	if err != nil {
		t.Fatalf("NewPresenterRegistry failed: %v", err)
	}

	got := registry.Dispatch(context.Background(), "lookup_product_info", json.RawMessage(`{"product_id": "P2"}`))
	if !strings.Contains(got, "Gadget") {
		t.Fatalf("expected product summary, got %q", got)
	}
	if resolved == nil || resolved.ProductID != "P2" {
		t.Fatalf("context switch hook not fired: %+v", resolved)
	}
	rec := log.Record()
	if rec.ProductID != "P2" || rec.ProductName != "Gadget" {
		t.Fatalf("log product fields not updated: %+v", rec)
	}

	got = registry.Dispatch(context.Background(), "lookup_product_info", json.RawMessage(`{"product_id": "P404"}`))
	if got != "No product found for id P404." {
		t.Fatalf("unexpected miss status: %q", got)
	}
}

func TestToolFailuresAreStatusStringsNotPanics(t *testing.T) {
	log := interaction.NewLog()
	registry, err := NewPresenterRegistry(Deps{Log: log})
	if err != nil {
		t.Fatalf("NewPresenterRegistry failed: %v", err)
	}

	got := registry.Dispatch(context.Background(), "add_to_product_waitlist",
		json.RawMessage(`{"email": "a@b.com", "product_id": "P1"}`))
	if !strings.Contains(got, "Failed to add to waitlist") {
		t.Fatalf("expected failure status, got %q", got)
	}

	got = registry.Dispatch(context.Background(), "lookup_product_info", json.RawMessage(`{"product_id": "P1"}`))
	if got != "Product lookup is not available." {
		t.Fatalf("unexpected status: %q", got)
	}
}
