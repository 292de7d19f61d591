package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagelens/pagelens/internal/analyzer"
	"github.com/pagelens/pagelens/internal/database"
	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/fetch"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sample page for audit step testing here</title>
<meta name="description" content="A sample page used to verify that the audit pipeline steps fetch, analyze, and extract content as expected end to end.">
</head>
<body>
<h1>Sample</h1>
<p>Contact us at hello@sample.test or follow our work.</p>
</body>
</html>`

func openStepDB(t *testing.T) *database.AuditDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestQuotaStep(t *testing.T) {
	t.Parallel()

	t.Run("nil database is a no-op", func(t *testing.T) {
		t.Parallel()

		step := NewQuotaStep(nil, 10, nil)
		if err := step.Do(context.Background(), NewResult("https://example.com")); err != nil {
			t.Errorf("Do() error = %v, want nil", err)
		}
	})

	t.Run("zero limit disables the check", func(t *testing.T) {
		t.Parallel()

		step := NewQuotaStep(openStepDB(t), 0, nil)
		if err := step.Do(context.Background(), NewResult("https://example.com")); err != nil {
			t.Errorf("Do() error = %v, want nil", err)
		}
	})

	t.Run("under quota passes", func(t *testing.T) {
		t.Parallel()

		step := NewQuotaStep(openStepDB(t), 10, nil)
		if err := step.Do(context.Background(), NewResult("https://example.com")); err != nil {
			t.Errorf("Do() error = %v, want nil", err)
		}
	})

	t.Run("exhausted quota fails with failure report", func(t *testing.T) {
		t.Parallel()

		db := openStepDB(t)
		ctx := context.Background()
		month := database.MonthKey(time.Now())
		for i := 0; i < 2; i++ {
			if err := db.IncrementUsage(ctx, month); err != nil {
				t.Fatal(err)
			}
		}

		step := NewQuotaStep(db, 2, nil)
		result := NewResult("https://example.com")

		err := step.Do(ctx, result)
		if !errors.Is(err, fetch.ErrQuotaExceeded) {
			t.Fatalf("Do() error = %v, want ErrQuotaExceeded", err)
		}
		if result.Report == nil || result.Report.Success {
			t.Errorf("Report = %+v, want failure report", result.Report)
		}
	})
}

func TestFetchStep(t *testing.T) {
	t.Parallel()

	t.Run("successful fetch fills result and counts usage", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(samplePage))
		}))
		defer server.Close()

		db := openStepDB(t)
		step := NewFetchStep(fetch.NewClient(), db, nil)
		result := NewResult(server.URL)

		if err := step.Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if result.HTML == "" {
			t.Error("HTML is empty after fetch")
		}
		if result.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want 200", result.StatusCode)
		}
		if result.FinalURL == "" {
			t.Error("FinalURL is empty after fetch")
		}

		used, err := db.MonthlyUsage(context.Background(), database.MonthKey(time.Now()))
		if err != nil {
			t.Fatal(err)
		}
		if used != 1 {
			t.Errorf("MonthlyUsage() = %d, want 1 after fetch", used)
		}
	})

	t.Run("failed fetch records failure report", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		db := openStepDB(t)
		step := NewFetchStep(fetch.NewClient(), db, nil)
		result := NewResult(server.URL)

		err := step.Do(context.Background(), result)
		if err == nil {
			t.Fatal("Do() expected error for 404 response")
		}
		if result.Report == nil || result.Report.Success {
			t.Errorf("Report = %+v, want failure report", result.Report)
		}

		used, usageErr := db.MonthlyUsage(context.Background(), database.MonthKey(time.Now()))
		if usageErr != nil {
			t.Fatal(usageErr)
		}
		if used != 0 {
			t.Errorf("MonthlyUsage() = %d, want 0 after failed fetch", used)
		}
	})
}

func TestAnalyzeStep(t *testing.T) {
	t.Parallel()

	t.Run("analyzes fetched content", func(t *testing.T) {
		t.Parallel()

		step := NewAnalyzeStep(analyzer.New(), nil)
		result := NewResult("https://example.com")
		result.FinalURL = "https://example.com/"
		result.HTML = samplePage

		if err := step.Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if result.Report == nil || !result.Report.Success {
			t.Fatalf("Report = %+v, want successful report", result.Report)
		}
		if result.Report.URL != "https://example.com/" {
			t.Errorf("Report.URL = %q, want final URL", result.Report.URL)
		}
	})

	t.Run("empty content produces failure report", func(t *testing.T) {
		t.Parallel()

		step := NewAnalyzeStep(analyzer.New(), nil)
		result := NewResult("https://example.com")

		if err := step.Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v, want nil (failure recorded in report)", err)
		}
		if result.Report == nil || result.Report.Success {
			t.Errorf("Report = %+v, want failure report", result.Report)
		}
	})
}

func TestResearchStep(t *testing.T) {
	t.Parallel()

	t.Run("extracts research data", func(t *testing.T) {
		t.Parallel()

		step := NewResearchStep(extract.New(), nil)
		result := NewResult("https://sample.test")
		result.HTML = samplePage

		if err := step.Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if result.Research == nil {
			t.Fatal("Research = nil, want extracted data")
		}
		if len(result.Research.Emails) != 1 || result.Research.Emails[0] != "hello@sample.test" {
			t.Errorf("Emails = %v, want [hello@sample.test]", result.Research.Emails)
		}
	})

	t.Run("skips when nothing was fetched", func(t *testing.T) {
		t.Parallel()

		step := NewResearchStep(extract.New(), nil)
		result := NewResult("https://sample.test")

		if err := step.Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if result.Research != nil {
			t.Errorf("Research = %+v, want nil without content", result.Research)
		}
	})
}

func TestPersistStep(t *testing.T) {
	t.Parallel()

	t.Run("saves successful report and research", func(t *testing.T) {
		t.Parallel()

		db := openStepDB(t)
		ctx := context.Background()

		result := NewResult("https://example.com")
		result.HTML = samplePage
		if err := NewAnalyzeStep(analyzer.New(), nil).Do(ctx, result); err != nil {
			t.Fatal(err)
		}
		if err := NewResearchStep(extract.New(), nil).Do(ctx, result); err != nil {
			t.Fatal(err)
		}

		if err := NewPersistStep(db, nil).Do(ctx, result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}

		saved, err := db.GetReport(ctx, result.Report.URL)
		if err != nil {
			t.Fatal(err)
		}
		if saved == nil {
			t.Fatal("GetReport() = nil, want saved report")
		}

		research, err := db.GetResearch(ctx, result.Research.Site)
		if err != nil {
			t.Fatal(err)
		}
		if research == nil {
			t.Error("GetResearch() = nil, want saved research")
		}
	})

	t.Run("skips failed reports", func(t *testing.T) {
		t.Parallel()

		db := openStepDB(t)
		ctx := context.Background()

		result := NewResult("https://example.com")
		result.Report = failureReport("https://example.com", "fetch failed")

		if err := NewPersistStep(db, nil).Do(ctx, result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}

		saved, err := db.GetReport(ctx, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		if saved != nil {
			t.Errorf("GetReport() = %+v, want nil (failure not persisted)", saved)
		}
	})

	t.Run("nil database is a no-op", func(t *testing.T) {
		t.Parallel()

		result := NewResult("https://example.com")
		result.Report = failureReport("https://example.com", "anything")

		if err := NewPersistStep(nil, nil).Do(context.Background(), result); err != nil {
			t.Errorf("Do() error = %v, want nil", err)
		}
	})
}

func TestFullPipeline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	db := openStepDB(t)

	p := New()
	p.AddSteps(
		NewQuotaStep(db, 100, nil),
		NewFetchStep(fetch.NewClient(), db, nil),
		NewAnalyzeStep(analyzer.New(), nil),
		NewResearchStep(extract.New(), nil),
		NewPersistStep(db, nil),
	)

	result := NewResult(server.URL)
	if err := p.Execute(context.Background(), result); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Report == nil || !result.Report.Success {
		t.Fatalf("Report = %+v, want successful report", result.Report)
	}
	if result.Research == nil {
		t.Error("Research = nil, want extracted data")
	}
	if len(result.PerformedSteps) != 5 {
		t.Errorf("PerformedSteps = %v, want 5 steps", result.PerformedSteps)
	}

	saved, err := db.GetReport(context.Background(), result.Report.URL)
	if err != nil {
		t.Fatal(err)
	}
	if saved == nil {
		t.Error("GetReport() = nil, want persisted report")
	}
}
