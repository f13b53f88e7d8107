package analytics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/db"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := d.Migrate(); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func exec(t *testing.T, conn *sql.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := conn.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

var base = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

// logScan records a scan of path whose controls pass or fail as given.
// Failed controls carry severity sev.
func logScan(t *testing.T, d *db.DB, id, path, framework string, at time.Time, sev checks.Severity, passed ...bool) {
	t.Helper()
	rep := &checks.Report{
		ID:        id,
		Framework: framework,
		Source:    path,
		Format:    "yaml",
		Threshold: 80,
		ScannedAt: at,
	}
	for i, p := range passed {
		r := checks.Result{
			ControlID:   string(rune('A' + i)),
			ControlName: "control " + string(rune('A'+i)),
			Passed:      p,
			Severity:    checks.SeverityInfo,
		}
		if p {
			rep.Passed++
		} else {
			rep.Failed++
			r.Severity = sev
		}
		rep.Results = append(rep.Results, r)
	}
	if len(passed) > 0 {
		rep.Score = float64(rep.Passed) / float64(len(passed)) * 100
	}
	rep.Compliant = rep.Score >= rep.Threshold
	if err := d.LogScan(rep); err != nil {
		t.Fatalf("log scan %s: %v", id, err)
	}
}

// --- QueryFrameworkSummaries ---

func TestQueryFrameworkSummaries(t *testing.T) {
	d := testDB(t)

	logScan(t, d, "s1", "a.yaml", "hipaa", base, checks.SeverityHigh, true, true, true, true)
	logScan(t, d, "s2", "a.yaml", "hipaa", base.Add(time.Hour), checks.SeverityHigh, true, true, false, false)
	logScan(t, d, "s3", "b.yaml", "hipaa", base.Add(2*time.Hour), checks.SeverityHigh, true, false, false, false)
	logScan(t, d, "s4", "c.yaml", "acme", base, checks.SeverityLow, true)

	results, err := QueryFrameworkSummaries(d, "")
	if err != nil {
		t.Fatalf("QueryFrameworkSummaries: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 frameworks, got %d", len(results))
	}

	acme, hipaa := results[0], results[1]
	if acme.Framework != "acme" || hipaa.Framework != "hipaa" {
		t.Fatalf("frameworks = %q, %q; want acme, hipaa", acme.Framework, hipaa.Framework)
	}
	if hipaa.Scans != 3 {
		t.Errorf("hipaa scans = %d, want 3", hipaa.Scans)
	}
	if hipaa.Files != 2 {
		t.Errorf("hipaa files = %d, want 2", hipaa.Files)
	}
	if hipaa.Compliant != 33.3 {
		t.Errorf("hipaa compliant = %f, want 33.3", hipaa.Compliant)
	}
	// scores 25, 50, 100
	if hipaa.Avg != 58.3 {
		t.Errorf("hipaa avg = %f, want 58.3", hipaa.Avg)
	}
	if hipaa.P50 != 50 {
		t.Errorf("hipaa p50 = %f, want 50", hipaa.P50)
	}
	if hipaa.P95 != 95 {
		t.Errorf("hipaa p95 = %f, want 95", hipaa.P95)
	}
	if acme.Compliant != 100 {
		t.Errorf("acme compliant = %f, want 100", acme.Compliant)
	}
}

func TestQueryFrameworkSummaries_Since(t *testing.T) {
	d := testDB(t)

	logScan(t, d, "old", "a.yaml", "hipaa", base.AddDate(0, -1, 0), checks.SeverityHigh, false)
	logScan(t, d, "new", "a.yaml", "hipaa", base, checks.SeverityHigh, true)

	results, err := QueryFrameworkSummaries(d, "2026-05-15")
	if err != nil {
		t.Fatalf("QueryFrameworkSummaries: %v", err)
	}
	if len(results) != 1 || results[0].Scans != 1 {
		t.Fatalf("expected 1 scan since cutoff, got %+v", results)
	}
	if results[0].Avg != 100 {
		t.Errorf("avg = %f, want 100", results[0].Avg)
	}
}

func TestQueryFrameworkSummaries_Empty(t *testing.T) {
	d := testDB(t)
	results, err := QueryFrameworkSummaries(d, "")
	if err != nil {
		t.Fatalf("QueryFrameworkSummaries: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

// --- QueryControlFailureRates ---

func TestQueryControlFailureRates(t *testing.T) {
	d := testDB(t)

	// Control A always passes, B fails twice of three, C fails every time.
	logScan(t, d, "s1", "a.yaml", "hipaa", base, checks.SeverityMedium, true, false, false)
	logScan(t, d, "s2", "a.yaml", "hipaa", base.Add(time.Hour), checks.SeverityCritical, true, false, false)
	logScan(t, d, "s3", "a.yaml", "hipaa", base.Add(2*time.Hour), checks.SeverityLow, true, true, false)

	results, err := QueryControlFailureRates(d, "")
	if err != nil {
		t.Fatalf("QueryControlFailureRates: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 controls, got %d", len(results))
	}

	want := []struct {
		id       string
		failed   int
		rate     float64
		severity string
	}{
		{"C", 3, 100, "CRITICAL"},
		{"B", 2, 66.7, "CRITICAL"},
		{"A", 0, 0, ""},
	}
	for i, w := range want {
		r := results[i]
		if r.ControlID != w.id {
			t.Errorf("results[%d].ControlID = %q, want %q", i, r.ControlID, w.id)
			continue
		}
		if r.Total != 3 {
			t.Errorf("%s total = %d, want 3", w.id, r.Total)
		}
		if r.Failed != w.failed {
			t.Errorf("%s failed = %d, want %d", w.id, r.Failed, w.failed)
		}
		if r.FailRate != w.rate {
			t.Errorf("%s fail rate = %f, want %f", w.id, r.FailRate, w.rate)
		}
		if r.Severity != w.severity {
			t.Errorf("%s severity = %q, want %q", w.id, r.Severity, w.severity)
		}
	}
}

// --- QueryScoreTrend ---

func TestQueryScoreTrend(t *testing.T) {
	d := testDB(t)

	logScan(t, d, "s1", "a.yaml", "hipaa", base, checks.SeverityHigh, true, false)
	logScan(t, d, "s2", "a.yaml", "hipaa", base.Add(time.Hour), checks.SeverityHigh, true, true)
	logScan(t, d, "s3", "b.yaml", "hipaa", base.Add(2*time.Hour), checks.SeverityHigh, false, false)
	logScan(t, d, "s4", "a.yaml", "hipaa", base.Add(3*time.Hour), checks.SeverityHigh, false, false)

	points, err := QueryScoreTrend(d, "a.yaml")
	if err != nil {
		t.Fatalf("QueryScoreTrend: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	wantIDs := []string{"s1", "s2", "s4"}
	wantDeltas := []float64{0, 50, -100}
	for i := range points {
		if points[i].ScanID != wantIDs[i] {
			t.Errorf("points[%d].ScanID = %q, want %q", i, points[i].ScanID, wantIDs[i])
		}
		if points[i].Delta != wantDeltas[i] {
			t.Errorf("points[%d].Delta = %f, want %f", i, points[i].Delta, wantDeltas[i])
		}
	}
	if !points[1].ScannedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("points[1].ScannedAt = %v, want %v", points[1].ScannedAt, base.Add(time.Hour))
	}
}

// --- QueryFileSummaries ---

func TestQueryFileSummaries(t *testing.T) {
	d := testDB(t)

	logScan(t, d, "s1", "a.yaml", "hipaa", base, checks.SeverityHigh, true, true)
	logScan(t, d, "s2", "a.yaml", "hipaa", base.Add(time.Hour), checks.SeverityHigh, true, false)
	logScan(t, d, "s3", "b.yaml", "hipaa", base.Add(2*time.Hour), checks.SeverityHigh, false, false)

	results, err := QueryFileSummaries(d, "")
	if err != nil {
		t.Fatalf("QueryFileSummaries: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 files, got %d", len(results))
	}
	if results[0].Path != "b.yaml" {
		t.Errorf("least compliant first: got %q, want b.yaml", results[0].Path)
	}

	a := results[1]
	if a.Scans != 2 {
		t.Errorf("a scans = %d, want 2", a.Scans)
	}
	if a.LatestScore != 50 || a.LatestCompliant {
		t.Errorf("a latest = %f compliant=%v, want 50 false", a.LatestScore, a.LatestCompliant)
	}
	if a.Best != 100 || a.Worst != 50 {
		t.Errorf("a best/worst = %f/%f, want 100/50", a.Best, a.Worst)
	}
	if !a.LastScanned.Equal(base.Add(time.Hour)) {
		t.Errorf("a last scanned = %v", a.LastScanned)
	}
}

// --- helpers ---

func TestParseTimestamp(t *testing.T) {
	d := testDB(t)
	exec(t, d.Conn(), `INSERT INTO scans (id, path, format, framework, passed, failed, score, threshold, compliant, scanned_at)
		VALUES ('legacy', 'x.yaml', 'yaml', 'hipaa', 1, 0, 100, 80, 1, '2026-06-01 10:00:00')`)

	points, err := QueryScoreTrend(d, "x.yaml")
	if err != nil {
		t.Fatalf("QueryScoreTrend: %v", err)
	}
	if len(points) != 1 || !points[0].ScannedAt.Equal(base) {
		t.Errorf("expected space-separated timestamp to parse, got %+v", points)
	}

	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unrecognized timestamp")
	}
}

func TestPercentile(t *testing.T) {
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("percentile(nil) = %f, want 0", got)
	}
	if got := percentile([]float64{10}, 95); got != 10 {
		t.Errorf("percentile single = %f, want 10", got)
	}
	if got := percentile([]float64{0, 100}, 50); got != 50 {
		t.Errorf("percentile midpoint = %f, want 50", got)
	}
	if got := pct(1, 3); got != 33.3 {
		t.Errorf("pct(1,3) = %f, want 33.3", got)
	}
}
