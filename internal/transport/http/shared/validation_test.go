package shared

import (
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Required("email", "", "email is required")
	v.Enum("status", "archived", []string{"active", "inactive"}, "status must be active or inactive")
	v.NonNegative("target", -5, "target must not be negative")

	issues := v.Issues()
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d", len(issues))
	}
	if issues[0].Field != "email" {
		t.Fatalf("expected issues sorted by field, got %q first", issues[0].Field)
	}
}

func TestValidatorPassesValidInput(t *testing.T) {
	v := NewValidator()
	v.Required("name", "Revenue", "name is required")
	v.Enum("status", "active", []string{"active", "inactive"}, "status must be active or inactive")
	v.NonNegative("target", 100, "target must not be negative")
	if _, ok := v.Date("startDate", "2024-01-01"); !ok {
		t.Fatal("expected valid date")
	}

	if v.HasIssues() {
		t.Fatalf("expected no issues, got %+v", v.Issues())
	}
}

func TestValidatorRejectWritesValidationError(t *testing.T) {
	v := NewValidator()
	v.Required("period", "", "period is required")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected reject to fire")
	}
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2024-06-15"); err != nil {
		t.Fatalf("date parse failed: %v", err)
	}
	if _, err := ParseDate("2024-06-15T10:00:00Z"); err != nil {
		t.Fatalf("rfc3339 parse failed: %v", err)
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatal("expected parse error")
	}
}
