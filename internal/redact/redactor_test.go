package redact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

func TestPatternRedactor_AllCategories(t *testing.T) {
	r := NewPattern()

	got := r.Redact("John Smith, SSN 123-45-6789, called 555-123-4567 on 03/14/2024")

	assert.NotContains(t, got, "John Smith")
	assert.NotContains(t, got, "123-45-6789")
	assert.NotContains(t, got, "555-123-4567")
	assert.NotContains(t, got, "03/14/2024")
	assert.Contains(t, got, "[PATIENT_NAME]")
	assert.Contains(t, got, "[SSN]")
	assert.Contains(t, got, "[PHONE_NUMBER]")
	assert.Contains(t, got, "[DATE]")
	assert.Contains(t, got, ", SSN ")
	assert.Contains(t, got, ", called ")
	assert.Contains(t, got, " on ")
}

func TestPatternRedactor_Dates(t *testing.T) {
	r := NewPattern()

	tests := []struct {
		name string
		in   string
	}{
		{"numeric short year", "seen on 3/4/24 for follow-up"},
		{"numeric long year", "seen on 12/31/2023 for follow-up"},
		{"textual", "admitted Mar 14, 2024 overnight"},
		{"iso", "discharged 2024-03-15 at noon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, r.Redact(tt.in), "[DATE]")
		})
	}
}

func TestPatternRedactor_Phone(t *testing.T) {
	r := NewPattern()

	for _, in := range []string{
		"call 555-123-4567 today",
		"call (555) 123-4567 today",
		"call 555.123.4567 today",
		"call 5551234567 today",
	} {
		got := r.Redact(in)
		assert.Contains(t, got, "[PHONE_NUMBER]", "input %q", in)
	}
}

func TestPatternRedactor_Address(t *testing.T) {
	r := NewPattern()

	got := r.Redact("lives at 42 maple Street with family")
	assert.Contains(t, got, "[ADDRESS]")
	assert.NotContains(t, got, "42 maple Street")

	// A capitalised street name is over-matched by the name rule
	// first; the span is still redacted, just as a name.
	got = r.Redact("lives at 42 Maple Street with family")
	assert.NotContains(t, got, "Maple Street")
}

func TestPatternRedactor_Honorific(t *testing.T) {
	r := NewPattern()

	got := r.Redact("Referred by Dr. Jane Doe yesterday")
	assert.NotContains(t, got, "Jane Doe")
	assert.Contains(t, got, "[PATIENT_NAME]")
}

// Re-applying redaction to already redacted text must not change the
// SSN and phone substitutions: placeholders contain no digits.
func TestPatternRedactor_IdempotentOnPlaceholders(t *testing.T) {
	r := NewPattern()

	once := r.Redact("SSN 123-45-6789 phone 555-123-4567")
	twice := r.Redact(once)

	assert.Equal(t, once, twice)
}

func TestPatternRedactor_NoPHI(t *testing.T) {
	r := NewPattern()

	in := "the patient reported mild discomfort"
	assert.Equal(t, in, r.Redact(in))
}

type stubDetector struct {
	entities []driven.PIIEntity
	err      error
}

func (d *stubDetector) DetectPII(_ context.Context, _ string) ([]driven.PIIEntity, error) {
	return d.entities, d.err
}

func TestServiceRedactor_ReplacesDetectedSpans(t *testing.T) {
	r := NewService(NewPattern(), &stubDetector{
		entities: []driven.PIIEntity{{Text: "MRN-88421", Category: "MedicalRecordNumber"}},
	})

	got := r.Redact("record MRN-88421 on file")
	assert.Equal(t, "record [MEDICALRECORDNUMBER] on file", got)
}

func TestServiceRedactor_FallsBackOnDetectorFailure(t *testing.T) {
	r := NewService(NewPattern(), &stubDetector{err: errors.New("service down")})

	got := r.Redact("SSN 123-45-6789 on file")
	assert.Contains(t, got, "[SSN]")
}
