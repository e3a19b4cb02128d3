package automod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsrg-tools/qualint/pkg/automod"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", automod.SeverityError.String())
	assert.Equal(t, "warning", automod.SeverityWarning.String())
	assert.Equal(t, "info", automod.SeverityInfo.String())
	assert.Equal(t, "unknown", automod.Severity(99).String())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input  string
		want   automod.Severity
		wantOK bool
	}{
		{input: "error", want: automod.SeverityError, wantOK: true},
		{input: "WARNING", want: automod.SeverityWarning, wantOK: true},
		{input: "Info", want: automod.SeverityInfo, wantOK: true},
		{input: "critical", want: automod.SeverityWarning, wantOK: false},
		{input: "", want: automod.SeverityWarning, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := automod.ParseSeverity(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
