package iso7816

import (
	"strings"
	"testing"
)

func TestStatusWord(t *testing.T) {
	type class int
	const (
		success class = iota
		warning
		failure
	)

	tests := []struct {
		name    string
		sw      StatusWord
		class   class
		trigger bool
		counter bool
		verbose string
	}{
		{"STORE DATA accepted", SW_NO_ERROR, success, false, false, "[9000] Normal processing"},
		{"Response pending on T=0", NewStatusWord(0x61, 0x20), success, false, false, "32 bytes available"},
		{"Triggering lower bound", SW_WARN_TRIGGERING_BY_CARD, warning, true, false, "Card expects query of 2 bytes"},
		{"Triggering upper bound", NewStatusWord(0x62, 0x80), warning, true, false, "query of 128 bytes"},
		{"Below triggering range", NewStatusWord(0x62, 0x01), warning, false, false, "[6201] Warning: NV memory unchanged"},
		{"Retry counter", NewStatusWord(0x63, 0xC3), warning, false, true, "counter = 3"},
		{"File filled is not a counter", SW_WARN_FILE_FILLED, warning, false, false, "file filled up"},
		{"Execution error triggering", NewStatusWord(0x64, 0x10), failure, true, false, "Error/Abort (Triggering)"},
		{"Wrong Le", NewStatusWord(0x6C, 0x05), failure, false, false, "correct Le is 5"},
		{"ISD-R busy", SW_ERR_COND_OF_USE_NOT_SAT, failure, false, false, "[6985] Conditions of use not satisfied"},
		{"Unknown GET DATA tag", SW_ERR_REF_DATA_NOT_FOUND, failure, false, false, "[6A88] Referenced data"},
		{"Unlisted 6A code", NewStatusWord(0x6A, 0x99), failure, false, false, "[6A99] Checking Error: Wrong parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sw.IsSuccess(); got != (tt.class == success) {
				t.Errorf("IsSuccess() = %v", got)
			}
			if got := tt.sw.IsWarning(); got != (tt.class == warning) {
				t.Errorf("IsWarning() = %v", got)
			}
			if got := tt.sw.IsError(); got != (tt.class == failure) {
				t.Errorf("IsError() = %v", got)
			}
			if got := tt.sw.IsTriggeringByCard(); got != tt.trigger {
				t.Errorf("IsTriggeringByCard() = %v", got)
			}
			if got := tt.sw.IsCounter(); got != tt.counter {
				t.Errorf("IsCounter() = %v", got)
			}
			if got := tt.sw.Verbose(); !strings.Contains(got, tt.verbose) {
				t.Errorf("Verbose() = %q, want it to contain %q", got, tt.verbose)
			}
		})
	}
}

func TestStatusWord_String(t *testing.T) {
	if got := SW_ERR_FILE_NOT_FOUND.String(); got != "File or application not found" {
		t.Errorf("String() = %q", got)
	}
	if got := NewStatusWord(0x91, 0x10).String(); got != "StatusWord(9110)" {
		t.Errorf("String() = %q", got)
	}
}

func TestStatusWord_Category(t *testing.T) {
	tests := []struct {
		sw   StatusWord
		want Category
	}{
		{SW_NO_ERROR, CategorySuccess},
		{NewStatusWord(0x61, 0x10), CategorySuccess},
		{NewStatusWord(0x91, 0x1A), CategorySuccess},
		{SW_WARN_FILE_FILLED, CategoryWarning},
		{SW_ERR_REF_DATA_NOT_FOUND, CategoryError},
		{NewStatusWord(0x90, 0x01), CategoryUnknown},
	}
	for _, tt := range tests {
		if got := tt.sw.Category(); got != tt.want {
			t.Errorf("%04X.Category() = %s, want %s", uint16(tt.sw), got, tt.want)
		}
	}

	if got := NewStatusWord(0x91, 0x1A).Verbose(); got != "Normal processing, proactive command of 26 bytes pending" {
		t.Errorf("Verbose() = %q", got)
	}
}
