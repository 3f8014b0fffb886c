package ftpc

import (
	"errors"
	"strings"
	"testing"
)

func TestProtocolError_Error(t *testing.T) {
	t.Parallel()
	err := &ProtocolError{
		Command: "STOR file.txt",
		Reply:   Reply{Code: 550, Message: "Permission denied"},
	}

	msg := err.Error()
	for _, want := range []string{"STOR file.txt", "Permission denied", "550"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestProtocolError_Classification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code          int
		wantTemporary bool
		wantPermanent bool
	}{
		{421, true, false},
		{450, true, false},
		{500, false, true},
		{553, false, true},
		{226, false, false},
		{331, false, false},
	}

	for _, tt := range tests {
		err := &ProtocolError{Command: "X", Reply: Reply{Code: tt.code}}
		if err.IsTemporary() != tt.wantTemporary {
			t.Errorf("code %d: IsTemporary() = %v, want %v", tt.code, err.IsTemporary(), tt.wantTemporary)
		}
		if err.IsPermanent() != tt.wantPermanent {
			t.Errorf("code %d: IsPermanent() = %v, want %v", tt.code, err.IsPermanent(), tt.wantPermanent)
		}
	}
}

func TestProtocolError_As(t *testing.T) {
	t.Parallel()
	var err error = &ProtocolError{Command: "CWD /nope", Reply: Reply{Code: 550, Message: "No such directory"}}

	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As failed to match *ProtocolError")
	}
	if pe.Reply.Code != 550 {
		t.Errorf("unwrapped code = %d, want 550", pe.Reply.Code)
	}
}
